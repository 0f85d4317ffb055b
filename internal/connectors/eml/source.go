package eml

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/mailpage/internal/core/domain"
	"github.com/custodia-labs/mailpage/internal/core/ports/driven"
)

var _ driven.MessageSource = (*Source)(nil)

// Source reads messages from .eml files. Message ids are file paths.
// Fetch remembers the path each record came from so attachments can also
// be fetched by the record's message id.
type Source struct {
	mu    sync.Mutex
	paths map[string]string
}

// NewSource creates a file source.
func NewSource() *Source {
	return &Source{paths: make(map[string]string)}
}

func (s *Source) resolve(id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if path, ok := s.paths[id]; ok {
		return path
	}
	return id
}

func (s *Source) load(path string) (*Message, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, path)
		}
		return nil, fmt.Errorf("open message: %w", err)
	}
	defer f.Close()

	m, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return m, nil
}

// Fetch parses the file at path. A message without a Message-ID header is
// identified by its file name.
func (s *Source) Fetch(_ context.Context, path string) (domain.SourceRecord, error) {
	m, err := s.load(path)
	if err != nil {
		return domain.SourceRecord{}, err
	}

	values := m.Values()
	if m.ID == "" {
		values[domain.FieldMessageID] = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if abs, err := filepath.Abs(path); err == nil {
		values[domain.FieldMessageLink] = "file://" + filepath.ToSlash(abs)
	}

	s.mu.Lock()
	s.paths[fmt.Sprint(values[domain.FieldMessageID])] = path
	s.mu.Unlock()
	return domain.NewSourceRecord(values), nil
}

// FetchAttachment returns the bytes of one attachment. id is a file path
// or the message id of a record this source fetched.
func (s *Source) FetchAttachment(_ context.Context, id, attachmentID string) ([]byte, error) {
	m, err := s.load(s.resolve(id))
	if err != nil {
		return nil, err
	}
	part, ok := m.Attachment(attachmentID)
	if !ok {
		return nil, fmt.Errorf("%w: attachment %s", domain.ErrNotFound, attachmentID)
	}
	return part.Data, nil
}
