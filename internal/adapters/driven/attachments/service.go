package attachments

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/mailpage/internal/core/domain"
	"github.com/custodia-labs/mailpage/internal/core/ports/driven"
	"github.com/custodia-labs/mailpage/internal/logger"
)

var _ driven.AttachmentService = (*Service)(nil)

// Fetcher reads attachment bytes from the message source.
type Fetcher interface {
	FetchAttachment(ctx context.Context, messageID, attachmentID string) ([]byte, error)
}

// Uploader stores a file and returns a URL anyone with the link can open.
type Uploader interface {
	Upload(ctx context.Context, name, mimeType string, data []byte) (string, error)
}

// Service implements driven.AttachmentService.
type Service struct {
	fetcher  Fetcher
	uploader Uploader
}

// NewService creates an attachment service. With a nil fetcher or
// uploader, upload mode falls back to linking.
func NewService(fetcher Fetcher, uploader Uploader) *Service {
	return &Service{fetcher: fetcher, uploader: uploader}
}

// Process returns file references for attachments according to mode.
func (s *Service) Process(ctx context.Context, attachments []domain.Attachment,
	attCtx domain.AttachmentContext, mode domain.FileMode) ([]domain.FileRef, error) {
	if len(attachments) == 0 {
		return nil, nil
	}

	switch mode {
	case domain.FileModeSkip:
		return nil, nil
	case domain.FileModeUpload:
		if s.fetcher == nil || s.uploader == nil {
			logger.Warn("attachment upload not configured, linking instead", "message", attCtx.MessageID)
			return link(attachments, attCtx), nil
		}
		return s.upload(ctx, attachments, attCtx)
	default:
		return link(attachments, attCtx), nil
	}
}

func link(attachments []domain.Attachment, attCtx domain.AttachmentContext) []domain.FileRef {
	if attCtx.Link == "" {
		return nil
	}
	refs := make([]domain.FileRef, 0, len(attachments))
	for _, att := range attachments {
		refs = append(refs, domain.FileRef{Name: displayName(att), URL: attCtx.Link})
	}
	return refs
}

// upload sends every attachment it can. It fails only when nothing was
// uploaded.
func (s *Service) upload(ctx context.Context, attachments []domain.Attachment,
	attCtx domain.AttachmentContext) ([]domain.FileRef, error) {
	var refs []domain.FileRef
	var errs []error
	for _, att := range attachments {
		url, err := s.uploadOne(ctx, att, attCtx.MessageID)
		if err != nil {
			logger.Warn("attachment upload failed", "message", attCtx.MessageID, "attachment", att.Name, "error", err)
			errs = append(errs, err)
			continue
		}
		refs = append(refs, domain.FileRef{Name: displayName(att), URL: url})
	}
	if len(refs) == 0 && len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return refs, nil
}

func (s *Service) uploadOne(ctx context.Context, att domain.Attachment, messageID string) (string, error) {
	data, err := s.fetcher.FetchAttachment(ctx, messageID, att.ID)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", att.Name, err)
	}
	url, err := s.uploader.Upload(ctx, displayName(att), att.MIMEType, data)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", att.Name, err)
	}
	return url, nil
}

func displayName(att domain.Attachment) string {
	if att.Name != "" {
		return att.Name
	}
	return "attachment-" + att.ID
}

// Chain tries each fetcher in turn. A fetcher that does not know the
// message (domain.ErrNotFound) passes to the next.
type Chain []Fetcher

// FetchAttachment implements Fetcher.
func (c Chain) FetchAttachment(ctx context.Context, messageID, attachmentID string) ([]byte, error) {
	err := fmt.Errorf("%w: message %s", domain.ErrNotFound, messageID)
	for _, f := range c {
		if f == nil {
			continue
		}
		var data []byte
		data, err = f.FetchAttachment(ctx, messageID, attachmentID)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
	}
	return nil, err
}
