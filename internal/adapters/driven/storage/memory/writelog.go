package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/mailpage/internal/core/domain"
	"github.com/custodia-labs/mailpage/internal/core/ports/driven"
)

// Ensure WriteLog implements the interface.
var _ driven.WriteLog = (*WriteLog)(nil)

// WriteLog is an in-memory implementation of driven.WriteLog.
type WriteLog struct {
	mu      sync.RWMutex
	entries map[string]driven.WriteLogEntry
}

// NewWriteLog creates a new in-memory write log.
func NewWriteLog() *WriteLog {
	return &WriteLog{
		entries: make(map[string]driven.WriteLogEntry),
	}
}

func writeKey(messageID, databaseID string) string {
	return databaseID + "/" + messageID
}

// Lookup returns the entry for a message/database pair.
func (w *WriteLog) Lookup(_ context.Context, messageID, databaseID string) (*driven.WriteLogEntry, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	entry, ok := w.entries[writeKey(messageID, databaseID)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &entry, nil
}

// Record stores an entry, replacing any earlier one for the same pair.
func (w *WriteLog) Record(_ context.Context, entry driven.WriteLogEntry) error {
	if entry.MessageID == "" || entry.DatabaseID == "" {
		return domain.ErrInvalidInput
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.entries[writeKey(entry.MessageID, entry.DatabaseID)] = entry
	return nil
}
