package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/mailpage/internal/core/domain"
)

// MappingStore persists mapping sets, one per target database.
type MappingStore interface {
	// Load returns the mapping set for a database.
	// Returns an empty set (not an error) if none has been saved.
	Load(ctx context.Context, databaseID string) (*domain.MappingSet, error)

	// Save replaces the stored mapping set for a database.
	Save(ctx context.Context, databaseID string, set *domain.MappingSet) error

	// Delete removes the mapping set for a database.
	Delete(ctx context.Context, databaseID string) error
}

// WriteLogEntry records one message written to a database.
type WriteLogEntry struct {
	ID         string
	MessageID  string
	DatabaseID string
	PageID     string
	PageURL    string
	WrittenAt  time.Time
}

// WriteLog remembers which messages were already written to which database.
type WriteLog interface {
	// Lookup returns the entry for a message/database pair.
	// Returns domain.ErrNotFound if the message has not been written.
	Lookup(ctx context.Context, messageID, databaseID string) (*WriteLogEntry, error)

	// Record stores an entry.
	Record(ctx context.Context, entry WriteLogEntry) error
}

// MessageSource retrieves messages as source records.
type MessageSource interface {
	Fetch(ctx context.Context, messageID string) (domain.SourceRecord, error)
}
