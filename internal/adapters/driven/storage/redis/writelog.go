// Package redis provides a write log shared by every process pointed at the
// same Redis server. Entries expire after a TTL.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/custodia-labs/mailpage/internal/core/domain"
	"github.com/custodia-labs/mailpage/internal/core/ports/driven"
)

const (
	// DefaultTTL is how long a written message is remembered.
	DefaultTTL = 30 * 24 * time.Hour

	// keyPrefix namespaces write log keys in Redis.
	keyPrefix = "mailpage:written:"
)

var _ driven.WriteLog = (*WriteLog)(nil)

// WriteLog implements driven.WriteLog on Redis.
type WriteLog struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewWriteLog creates a write log. Non-positive ttl uses DefaultTTL.
func NewWriteLog(rdb *redis.Client, ttl time.Duration) *WriteLog {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &WriteLog{rdb: rdb, ttl: ttl}
}

// Connect parses a redis:// URL, opens a client and checks it responds.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

func key(messageID, databaseID string) string {
	return keyPrefix + databaseID + ":" + messageID
}

// record is the stored JSON form of an entry.
type record struct {
	ID        string    `json:"id"`
	PageID    string    `json:"page_id"`
	PageURL   string    `json:"page_url,omitempty"`
	WrittenAt time.Time `json:"written_at"`
}

// Lookup returns the entry for a message/database pair.
func (w *WriteLog) Lookup(ctx context.Context, messageID, databaseID string) (*driven.WriteLogEntry, error) {
	raw, err := w.rdb.Get(ctx, key(messageID, databaseID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("write log GET: %w", err)
	}
	return decode(messageID, databaseID, raw)
}

// Record stores an entry with the configured TTL.
func (w *WriteLog) Record(ctx context.Context, entry driven.WriteLogEntry) error {
	if entry.MessageID == "" || entry.DatabaseID == "" {
		return fmt.Errorf("%w: write log entry needs message and database", domain.ErrInvalidInput)
	}
	raw, err := encode(entry)
	if err != nil {
		return err
	}
	if err := w.rdb.Set(ctx, key(entry.MessageID, entry.DatabaseID), raw, w.ttl).Err(); err != nil {
		return fmt.Errorf("write log SET: %w", err)
	}
	return nil
}

func encode(entry driven.WriteLogEntry) ([]byte, error) {
	raw, err := json.Marshal(record{
		ID:        entry.ID,
		PageID:    entry.PageID,
		PageURL:   entry.PageURL,
		WrittenAt: entry.WrittenAt.UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("encode write log entry: %w", err)
	}
	return raw, nil
}

func decode(messageID, databaseID string, raw []byte) (*driven.WriteLogEntry, error) {
	var r record
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("decode write log entry: %w", err)
	}
	return &driven.WriteLogEntry{
		ID:         r.ID,
		MessageID:  messageID,
		DatabaseID: databaseID,
		PageID:     r.PageID,
		PageURL:    r.PageURL,
		WrittenAt:  r.WrittenAt,
	}, nil
}
