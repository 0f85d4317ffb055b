package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/mailpage/internal/core/domain"
	"github.com/custodia-labs/mailpage/internal/core/ports/driven"
)

func TestWriteLog_RecordLookup(t *testing.T) {
	log := NewWriteLog()
	ctx := context.Background()
	entry := driven.WriteLogEntry{
		ID: "w1", MessageID: "m1", DatabaseID: "db1",
		PageID: "p1", PageURL: "https://notion.so/p1", WrittenAt: time.Unix(1700000000, 0).UTC(),
	}

	require.NoError(t, log.Record(ctx, entry))

	got, err := log.Lookup(ctx, "m1", "db1")
	require.NoError(t, err)
	assert.Equal(t, entry, *got)
}

func TestWriteLog_NotFound(t *testing.T) {
	log := NewWriteLog()
	ctx := context.Background()
	require.NoError(t, log.Record(ctx, driven.WriteLogEntry{MessageID: "m1", DatabaseID: "db1"}))

	_, err := log.Lookup(ctx, "m1", "db2")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = log.Lookup(ctx, "m2", "db1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestWriteLog_RecordRequiresKeys(t *testing.T) {
	log := NewWriteLog()

	err := log.Record(context.Background(), driven.WriteLogEntry{MessageID: "m1"})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
