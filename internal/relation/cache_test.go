package relation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/mailpage/internal/core/domain"
)

func TestCache_PutGet(t *testing.T) {
	c := NewCache(time.Minute)
	fields := []domain.TargetField{{ID: "a", Name: "A", Type: domain.FieldTypeTitle}}

	c.Put("db", fields)

	got, ok := c.Get("db")
	require.True(t, ok)
	assert.Equal(t, fields, got)
	assert.Equal(t, 1, c.Len())
}

func TestCache_Miss(t *testing.T) {
	c := NewCache(time.Minute)

	_, ok := c.Get("missing")
	assert.False(t, ok)
}

func TestCache_Expiry(t *testing.T) {
	clock := newFakeClock()
	c := NewCache(5*time.Minute, WithCacheClock(clock.Now))
	c.Put("db", []domain.TargetField{{ID: "a"}})

	clock.Advance(4 * time.Minute)
	_, ok := c.Get("db")
	assert.True(t, ok)

	clock.Advance(time.Minute)
	_, ok = c.Get("db")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestCache_ReturnsCopies(t *testing.T) {
	c := NewCache(time.Minute)
	fields := []domain.TargetField{{ID: "a", Name: "A"}}
	c.Put("db", fields)
	fields[0].Name = "changed"

	got, _ := c.Get("db")
	got[0].Name = "also changed"

	again, _ := c.Get("db")
	assert.Equal(t, "A", again[0].Name)
}

func TestCache_KeysAreIndependent(t *testing.T) {
	c := NewCache(time.Minute)
	c.Put("a", []domain.TargetField{{ID: "1", Name: "A"}})
	c.Put("b", nil)

	got, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, "A", got[0].Name)
	_, ok = c.Get("missing")
	assert.False(t, ok)
	assert.Equal(t, 2, c.Len())
}

func TestCache_DefaultTTL(t *testing.T) {
	c := NewCache(0)
	assert.Equal(t, domain.DefaultRelationCacheTTL, c.ttl)
}
