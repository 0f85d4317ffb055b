package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/mailpage/internal/core/domain"
)

func TestMappingStore_LoadEmpty(t *testing.T) {
	store := NewMappingStore()

	set, err := store.Load(context.Background(), "db1")

	require.NoError(t, err)
	assert.Equal(t, 0, set.Len())
}

func TestMappingStore_SaveLoad(t *testing.T) {
	store := NewMappingStore()
	ctx := context.Background()
	set := domain.NewMappingSet()
	set.Set("title", domain.MappingEntry{Type: domain.FieldTypeTitle, Enabled: true, SourceField: "subject"})
	set.Set("tags", domain.MappingEntry{Type: domain.FieldTypeMultiSelect, Enabled: true, StaticValues: []string{"a"}})

	require.NoError(t, store.Save(ctx, "db1", set))
	set.Delete("title")

	loaded, err := store.Load(ctx, "db1")
	require.NoError(t, err)
	assert.Equal(t, []string{"title", "tags"}, loaded.Keys())

	loaded.Delete("tags")
	again, err := store.Load(ctx, "db1")
	require.NoError(t, err)
	assert.Equal(t, 2, again.Len())
}

func TestMappingStore_PerDatabase(t *testing.T) {
	store := NewMappingStore()
	ctx := context.Background()
	set := domain.NewMappingSet()
	set.Set("title", domain.MappingEntry{Type: domain.FieldTypeTitle})
	require.NoError(t, store.Save(ctx, "db1", set))

	other, err := store.Load(ctx, "db2")

	require.NoError(t, err)
	assert.Equal(t, 0, other.Len())
}

func TestMappingStore_Delete(t *testing.T) {
	store := NewMappingStore()
	ctx := context.Background()
	set := domain.NewMappingSet()
	set.Set("title", domain.MappingEntry{Type: domain.FieldTypeTitle})
	require.NoError(t, store.Save(ctx, "db1", set))

	require.NoError(t, store.Delete(ctx, "db1"))

	loaded, err := store.Load(ctx, "db1")
	require.NoError(t, err)
	assert.Equal(t, 0, loaded.Len())
}

func TestMappingStore_SaveRequiresDatabase(t *testing.T) {
	store := NewMappingStore()

	err := store.Save(context.Background(), "", domain.NewMappingSet())

	assert.ErrorIs(t, err, domain.ErrMissingDatabase)
}
