package relation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/mailpage/internal/core/domain"
	"github.com/custodia-labs/mailpage/internal/transforms"
)

func newTestResolver(api *fakeAPI, opts ...Option) *Resolver {
	return NewResolver(api, NewCache(time.Minute), transforms.New(), opts...)
}

func fieldNames(fields []domain.TargetField) []string {
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		out = append(out, f.Name)
	}
	return out
}

func TestFilterMappable(t *testing.T) {
	got := FilterMappable(contactsSchema().Fields)

	assert.Equal(t, []string{"Name", "Email", "VIP", "Met"}, fieldNames(got))
}

func TestResolver_LinkedFields_LiveThenCache(t *testing.T) {
	api := &fakeAPI{schemas: map[string]*domain.TargetSchema{contactsDB: contactsSchema()}}
	r := newTestResolver(api)

	first := r.LinkedFields(context.Background(), relationField(contactsDB), "secret")
	second := r.LinkedFields(context.Background(), relationField(contactsDB), "secret")

	assert.Equal(t, SourceLive, first.Source)
	assert.Equal(t, contactsDB, first.DatabaseID)
	assert.Equal(t, []string{"Name", "Email", "VIP", "Met"}, fieldNames(first.Fields))
	assert.Equal(t, SourceCache, second.Source)
	assert.Equal(t, first.Fields, second.Fields)
	assert.Equal(t, 1, api.calls())
	assert.Equal(t, []string{"secret"}, api.tokens)
}

func TestResolver_LinkedFields_Unidentifiable(t *testing.T) {
	api := &fakeAPI{}
	r := newTestResolver(api)

	got := r.LinkedFields(context.Background(), domain.TargetField{Name: "Rel", Type: domain.FieldTypeRelation}, "secret")

	assert.Equal(t, SourcePlaceholder, got.Source)
	assert.Empty(t, got.DatabaseID)
	assert.Equal(t, Placeholders(), got.Fields)
	assert.Zero(t, api.calls())
}

func TestResolver_LinkedFields_FetchError(t *testing.T) {
	api := &fakeAPI{schemaErr: errors.New("boom")}
	cache := NewCache(time.Minute)
	r := NewResolver(api, cache, nil)

	got := r.LinkedFields(context.Background(), relationField(contactsDB), "secret")

	assert.Equal(t, SourcePlaceholder, got.Source)
	assert.Equal(t, contactsDB, got.DatabaseID)
	assert.Equal(t, []string{"Name", "Email", "ID", "Title"}, fieldNames(got.Fields))
	assert.Zero(t, cache.Len())
}

func TestResolver_LinkedFields_NoAPIKey(t *testing.T) {
	api := &fakeAPI{schemas: map[string]*domain.TargetSchema{contactsDB: contactsSchema()}}
	r := newTestResolver(api)

	got := r.LinkedFields(context.Background(), relationField(contactsDB), "")

	assert.Equal(t, SourcePlaceholder, got.Source)
	assert.Zero(t, api.calls())
}

func TestResolver_LinkedFields_SlowFetchReturnsPlaceholders(t *testing.T) {
	api := &fakeAPI{
		schemas: map[string]*domain.TargetSchema{contactsDB: contactsSchema()},
		onFetch: func(ctx context.Context) error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(2 * time.Second):
				return nil
			}
		},
	}
	timeout := 50 * time.Millisecond
	r := newTestResolver(api, WithTimeout(timeout))

	start := time.Now()
	got := r.LinkedFields(context.Background(), relationField(contactsDB), "secret")
	elapsed := time.Since(start)

	assert.Equal(t, SourcePlaceholder, got.Source)
	assert.Equal(t, Placeholders(), got.Fields)
	assert.Less(t, elapsed, 10*timeout)
}

func TestResolver_LinkedFields_DiscardsResultPastBudget(t *testing.T) {
	clock := newFakeClock()
	api := &fakeAPI{
		schemas: map[string]*domain.TargetSchema{contactsDB: contactsSchema()},
		onFetch: func(context.Context) error {
			clock.Advance(3100 * time.Millisecond)
			return nil
		},
	}
	cache := NewCache(time.Minute)
	r := NewResolver(api, cache, nil, WithClock(clock.Now), WithTimeout(3*time.Second))

	got := r.LinkedFields(context.Background(), relationField(contactsDB), "secret")

	assert.Equal(t, SourcePlaceholder, got.Source)
	assert.Zero(t, cache.Len())
}

func TestResolver_LinkedFields_ResultWithinBudgetKept(t *testing.T) {
	clock := newFakeClock()
	api := &fakeAPI{
		schemas: map[string]*domain.TargetSchema{contactsDB: contactsSchema()},
		onFetch: func(context.Context) error {
			clock.Advance(2900 * time.Millisecond)
			return nil
		},
	}
	r := NewResolver(api, nil, nil, WithClock(clock.Now), WithTimeout(3*time.Second))

	got := r.LinkedFields(context.Background(), relationField(contactsDB), "secret")

	assert.Equal(t, SourceLive, got.Source)
}

func matchEntry() domain.MappingEntry {
	return domain.MappingEntry{
		Type:             domain.FieldTypeRelation,
		Enabled:          true,
		MatchField:       "Email",
		MatchSourceField: domain.FieldFrom,
		MatchFieldType:   domain.FieldTypeEmail,
		LinkedDatabaseID: contactsDB,
	}
}

func TestResolver_Resolve(t *testing.T) {
	api := &fakeAPI{
		schemas: map[string]*domain.TargetSchema{contactsDB: contactsSchema()},
		results: []string{"page-1", "page-2"},
	}
	r := newTestResolver(api)
	entry := matchEntry()
	entry.MatchTransformation = "extract_email"
	record := domain.NewSourceRecord(map[string]any{domain.FieldFrom: "Ada <ada@example.com>"})

	ids := r.Resolve(context.Background(), entry, record, "secret")

	assert.Equal(t, []string{"page-1", "page-2"}, ids)
	require.Len(t, api.filters, 1)
	assert.Equal(t, domain.RelationFilter{
		Property:     "Email",
		PropertyType: domain.FieldTypeEmail,
		Operator:     domain.FilterContains,
		Value:        "ada@example.com",
	}, api.filters[0])
	assert.Equal(t, []int{domain.DefaultRelationPageSize}, api.pageSizes)
}

func TestResolver_Resolve_UsesLiveTypeOverStored(t *testing.T) {
	api := &fakeAPI{
		schemas: map[string]*domain.TargetSchema{contactsDB: contactsSchema()},
		results: []string{"p"},
	}
	r := newTestResolver(api)
	entry := matchEntry()
	entry.MatchField = "vip"
	entry.MatchSourceField = domain.FieldIsStarred
	entry.MatchFieldType = domain.FieldTypeText
	record := domain.NewSourceRecord(map[string]any{domain.FieldIsStarred: true})

	ids := r.Resolve(context.Background(), entry, record, "secret")

	assert.Equal(t, []string{"p"}, ids)
	require.Len(t, api.filters, 1)
	assert.Equal(t, "VIP", api.filters[0].Property)
	assert.Equal(t, domain.FilterEquals, api.filters[0].Operator)
	assert.Equal(t, true, api.filters[0].Value)
}

func TestResolver_Resolve_FallsBackToStoredType(t *testing.T) {
	api := &fakeAPI{schemaErr: errors.New("down"), results: []string{"p"}}
	r := newTestResolver(api)
	record := domain.NewSourceRecord(map[string]any{domain.FieldFrom: "ada@example.com"})

	ids := r.Resolve(context.Background(), matchEntry(), record, "secret")

	assert.Equal(t, []string{"p"}, ids)
	require.Len(t, api.filters, 1)
	assert.Equal(t, domain.FieldTypeEmail, api.filters[0].PropertyType)
}

func TestResolver_Resolve_CapsResults(t *testing.T) {
	api := &fakeAPI{
		schemas: map[string]*domain.TargetSchema{contactsDB: contactsSchema()},
		results: []string{"1", "2", "3", "4"},
	}
	r := newTestResolver(api, WithPageSize(2))
	record := domain.NewSourceRecord(map[string]any{domain.FieldFrom: "ada@example.com"})

	ids := r.Resolve(context.Background(), matchEntry(), record, "secret")

	assert.Equal(t, []string{"1", "2"}, ids)
}

func TestResolver_Resolve_Nil(t *testing.T) {
	record := domain.NewSourceRecord(map[string]any{domain.FieldFrom: "ada@example.com"})

	tests := []struct {
		name   string
		api    *fakeAPI
		entry  func() domain.MappingEntry
		record domain.SourceRecord
	}{
		{
			name: "no matches",
			api:  &fakeAPI{schemas: map[string]*domain.TargetSchema{contactsDB: contactsSchema()}},
			entry: matchEntry, record: record,
		},
		{
			name: "search fails",
			api: &fakeAPI{
				schemas:   map[string]*domain.TargetSchema{contactsDB: contactsSchema()},
				searchErr: errors.New("rate limited"),
			},
			entry: matchEntry, record: record,
		},
		{
			name: "source value missing",
			api:  &fakeAPI{results: []string{"p"}},
			entry: matchEntry, record: domain.NewSourceRecord(nil),
		},
		{
			name: "match field unset overrides enabled",
			api:  &fakeAPI{results: []string{"p"}},
			entry: func() domain.MappingEntry {
				e := matchEntry()
				e.MatchField = ""
				return e
			},
			record: record,
		},
		{
			name: "match source unset overrides enabled",
			api:  &fakeAPI{results: []string{"p"}},
			entry: func() domain.MappingEntry {
				e := matchEntry()
				e.MatchSourceField = ""
				return e
			},
			record: record,
		},
		{
			name: "disabled",
			api:  &fakeAPI{results: []string{"p"}},
			entry: func() domain.MappingEntry {
				e := matchEntry()
				e.Enabled = false
				return e
			},
			record: record,
		},
		{
			name: "no linked database",
			api:  &fakeAPI{results: []string{"p"}},
			entry: func() domain.MappingEntry {
				e := matchEntry()
				e.LinkedDatabaseID = ""
				return e
			},
			record: record,
		},
		{
			name: "unknown match type",
			api:  &fakeAPI{schemaErr: errors.New("down"), results: []string{"p"}},
			entry: func() domain.MappingEntry {
				e := matchEntry()
				e.MatchFieldType = ""
				return e
			},
			record: record,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestResolver(tt.api)

			ids := r.Resolve(context.Background(), tt.entry(), tt.record, "secret")

			assert.Nil(t, ids)
		})
	}
}

func TestActive(t *testing.T) {
	assert.True(t, Active(matchEntry()))

	e := matchEntry()
	e.MatchField = ""
	assert.False(t, Active(e))
}
