package relation

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/mailpage/internal/core/domain"
	"github.com/custodia-labs/mailpage/internal/core/ports/driven"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type fakeAPI struct {
	mu         sync.Mutex
	schemas    map[string]*domain.TargetSchema
	schemaErr  error
	onFetch    func(ctx context.Context) error
	fetchCalls int
	results    []string
	searchErr  error
	filters    []domain.RelationFilter
	pageSizes  []int
	tokens     []string
}

var _ driven.APIClientFactory = (*fakeAPI)(nil)
var _ driven.APIClient = (*fakeAPI)(nil)

func (f *fakeAPI) ForToken(apiKey string) driven.APIClient {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens = append(f.tokens, apiKey)
	return f
}

func (f *fakeAPI) FetchSchema(ctx context.Context, databaseID string) (*domain.TargetSchema, error) {
	f.mu.Lock()
	f.fetchCalls++
	hook := f.onFetch
	f.mu.Unlock()

	if hook != nil {
		if err := hook(ctx); err != nil {
			return nil, err
		}
	}
	if f.schemaErr != nil {
		return nil, f.schemaErr
	}
	s, ok := f.schemas[databaseID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

func (f *fakeAPI) Search(_ context.Context, _ string, filter domain.RelationFilter, pageSize int) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.filters = append(f.filters, filter)
	f.pageSizes = append(f.pageSizes, pageSize)
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.results, nil
}

func (f *fakeAPI) CreatePage(context.Context, string, domain.Payload) (*domain.PageRef, error) {
	return nil, domain.ErrWriteRejected
}

func (f *fakeAPI) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetchCalls
}

const contactsDB = "0f3c2d1e4b5a46978877665544332211"

func contactsSchema() *domain.TargetSchema {
	return &domain.TargetSchema{
		DatabaseID: contactsDB,
		Title:      "Contacts",
		Fields: []domain.TargetField{
			{ID: "title", Name: "Name", Type: domain.FieldTypeTitle},
			{ID: "em", Name: "Email", Type: domain.FieldTypeEmail},
			{ID: "vip", Name: "VIP", Type: domain.FieldTypeCheckbox},
			{ID: "met", Name: "Met", Type: domain.FieldTypeDate},
			{ID: "docs", Name: "Docs", Type: domain.FieldTypeFiles},
			{ID: "co", Name: "Company", Type: domain.FieldTypeRelation},
			{ID: "sum", Name: "Total", Type: domain.FieldTypeRollup},
			{ID: "f", Name: "Score", Type: domain.FieldTypeFormula},
			{ID: "ct", Name: "Created", Type: domain.FieldTypeCreatedTime},
		},
	}
}

func relationField(dbID string) domain.TargetField {
	return domain.TargetField{
		ID:   "rel",
		Name: "Contact",
		Type: domain.FieldTypeRelation,
		Config: map[string]any{
			"relation": map[string]any{"database_id": dbID, "type": "single_property"},
		},
	}
}
