package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/custodia-labs/mailpage/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/mailpage/internal/catalog"
	"github.com/custodia-labs/mailpage/internal/core/domain"
	"github.com/custodia-labs/mailpage/internal/core/ports/driven"
	"github.com/custodia-labs/mailpage/internal/core/ports/driving"
	"github.com/custodia-labs/mailpage/internal/properties"
	"github.com/custodia-labs/mailpage/internal/transforms"
)

const testDB = "db-main"

type fakeNotion struct {
	mu        sync.Mutex
	schema    *domain.TargetSchema
	schemaErr error
	createErr error
	created   []domain.Payload
	fetches   int
}

var _ driven.APIClientFactory = (*fakeNotion)(nil)

func (f *fakeNotion) ForToken(string) driven.APIClient { return f }

func (f *fakeNotion) FetchSchema(_ context.Context, _ string) (*domain.TargetSchema, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	if f.schemaErr != nil {
		return nil, f.schemaErr
	}
	clone := *f.schema
	clone.Fields = append([]domain.TargetField(nil), f.schema.Fields...)
	return &clone, nil
}

func (f *fakeNotion) Search(context.Context, string, domain.RelationFilter, int) ([]string, error) {
	return nil, nil
}

func (f *fakeNotion) CreatePage(_ context.Context, _ string, props domain.Payload) (*domain.PageRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, props)
	return &domain.PageRef{ID: "page-new", URL: "https://notion.so/page-new"}, nil
}

func inboxSchema() *domain.TargetSchema {
	return &domain.TargetSchema{
		DatabaseID: testDB,
		Title:      "Inbox",
		Fields: []domain.TargetField{
			{ID: "title", Name: "Name", Type: domain.FieldTypeTitle},
			{ID: "mail", Name: "From", Type: domain.FieldTypeEmail},
			{ID: "notes", Name: "Notes", Type: domain.FieldTypeText},
			{ID: "link", Name: "Gmail Link", Type: domain.FieldTypeURL},
			{ID: "score", Name: "Score", Type: domain.FieldTypeFormula},
		},
	}
}

type harness struct {
	notion   *fakeNotion
	config   *memory.ConfigStore
	settings *SettingsService
	store    *memory.MappingStore
	writeLog *memory.WriteLog
	engine   *MappingService
	configs  *ConfigurationService
	writer   *PageWriter
}

func newHarness() *harness {
	h := &harness{
		notion:   &fakeNotion{schema: inboxSchema()},
		config:   memory.NewConfigStore(),
		store:    memory.NewMappingStore(),
		writeLog: memory.NewWriteLog(),
	}
	_ = h.config.Set(KeyNotionAPIKey, "secret")
	_ = h.config.Set(KeyNotionDatabaseID, testDB)
	h.settings = NewSettingsService(h.config)

	cat := catalog.New()
	reg, err := properties.NewRegistry(properties.Deps{Catalog: cat, Transforms: transforms.New()})
	if err != nil {
		panic(err)
	}
	h.engine = NewMappingService(reg)
	h.configs = NewConfigurationService(h.settings, h.notion, h.store, h.engine, cat)
	h.writer = NewPageWriter(h.settings, h.notion, h.store, h.engine, h.writeLog)
	h.writer.now = func() time.Time { return time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC) }
	return h
}

func (h *harness) saveMappings(entries map[string]domain.MappingEntry, order ...string) {
	set := domain.NewMappingSet()
	for _, k := range order {
		set.Set(k, entries[k])
	}
	_ = h.store.Save(context.Background(), testDB, set)
}

// stubHandler lets tests script ToPayload outcomes.
type stubHandler struct {
	typ   domain.FieldType
	frag  domain.Fragment
	err   error
	panic bool
	calls int
}

func (s *stubHandler) Type() domain.FieldType { return s.typ }

func (s *stubHandler) BuildConfigurationUI(domain.TargetField, domain.MappingEntry) []domain.Widget {
	return nil
}

func (s *stubHandler) ParseConfiguration(_ domain.TargetField, _ domain.FormInput) domain.MappingEntry {
	return domain.MappingEntry{Type: s.typ}
}

func (s *stubHandler) ToPayload(context.Context, domain.MappingEntry, domain.SourceRecord, string) (domain.Fragment, error) {
	s.calls++
	if s.panic {
		panic("boom")
	}
	return s.frag, s.err
}

type stubRegistry map[domain.FieldType]*stubHandler

func (r stubRegistry) GetHandler(t domain.FieldType) driving.PropertyHandler {
	h, ok := r[t]
	if !ok {
		return nil
	}
	return h
}

func (r stubRegistry) SupportedTypes() []domain.FieldType {
	return domain.WritableFieldTypes()
}

var errStub = errors.New("stub failure")
