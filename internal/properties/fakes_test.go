package properties

import (
	"context"
	"errors"
	"time"

	"github.com/custodia-labs/mailpage/internal/catalog"
	"github.com/custodia-labs/mailpage/internal/core/domain"
	"github.com/custodia-labs/mailpage/internal/core/ports/driven"
	"github.com/custodia-labs/mailpage/internal/relation"
	"github.com/custodia-labs/mailpage/internal/transforms"
)

var fixedNow = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

const linkedDB = "a1b2c3d4e5f60718293a4b5c6d7e8f90"

type fakeDirectory struct {
	members []domain.Member
	err     error
}

func (f *fakeDirectory) ListMembers(context.Context) ([]domain.Member, error) {
	return f.members, f.err
}

type fakeAttachments struct {
	refs  []domain.FileRef
	err   error
	mode  domain.FileMode
	ctx   domain.AttachmentContext
	calls int
}

func (f *fakeAttachments) Process(_ context.Context, _ []domain.Attachment,
	attCtx domain.AttachmentContext, mode domain.FileMode) ([]domain.FileRef, error) {
	f.calls++
	f.mode = mode
	f.ctx = attCtx
	return f.refs, f.err
}

type fakeAPI struct {
	schema  *domain.TargetSchema
	results []string
	filters []domain.RelationFilter
}

func (f *fakeAPI) ForToken(string) driven.APIClient { return f }

func (f *fakeAPI) FetchSchema(context.Context, string) (*domain.TargetSchema, error) {
	if f.schema == nil {
		return nil, errors.New("unreachable")
	}
	return f.schema, nil
}

func (f *fakeAPI) Search(_ context.Context, _ string, filter domain.RelationFilter, _ int) ([]string, error) {
	f.filters = append(f.filters, filter)
	return f.results, nil
}

func (f *fakeAPI) CreatePage(context.Context, string, domain.Payload) (*domain.PageRef, error) {
	return nil, errors.New("not supported")
}

type testEnv struct {
	registry    *Registry
	api         *fakeAPI
	directory   *fakeDirectory
	attachments *fakeAttachments
}

func newTestEnv() *testEnv {
	env := &testEnv{
		api: &fakeAPI{
			schema: &domain.TargetSchema{
				DatabaseID: linkedDB,
				Fields: []domain.TargetField{
					{ID: "title", Name: "Name", Type: domain.FieldTypeTitle},
					{ID: "mail", Name: "Email", Type: domain.FieldTypeEmail},
				},
			},
			results: []string{"page-1"},
		},
		directory: &fakeDirectory{members: []domain.Member{
			{ID: "u1", Name: "Ada", Email: "ada@example.com"},
			{ID: "u2", Name: "Grace"},
		}},
		attachments: &fakeAttachments{refs: []domain.FileRef{{Name: "a.pdf", URL: "https://files.example/a.pdf"}}},
	}

	tr := transforms.New(transforms.WithClock(func() time.Time { return fixedNow }))
	reg, err := NewRegistry(Deps{
		Catalog:     catalog.New(),
		Transforms:  tr,
		Directory:   env.directory,
		Attachments: env.attachments,
		Resolver:    relation.NewResolver(env.api, relation.NewCache(time.Minute), tr),
		APIKey:      func() string { return "secret" },
	})
	if err != nil {
		panic(err)
	}
	env.registry = reg
	return env
}

func sampleRecord() domain.SourceRecord {
	return domain.NewSourceRecord(map[string]any{
		domain.FieldMessageID:       "18c1",
		domain.FieldThreadID:        "18c0",
		domain.FieldSubject:         "Re: Quarterly numbers",
		domain.FieldFrom:            "Ada Lovelace <ada@example.com>",
		domain.FieldDate:            "Sat, 14 Mar 2026 10:00:00 +0000",
		domain.FieldSnippet:         "see https://example.com/report.",
		domain.FieldBody:            "Hello",
		domain.FieldIsStarred:       false,
		domain.FieldAttachmentCount: 1,
		domain.FieldAttachments:     []domain.Attachment{{ID: "att1", Name: "a.pdf", MIMEType: "application/pdf", Size: 10}},
		domain.FieldMessageLink:     "https://mail.google.com/mail/u/0/#all/18c1",
	})
}

func relationTarget() domain.TargetField {
	return domain.TargetField{
		ID:     "rel",
		Name:   "Contact",
		Type:   domain.FieldTypeRelation,
		Config: map[string]any{"relation": map[string]any{"database_id": linkedDB}},
	}
}

// configured returns an enabled, usable entry for every writable type.
func configured() map[domain.FieldType]domain.MappingEntry {
	return map[domain.FieldType]domain.MappingEntry{
		domain.FieldTypeTitle:       {Type: domain.FieldTypeTitle, Enabled: true, SourceField: domain.FieldSubject},
		domain.FieldTypeText:        {Type: domain.FieldTypeText, Enabled: true, SourceField: domain.FieldBody},
		domain.FieldTypeEmail:       {Type: domain.FieldTypeEmail, Enabled: true, SourceField: domain.FieldFrom, Transformation: "extract_email"},
		domain.FieldTypeURL:         {Type: domain.FieldTypeURL, Enabled: true, SourceField: domain.FieldSnippet, Transformation: "extract_url"},
		domain.FieldTypeNumber:      {Type: domain.FieldTypeNumber, Enabled: true, SourceField: domain.FieldAttachmentCount},
		domain.FieldTypePhone:       {Type: domain.FieldTypePhone, Enabled: true, SourceField: domain.FieldBody},
		domain.FieldTypeDate:        {Type: domain.FieldTypeDate, Enabled: true, SourceField: domain.FieldDate},
		domain.FieldTypeCheckbox:    {Type: domain.FieldTypeCheckbox, Enabled: true},
		domain.FieldTypeSelect:      {Type: domain.FieldTypeSelect, Enabled: true, StaticValue: "Inbox"},
		domain.FieldTypeStatus:      {Type: domain.FieldTypeStatus, Enabled: true, StaticValue: "New"},
		domain.FieldTypeMultiSelect: {Type: domain.FieldTypeMultiSelect, Enabled: true, StaticValues: []string{"a", "b"}},
		domain.FieldTypePeople:      {Type: domain.FieldTypePeople, Enabled: true, StaticValues: []string{"u1"}},
		domain.FieldTypeFiles:       {Type: domain.FieldTypeFiles, Enabled: true, SourceField: domain.FieldAttachments, FileMode: domain.FileModeLink},
		domain.FieldTypeRelation: {
			Type: domain.FieldTypeRelation, Enabled: true,
			MatchField: "Email", MatchSourceField: domain.FieldFrom, MatchTransformation: "extract_email",
			MatchFieldType: domain.FieldTypeEmail, LinkedDatabaseID: linkedDB,
		},
	}
}
