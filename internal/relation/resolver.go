package relation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/mailpage/internal/core/domain"
	"github.com/custodia-labs/mailpage/internal/core/ports/driven"
	"github.com/custodia-labs/mailpage/internal/core/ports/driving"
	"github.com/custodia-labs/mailpage/internal/logger"
)

// ErrBudgetExceeded reports a schema fetch that returned after the budget.
var ErrBudgetExceeded = errors.New("relation: budget exceeded")

// Source says where a linked field list came from.
type Source string

const (
	SourceLive        Source = "live"
	SourceCache       Source = "cache"
	SourcePlaceholder Source = "placeholder"
)

// LinkedFields is the property list of a relation's target database.
type LinkedFields struct {
	DatabaseID string
	Fields     []domain.TargetField
	Source     Source
}

// Placeholders is the field list offered when the linked database cannot
// be introspected.
func Placeholders() []domain.TargetField {
	return []domain.TargetField{
		{ID: "Name", Name: "Name", Type: domain.FieldTypeTitle},
		{ID: "Email", Name: "Email", Type: domain.FieldTypeEmail},
		{ID: "ID", Name: "ID", Type: domain.FieldTypeText},
		{ID: "Title", Name: "Title", Type: domain.FieldTypeText},
	}
}

// FilterMappable keeps fields whose type can be matched against.
func FilterMappable(fields []domain.TargetField) []domain.TargetField {
	out := make([]domain.TargetField, 0, len(fields))
	for _, f := range fields {
		switch {
		case f.Type == domain.FieldTypeFiles, f.Type == domain.FieldTypeRelation:
			continue
		case !f.Type.IsWritable():
			continue
		}
		out = append(out, f)
	}
	return out
}

// Resolver introspects linked databases and searches them.
type Resolver struct {
	clients    driven.APIClientFactory
	cache      *Cache
	transforms driving.TransformationCatalog
	timeout    time.Duration
	pageSize   int
	now        func() time.Time
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithTimeout sets the wall-clock budget for one resolution.
func WithTimeout(d time.Duration) Option {
	return func(r *Resolver) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithClock sets the clock used to measure the budget.
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) {
		r.now = now
	}
}

// WithPageSize caps the number of pages a search returns.
func WithPageSize(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.pageSize = n
		}
	}
}

// NewResolver creates a resolver. A nil cache gets a private one.
func NewResolver(clients driven.APIClientFactory, cache *Cache,
	tr driving.TransformationCatalog, opts ...Option) *Resolver {
	if cache == nil {
		cache = NewCache(domain.DefaultRelationCacheTTL)
	}
	r := &Resolver{
		clients:    clients,
		cache:      cache,
		transforms: tr,
		timeout:    domain.DefaultRelationTimeout,
		pageSize:   domain.DefaultRelationPageSize,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// LinkedFields returns the mappable properties of the database field
// relates to. It never fails: any problem yields the placeholder list.
func (r *Resolver) LinkedFields(ctx context.Context, field domain.TargetField, apiKey string) LinkedFields {
	start := r.now()

	dbID, ok := LinkedDatabaseID(field)
	if !ok {
		logger.Debug("relation target not identifiable", "field", field.Name)
		return LinkedFields{Fields: Placeholders(), Source: SourcePlaceholder}
	}

	fields, src, err := r.fieldsOf(ctx, dbID, apiKey, start)
	if err != nil {
		logger.Warn("relation schema unavailable, using placeholders",
			"field", field.Name, "database", dbID, "error", err)
		return LinkedFields{DatabaseID: dbID, Fields: Placeholders(), Source: SourcePlaceholder}
	}
	return LinkedFields{DatabaseID: dbID, Fields: fields, Source: src}
}

// fieldsOf serves a database's mappable fields from the cache or a fetch
// bounded by the budget remaining since start.
func (r *Resolver) fieldsOf(ctx context.Context, dbID, apiKey string, start time.Time) ([]domain.TargetField, Source, error) {
	if cached, ok := r.cache.Get(dbID); ok {
		return cached, SourceCache, nil
	}
	if r.clients == nil || apiKey == "" {
		return nil, "", domain.ErrMissingAPIKey
	}

	remaining := r.timeout - r.now().Sub(start)
	if remaining <= 0 {
		return nil, "", ErrBudgetExceeded
	}
	fetchCtx, cancel := context.WithTimeout(ctx, remaining)
	defer cancel()

	schema, err := r.clients.ForToken(apiKey).FetchSchema(fetchCtx, dbID)
	if elapsed := r.now().Sub(start); elapsed > r.timeout {
		return nil, "", fmt.Errorf("%w: %s", ErrBudgetExceeded, elapsed)
	}
	if err != nil {
		return nil, "", err
	}
	if schema == nil {
		return nil, "", domain.ErrNotFound
	}

	fields := FilterMappable(schema.Fields)
	r.cache.Put(dbID, fields)
	return fields, SourceLive, nil
}

// Active reports whether a relation entry is fully configured. The enabled
// flag alone is not enough: both sides of the match must be chosen.
func Active(entry domain.MappingEntry) bool {
	return entry.Enabled && entry.MatchField != "" && entry.MatchSourceField != ""
}

// Resolve returns the ids of linked pages matching the record. Failures
// are logged and produce nil.
func (r *Resolver) Resolve(ctx context.Context, entry domain.MappingEntry,
	record domain.SourceRecord, apiKey string) []string {
	if !Active(entry) || entry.LinkedDatabaseID == "" {
		return nil
	}
	start := r.now()

	value, ok := record.Get(entry.MatchSourceField)
	if !ok {
		return nil
	}
	if r.transforms != nil {
		value = r.transforms.Apply(value, entry.MatchTransformation)
	}

	property, ft := r.matchProperty(ctx, entry, apiKey, start)
	filter, ok := BuildFilter(property, ft, value)
	if !ok {
		logger.Debug("no relation filter", "property", property, "type", string(ft))
		return nil
	}
	if r.clients == nil || apiKey == "" {
		return nil
	}

	remaining := r.timeout - r.now().Sub(start)
	if remaining <= 0 {
		logger.Warn("relation search skipped, budget spent", "database", entry.LinkedDatabaseID)
		return nil
	}
	searchCtx, cancel := context.WithTimeout(ctx, remaining)
	defer cancel()

	ids, err := r.clients.ForToken(apiKey).Search(searchCtx, entry.LinkedDatabaseID, filter, r.pageSize)
	if err != nil {
		logger.Warn("relation search failed", "database", entry.LinkedDatabaseID, "error", err)
		return nil
	}
	if len(ids) > r.pageSize {
		ids = ids[:r.pageSize]
	}
	if len(ids) == 0 {
		return nil
	}
	return ids
}

// matchProperty finds the name and type of the linked property to filter
// on, preferring the live schema over the type stored with the entry.
func (r *Resolver) matchProperty(ctx context.Context, entry domain.MappingEntry,
	apiKey string, start time.Time) (string, domain.FieldType) {
	fields, _, err := r.fieldsOf(ctx, entry.LinkedDatabaseID, apiKey, start)
	if err == nil {
		for _, f := range fields {
			if f.ID == entry.MatchField || strings.EqualFold(f.Name, entry.MatchField) {
				return f.Name, f.Type
			}
		}
	}
	return entry.MatchField, entry.MatchFieldType
}
