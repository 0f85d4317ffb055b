package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/mailpage/internal/core/domain"
	"github.com/custodia-labs/mailpage/internal/core/ports/driven"
	"github.com/custodia-labs/mailpage/internal/core/ports/driving"
	"github.com/custodia-labs/mailpage/internal/logger"
)

// Ensure PageWriter implements the interface.
var _ driving.PageWriter = (*PageWriter)(nil)

// NoSubject is the title used when a message has no subject.
const NoSubject = "(no subject)"

// backLinkNames are url property names that receive the message link.
var backLinkNames = []string{"Email Link", "Gmail Link", "Message Link", "Link"}

// PageWriter turns messages into pages of the configured database.
type PageWriter struct {
	settings driving.SettingsService
	clients  driven.APIClientFactory
	store    driven.MappingStore
	engine   driving.MappingEngine
	writeLog driven.WriteLog
	now      func() time.Time
}

// NewPageWriter creates a page writer. writeLog may be nil to disable the
// duplicate write guard.
func NewPageWriter(
	settings driving.SettingsService,
	clients driven.APIClientFactory,
	store driven.MappingStore,
	engine driving.MappingEngine,
	writeLog driven.WriteLog,
) *PageWriter {
	return &PageWriter{
		settings: settings,
		clients:  clients,
		store:    store,
		engine:   engine,
		writeLog: writeLog,
		now:      time.Now,
	}
}

// Preview returns the properties Write would send for record.
func (w *PageWriter) Preview(ctx context.Context, record domain.SourceRecord) (domain.Payload, error) {
	notion, err := target(w.settings)
	if err != nil {
		return nil, err
	}
	return w.build(ctx, notion, record)
}

func (w *PageWriter) build(ctx context.Context, notion domain.NotionSettings, record domain.SourceRecord) (domain.Payload, error) {
	schema, err := fetchSchema(ctx, w.clients, notion)
	if err != nil {
		return nil, err
	}
	set, err := w.store.Load(ctx, notion.DatabaseID)
	if err != nil {
		return nil, fmt.Errorf("load mappings: %w", err)
	}

	payload := w.engine.ApplyAll(ctx, set, record, notion.APIKey)
	props := FilterPayload(schema, payload)
	EnsureTitle(schema, props, record)
	InjectBackLink(schema, props, record)
	return props, nil
}

// Write creates a page for record. A message already written to the
// database returns the earlier page unless opts.Force is set.
func (w *PageWriter) Write(ctx context.Context, record domain.SourceRecord, opts driving.WriteOptions) (*domain.PageRef, error) {
	notion, err := target(w.settings)
	if err != nil {
		return nil, err
	}

	messageID := record.String(domain.FieldMessageID)
	if !opts.Force {
		if ref := w.previous(ctx, messageID, notion.DatabaseID); ref != nil {
			logger.Info("message already written", "message", messageID, "page", ref.ID)
			return ref, nil
		}
	}

	props, err := w.build(ctx, notion, record)
	if err != nil {
		return nil, err
	}

	ref, err := w.clients.ForToken(notion.APIKey).CreatePage(ctx, notion.DatabaseID, props)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrWriteRejected, err)
	}
	if ref.CreatedAt.IsZero() {
		ref.CreatedAt = w.now()
	}

	w.remember(ctx, messageID, notion.DatabaseID, ref)
	return ref, nil
}

func (w *PageWriter) previous(ctx context.Context, messageID, databaseID string) *domain.PageRef {
	if w.writeLog == nil || messageID == "" {
		return nil
	}
	entry, err := w.writeLog.Lookup(ctx, messageID, databaseID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logger.Warn("write log lookup failed", "message", messageID, "error", err)
		}
		return nil
	}
	return &domain.PageRef{ID: entry.PageID, URL: entry.PageURL, Existing: true, CreatedAt: entry.WrittenAt}
}

func (w *PageWriter) remember(ctx context.Context, messageID, databaseID string, ref *domain.PageRef) {
	if w.writeLog == nil || messageID == "" {
		return
	}
	entry := driven.WriteLogEntry{
		ID:         uuid.NewString(),
		MessageID:  messageID,
		DatabaseID: databaseID,
		PageID:     ref.ID,
		PageURL:    ref.URL,
		WrittenAt:  ref.CreatedAt,
	}
	if err := w.writeLog.Record(ctx, entry); err != nil {
		logger.Warn("write log record failed", "message", messageID, "error", err)
	}
}

// FilterPayload keeps the payload entries that still match a live
// property. A key may be a property id or name. Entries whose fragment no
// longer fits the property's type are dropped as well.
func FilterPayload(schema *domain.TargetSchema, payload domain.Payload) domain.Payload {
	props := make(domain.Payload, len(payload))
	for _, key := range payload.Keys() {
		field, ok := schema.Lookup(key)
		if !ok {
			logger.Warn("dropping property missing from database", "property", key)
			continue
		}
		if frag, isFrag := payload[key].(domain.Fragment); isFrag {
			if _, typed := frag[string(field.Type)]; !typed {
				logger.Warn("dropping property whose type changed", "property", field.Name, "type", string(field.Type))
				continue
			}
		}
		props[field.ID] = payload[key]
	}
	return props
}

// EnsureTitle fills the title property from the subject when no mapping
// produced one.
func EnsureTitle(schema *domain.TargetSchema, props domain.Payload, record domain.SourceRecord) {
	title, ok := schema.TitleField()
	if !ok {
		return
	}
	if _, set := props[title.ID]; set {
		return
	}
	subject := strings.TrimSpace(record.String(domain.FieldSubject))
	if subject == "" {
		subject = NoSubject
	}
	props[title.ID] = domain.Fragment{"title": domain.TextRuns(subject)}
}

// InjectBackLink writes the message link into a url property named like a
// link to the message, unless a mapping already set it.
func InjectBackLink(schema *domain.TargetSchema, props domain.Payload, record domain.SourceRecord) {
	link := record.String(domain.FieldMessageLink)
	if link == "" {
		return
	}
	for _, name := range backLinkNames {
		for _, field := range schema.Fields {
			if field.Type != domain.FieldTypeURL || !strings.EqualFold(field.Name, name) {
				continue
			}
			if _, set := props[field.ID]; !set {
				props[field.ID] = domain.Fragment{"url": link}
			}
			return
		}
	}
}
