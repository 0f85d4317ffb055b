package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/mailpage/internal/core/domain"
	"github.com/custodia-labs/mailpage/internal/core/ports/driven"
	"github.com/custodia-labs/mailpage/internal/core/ports/driving"
	"github.com/custodia-labs/mailpage/internal/logger"
)

// Ensure ConfigurationService implements the interface.
var _ driving.ConfigurationService = (*ConfigurationService)(nil)

// ConfigurationService builds mapping forms from the live schema and
// stores what users submit.
type ConfigurationService struct {
	settings driving.SettingsService
	clients  driven.APIClientFactory
	store    driven.MappingStore
	engine   driving.MappingEngine
	catalog  driving.FieldCatalog
}

// NewConfigurationService creates a configuration service.
func NewConfigurationService(
	settings driving.SettingsService,
	clients driven.APIClientFactory,
	store driven.MappingStore,
	engine driving.MappingEngine,
	catalog driving.FieldCatalog,
) *ConfigurationService {
	return &ConfigurationService{
		settings: settings,
		clients:  clients,
		store:    store,
		engine:   engine,
		catalog:  catalog,
	}
}

// target returns the configured Notion credentials or the configuration
// error that blocks any further work.
func target(settings driving.SettingsService) (domain.NotionSettings, error) {
	s, err := settings.Get()
	if err != nil {
		return domain.NotionSettings{}, fmt.Errorf("load settings: %w", err)
	}
	if err := s.Notion.Validate(); err != nil {
		return domain.NotionSettings{}, err
	}
	return s.Notion, nil
}

// fetchSchema loads the live schema and marks required properties.
func fetchSchema(ctx context.Context, clients driven.APIClientFactory, notion domain.NotionSettings) (*domain.TargetSchema, error) {
	schema, err := clients.ForToken(notion.APIKey).FetchSchema(ctx, notion.DatabaseID)
	if err != nil {
		return nil, fmt.Errorf("fetch schema: %w", err)
	}
	schema.Fields = domain.DeriveRequired(schema.Fields)
	return schema, nil
}

// Schema fetches the live schema of the configured database.
func (c *ConfigurationService) Schema(ctx context.Context) (*domain.TargetSchema, error) {
	notion, err := target(c.settings)
	if err != nil {
		return nil, err
	}
	return fetchSchema(ctx, c.clients, notion)
}

// Mappings returns the stored mapping set.
func (c *ConfigurationService) Mappings(ctx context.Context) (*domain.MappingSet, error) {
	notion, err := target(c.settings)
	if err != nil {
		return nil, err
	}
	set, err := c.store.Load(ctx, notion.DatabaseID)
	if err != nil {
		return nil, fmt.Errorf("load mappings: %w", err)
	}
	return set, nil
}

// BuildForm returns one section per writable property. Properties never
// configured start from the catalog's recommended source.
func (c *ConfigurationService) BuildForm(ctx context.Context) ([]driving.FieldForm, error) {
	schema, err := c.Schema(ctx)
	if err != nil {
		return nil, err
	}
	set, err := c.Mappings(ctx)
	if err != nil {
		return nil, err
	}

	forms := make([]driving.FieldForm, 0, len(schema.Fields))
	for _, field := range schema.Fields {
		h := c.engine.GetHandler(field.Type)
		if h == nil {
			continue
		}
		entry, ok := set.Get(field.ID)
		if !ok {
			entry = c.defaultEntry(field)
		}
		entry.Required = field.Required
		forms = append(forms, driving.FieldForm{
			Field:   field,
			Entry:   entry,
			Widgets: h.BuildConfigurationUI(field, entry),
		})
	}
	return forms, nil
}

func (c *ConfigurationService) defaultEntry(field domain.TargetField) domain.MappingEntry {
	entry := domain.MappingEntry{Type: field.Type, Required: field.Required}
	if rec, ok := c.catalog.Recommend(field.Type); ok {
		entry.SourceField = rec.Name
	}
	return entry
}

// Save parses the properties input covers and merges them into the stored
// set. Properties the input does not mention keep their entries.
func (c *ConfigurationService) Save(ctx context.Context, input domain.FormInput) (*domain.MappingSet, error) {
	notion, err := target(c.settings)
	if err != nil {
		return nil, err
	}
	schema, err := fetchSchema(ctx, c.clients, notion)
	if err != nil {
		return nil, err
	}
	current, err := c.store.Load(ctx, notion.DatabaseID)
	if err != nil {
		return nil, fmt.Errorf("load mappings: %w", err)
	}

	update := domain.NewMappingSet()
	for _, field := range schema.Fields {
		if !covers(input, field.ID) {
			continue
		}
		h := c.engine.GetHandler(field.Type)
		if h == nil {
			logger.Warn("property cannot be mapped", "property", field.Name, "type", string(field.Type))
			continue
		}
		update.Set(field.ID, h.ParseConfiguration(field, input))
	}

	merged := current.Merge(update)
	if err := c.store.Save(ctx, notion.DatabaseID, merged); err != nil {
		return nil, fmt.Errorf("save mappings: %w", err)
	}
	logger.Debug("mappings saved", "updated", update.Len(), "total", merged.Len())
	return merged, nil
}

// covers reports whether input carries any control of a property.
func covers(input domain.FormInput, fieldID string) bool {
	prefix := fieldID + "."
	for key := range input {
		if key == fieldID || strings.HasPrefix(key, prefix) {
			return true
		}
	}
	return false
}

// Reset deletes the stored mapping set.
func (c *ConfigurationService) Reset(ctx context.Context) error {
	notion, err := target(c.settings)
	if err != nil {
		return err
	}
	if err := c.store.Delete(ctx, notion.DatabaseID); err != nil {
		return fmt.Errorf("delete mappings: %w", err)
	}
	return nil
}
