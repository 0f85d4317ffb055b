package driving

import (
	"context"

	"github.com/custodia-labs/mailpage/internal/core/domain"
)

// FieldForm is the configuration form section for one target property.
type FieldForm struct {
	Field   domain.TargetField
	Entry   domain.MappingEntry
	Widgets []domain.Widget
}

// ConfigurationService builds, validates and stores mapping configuration.
type ConfigurationService interface {
	// Schema fetches the live schema of the configured database.
	Schema(ctx context.Context) (*domain.TargetSchema, error)

	// Mappings returns the stored mapping set of the configured database.
	Mappings(ctx context.Context) (*domain.MappingSet, error)

	// BuildForm returns one form section per configurable property.
	BuildForm(ctx context.Context) ([]FieldForm, error)

	// Save parses input for the properties it covers and merges the result
	// into the stored set. Properties absent from input keep their entries.
	Save(ctx context.Context, input domain.FormInput) (*domain.MappingSet, error)

	// Reset deletes the stored mapping set.
	Reset(ctx context.Context) error
}

// WriteOptions modifies a page write.
type WriteOptions struct {
	// Force writes even if the message was written before.
	Force bool
}

// PageWriter writes messages to the configured database.
type PageWriter interface {
	// Preview returns the filtered properties that Write would send.
	Preview(ctx context.Context, record domain.SourceRecord) (domain.Payload, error)

	// Write creates a page for record.
	Write(ctx context.Context, record domain.SourceRecord, opts WriteOptions) (*domain.PageRef, error)
}

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// SetAPIKey stores the Notion integration token.
	SetAPIKey(apiKey string) error

	// SetDatabaseID stores the target database id.
	SetDatabaseID(databaseID string) error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings
}
