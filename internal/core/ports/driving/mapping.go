package driving

import (
	"context"

	"github.com/custodia-labs/mailpage/internal/core/domain"
)

// PropertyHandler owns configuration and serialisation for one property type.
type PropertyHandler interface {
	// Type returns the property type this handler serves.
	Type() domain.FieldType

	// BuildConfigurationUI describes the controls for configuring field.
	// It must not modify current.
	BuildConfigurationUI(field domain.TargetField, current domain.MappingEntry) []domain.Widget

	// ParseConfiguration turns a submitted form into a mapping entry.
	// Missing or malformed input yields an unconfigured (disabled) entry.
	ParseConfiguration(field domain.TargetField, input domain.FormInput) domain.MappingEntry

	// ToPayload converts a record into the property's wire fragment.
	// A nil fragment means the property is left out of the write.
	// Errors are reserved for collaborator failures.
	ToPayload(ctx context.Context, entry domain.MappingEntry, record domain.SourceRecord, apiKey string) (domain.Fragment, error)
}

// MappingEngine applies mapping sets to source records.
type MappingEngine interface {
	// ApplyAll converts record using every enabled entry in set.
	// A failing entry is logged and skipped; it never aborts the batch.
	ApplyAll(ctx context.Context, set *domain.MappingSet, record domain.SourceRecord, apiKey string) domain.Payload

	// GetHandler returns the handler for a type, or nil for auto-managed
	// and unknown types.
	GetHandler(t domain.FieldType) PropertyHandler

	// SupportedTypes returns the writable types in display order.
	SupportedTypes() []domain.FieldType
}

// FieldCatalog describes which source fields can feed which property types.
type FieldCatalog interface {
	FieldsFor(t domain.FieldType) []domain.SourceField
	Recommend(t domain.FieldType) (domain.SourceField, bool)
	IsCompatible(field string, t domain.FieldType) bool
}

// TransformationCatalog lists and applies value transforms.
type TransformationCatalog interface {
	OptionsFor(t domain.FieldType) []domain.Option
	Supports(t domain.FieldType, name string) bool
	Apply(value any, name string) any
}
