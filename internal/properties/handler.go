package properties

import (
	"strings"
	"time"

	"github.com/custodia-labs/mailpage/internal/core/domain"
	"github.com/custodia-labs/mailpage/internal/core/ports/driven"
	"github.com/custodia-labs/mailpage/internal/core/ports/driving"
	"github.com/custodia-labs/mailpage/internal/relation"
	"github.com/custodia-labs/mailpage/internal/transforms"
)

// Handler is the per-type contract.
type Handler = driving.PropertyHandler

// Deps are the collaborators handlers draw on.
type Deps struct {
	Catalog     driving.FieldCatalog
	Transforms  driving.TransformationCatalog
	Directory   driven.DirectoryLookup
	Attachments driven.AttachmentService
	Resolver    *relation.Resolver

	// APIKey supplies the integration token for configuration-time lookups.
	APIKey func() string

	// Now is the clock for date fallbacks. Defaults to time.Now.
	Now func() time.Time
}

func (d Deps) apiKey() string {
	if d.APIKey == nil {
		return ""
	}
	return d.APIKey()
}

// enabled applies the enable rule: a required field is always wanted, but
// only a usable entry is ever enabled.
func enabled(field domain.TargetField, input domain.FormInput, usable bool) bool {
	wanted := input.Bool(domain.FieldKey(field.ID, domain.ControlEnabled)) || field.Required
	return wanted && usable
}

// sourced is shared by handlers that read one source field through an
// optional transform.
type sourced struct {
	typ        domain.FieldType
	catalog    driving.FieldCatalog
	transforms driving.TransformationCatalog
}

func (s sourced) Type() domain.FieldType {
	return s.typ
}

// BuildConfigurationUI renders header, enable toggle, source and transform.
func (s sourced) BuildConfigurationUI(field domain.TargetField, current domain.MappingEntry) []domain.Widget {
	source := current.SourceField
	if source == "" {
		if rec, ok := s.catalog.Recommend(s.typ); ok {
			source = rec.Name
		}
	}
	return []domain.Widget{
		headerWidget(field),
		enabledWidget(field, current),
		sourceWidget(field, domain.ControlSource, "Source field", s.catalog.FieldsFor(s.typ), source),
		transformWidget(field, domain.ControlTransform, "Transformation", s.transforms.OptionsFor(s.typ), current.Transformation),
	}
}

// ParseConfiguration keeps only a compatible source and an advertised
// transform. Without a source the entry is unusable.
func (s sourced) ParseConfiguration(field domain.TargetField, input domain.FormInput) domain.MappingEntry {
	entry := domain.MappingEntry{Type: s.typ, Required: field.Required}

	source := input.Get(domain.FieldKey(field.ID, domain.ControlSource))
	if source != "" && s.catalog.IsCompatible(source, s.typ) {
		entry.SourceField = source
	}
	entry.Transformation = s.parseTransform(field, domain.ControlTransform, input)
	entry.Enabled = enabled(field, input, entry.SourceField != "")
	return entry
}

func (s sourced) parseTransform(field domain.TargetField, control string, input domain.FormInput) string {
	name := input.Get(domain.FieldKey(field.ID, control))
	if name == "" || name == transforms.None || !s.transforms.Supports(s.typ, name) {
		return ""
	}
	return name
}

// value resolves the entry's source field through its transform. It
// reports false when the entry is off or the value is absent.
func (s sourced) value(entry domain.MappingEntry, record domain.SourceRecord) (any, bool) {
	if !entry.Enabled || entry.SourceField == "" {
		return nil, false
	}
	v, ok := record.Get(entry.SourceField)
	if !ok || v == nil {
		return nil, false
	}
	v = s.transforms.Apply(v, entry.Transformation)
	if v == nil {
		return nil, false
	}
	return v, true
}

// text resolves the entry to a non-blank string.
func (s sourced) text(entry domain.MappingEntry, record domain.SourceRecord) (string, bool) {
	v, ok := s.value(entry, record)
	if !ok {
		return "", false
	}
	str := transforms.Stringify(v)
	if strings.TrimSpace(str) == "" {
		return "", false
	}
	return str, true
}

func headerWidget(field domain.TargetField) domain.Widget {
	hint := field.Type.Label()
	if field.Required {
		hint += " (required)"
	}
	return domain.Widget{Kind: domain.WidgetHeader, Name: field.ID, Label: field.Name, Hint: hint}
}

func enabledWidget(field domain.TargetField, current domain.MappingEntry) domain.Widget {
	w := domain.Widget{
		Kind:    domain.WidgetCheckbox,
		Name:    domain.FieldKey(field.ID, domain.ControlEnabled),
		Label:   "Map this property",
		Checked: current.Enabled || field.Required,
	}
	if field.Required {
		w.Disabled = true
		w.Hint = "Required properties are always mapped"
	}
	return w
}

func sourceWidget(field domain.TargetField, control, label string,
	sources []domain.SourceField, selected string) domain.Widget {
	opts := make([]domain.Option, 0, len(sources))
	for _, src := range sources {
		opts = append(opts, domain.Option{Label: src.Label, Value: src.Name, Selected: src.Name == selected})
	}
	return domain.Widget{
		Kind:    domain.WidgetDropdown,
		Name:    domain.FieldKey(field.ID, control),
		Label:   label,
		Value:   selected,
		Options: opts,
	}
}

func transformWidget(field domain.TargetField, control, label string,
	options []domain.Option, selected string) domain.Widget {
	if selected == "" {
		selected = transforms.None
	}
	opts := make([]domain.Option, 0, len(options))
	for _, o := range options {
		o.Selected = o.Value == selected
		opts = append(opts, o)
	}
	return domain.Widget{
		Kind:    domain.WidgetDropdown,
		Name:    domain.FieldKey(field.ID, control),
		Label:   label,
		Value:   selected,
		Options: opts,
	}
}

func hintWidget(field domain.TargetField, text string) domain.Widget {
	return domain.Widget{Kind: domain.WidgetHint, Name: domain.FieldKey(field.ID, "hint"), Hint: text}
}
