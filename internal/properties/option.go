package properties

import (
	"context"
	"slices"

	"github.com/custodia-labs/mailpage/internal/core/domain"
)

var _ Handler = (*optionHandler)(nil)

// optionHandler serves select, status and multi_select. The chosen
// option names are stored on the entry; no source field is read.
type optionHandler struct {
	typ domain.FieldType
}

func (h *optionHandler) Type() domain.FieldType {
	return h.typ
}

func (h *optionHandler) multi() bool {
	return h.typ == domain.FieldTypeMultiSelect
}

func (h *optionHandler) BuildConfigurationUI(field domain.TargetField, current domain.MappingEntry) []domain.Widget {
	chosen := current.StaticValues
	if !h.multi() && current.StaticValue != "" {
		chosen = []string{current.StaticValue}
	}

	options := field.Options()
	opts := make([]domain.Option, 0, len(options))
	for _, o := range options {
		opts = append(opts, domain.Option{Label: o.Name, Value: o.Name, Selected: slices.Contains(chosen, o.Name)})
	}

	w := domain.Widget{
		Kind:    domain.WidgetDropdown,
		Name:    domain.FieldKey(field.ID, domain.ControlStatic),
		Label:   "Value",
		Value:   current.StaticValue,
		Options: opts,
	}
	if h.multi() {
		w.Kind = domain.WidgetMultiSelect
		w.Label = "Values"
		w.Value = ""
	}

	widgets := []domain.Widget{headerWidget(field), enabledWidget(field, current), w}
	if len(options) == 0 {
		widgets = append(widgets, hintWidget(field, "This property has no options yet"))
	}
	return widgets
}

func (h *optionHandler) ParseConfiguration(field domain.TargetField, input domain.FormInput) domain.MappingEntry {
	entry := domain.MappingEntry{Type: h.typ, Required: field.Required}
	key := domain.FieldKey(field.ID, domain.ControlStatic)

	known := knownOptions(field)
	if h.multi() {
		for _, v := range input.Values(key) {
			if known(v) && !slices.Contains(entry.StaticValues, v) {
				entry.StaticValues = append(entry.StaticValues, v)
			}
		}
		entry.Enabled = enabled(field, input, len(entry.StaticValues) > 0)
		return entry
	}

	if v := input.Get(key); v != "" && known(v) {
		entry.StaticValue = v
	}
	entry.Enabled = enabled(field, input, entry.StaticValue != "")
	return entry
}

// knownOptions accepts any value when the field advertises no options.
func knownOptions(field domain.TargetField) func(string) bool {
	options := field.Options()
	if len(options) == 0 {
		return func(string) bool { return true }
	}
	return func(v string) bool {
		for _, o := range options {
			if o.Name == v {
				return true
			}
		}
		return false
	}
}

func (h *optionHandler) ToPayload(_ context.Context, entry domain.MappingEntry,
	_ domain.SourceRecord, _ string) (domain.Fragment, error) {
	if !entry.Enabled {
		return nil, nil
	}
	if h.multi() {
		if len(entry.StaticValues) == 0 {
			return nil, nil
		}
		names := make([]any, 0, len(entry.StaticValues))
		for _, v := range entry.StaticValues {
			names = append(names, map[string]any{"name": v})
		}
		return domain.Fragment{string(h.typ): names}, nil
	}
	if entry.StaticValue == "" {
		return nil, nil
	}
	return domain.Fragment{string(h.typ): map[string]any{"name": entry.StaticValue}}, nil
}
