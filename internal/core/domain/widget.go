package domain

import "strings"

// WidgetKind identifies the control a configuration widget renders as.
type WidgetKind string

// Widget kinds.
const (
	WidgetHeader      WidgetKind = "header"
	WidgetCheckbox    WidgetKind = "checkbox"
	WidgetDropdown    WidgetKind = "dropdown"
	WidgetMultiSelect WidgetKind = "multi_select"
	WidgetTextInput   WidgetKind = "text_input"
	WidgetHint        WidgetKind = "hint"
)

// Option is one label/value choice.
type Option struct {
	Label    string
	Value    string
	Selected bool
}

// Widget is a host-agnostic description of one configuration control.
// Name is the form key the submitted value arrives under.
type Widget struct {
	Kind     WidgetKind
	Name     string
	Label    string
	Hint     string
	Value    string
	Checked  bool
	Options  []Option
	Disabled bool
}

// FormInput is a submitted configuration form, keyed by widget name.
type FormInput map[string][]string

// Get returns the first value for key, trimmed, or "".
func (f FormInput) Get(key string) string {
	vals := f[key]
	if len(vals) == 0 {
		return ""
	}
	return strings.TrimSpace(vals[0])
}

// Values returns the non-empty values for key. A single comma-separated
// value is split so flags and multi-select widgets decode the same way.
func (f FormInput) Values(key string) []string {
	var out []string
	for _, v := range f[key] {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// Bool returns true if key holds a truthy value.
func (f FormInput) Bool(key string) bool {
	switch strings.ToLower(f.Get(key)) {
	case "true", "on", "1", "yes":
		return true
	default:
		return false
	}
}

// Has returns true if key was submitted at all.
func (f FormInput) Has(key string) bool {
	_, ok := f[key]
	return ok
}

// FieldKey builds the form key for a property's sub-control.
func FieldKey(fieldID, control string) string {
	return fieldID + "." + control
}

// Form control names.
const (
	ControlEnabled             = "enabled"
	ControlSource              = "source"
	ControlTransform           = "transform"
	ControlStatic              = "static"
	ControlMatchField          = "match_field"
	ControlMatchSource         = "match_source"
	ControlMatchTransformation = "match_transform"
	ControlFileMode            = "file_mode"
)
