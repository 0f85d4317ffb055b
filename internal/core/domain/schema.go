package domain

import "strings"

// FieldType identifies a Notion property type.
type FieldType string

// Writable property types.
const (
	FieldTypeTitle       FieldType = "title"
	FieldTypeText        FieldType = "rich_text"
	FieldTypeSelect      FieldType = "select"
	FieldTypeStatus      FieldType = "status"
	FieldTypeMultiSelect FieldType = "multi_select"
	FieldTypeCheckbox    FieldType = "checkbox"
	FieldTypeDate        FieldType = "date"
	FieldTypeURL         FieldType = "url"
	FieldTypeEmail       FieldType = "email"
	FieldTypeNumber      FieldType = "number"
	FieldTypePhone       FieldType = "phone_number"
	FieldTypePeople      FieldType = "people"
	FieldTypeFiles       FieldType = "files"
	FieldTypeRelation    FieldType = "relation"
)

// Auto-managed property types. Notion computes these itself and rejects them
// as write input.
const (
	FieldTypeFormula        FieldType = "formula"
	FieldTypeRollup         FieldType = "rollup"
	FieldTypeCreatedTime    FieldType = "created_time"
	FieldTypeCreatedBy      FieldType = "created_by"
	FieldTypeLastEditedTime FieldType = "last_edited_time"
	FieldTypeLastEditedBy   FieldType = "last_edited_by"
)

// WritableFieldTypes returns every type that must have a property handler,
// in display order.
func WritableFieldTypes() []FieldType {
	return []FieldType{
		FieldTypeTitle,
		FieldTypeText,
		FieldTypeSelect,
		FieldTypeStatus,
		FieldTypeMultiSelect,
		FieldTypeCheckbox,
		FieldTypeDate,
		FieldTypeURL,
		FieldTypeEmail,
		FieldTypeNumber,
		FieldTypePhone,
		FieldTypePeople,
		FieldTypeFiles,
		FieldTypeRelation,
	}
}

// AutoManagedFieldTypes returns the types that are never written.
func AutoManagedFieldTypes() []FieldType {
	return []FieldType{
		FieldTypeFormula,
		FieldTypeRollup,
		FieldTypeCreatedTime,
		FieldTypeCreatedBy,
		FieldTypeLastEditedTime,
		FieldTypeLastEditedBy,
	}
}

// IsAutoManaged returns true if Notion computes values of this type.
func (t FieldType) IsAutoManaged() bool {
	for _, auto := range AutoManagedFieldTypes() {
		if t == auto {
			return true
		}
	}
	return false
}

// IsWritable returns true if values of this type can be sent to Notion.
func (t FieldType) IsWritable() bool {
	for _, w := range WritableFieldTypes() {
		if t == w {
			return true
		}
	}
	return false
}

// IsStaticOption returns true for types whose mapping stores the chosen
// option(s) directly instead of reading a source field.
func (t FieldType) IsStaticOption() bool {
	switch t {
	case FieldTypeSelect, FieldTypeStatus, FieldTypeMultiSelect, FieldTypePeople:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (t FieldType) String() string {
	return string(t)
}

// Label returns a human-readable name for the type.
func (t FieldType) Label() string {
	switch t {
	case FieldTypeTitle:
		return "Title"
	case FieldTypeText:
		return "Text"
	case FieldTypeSelect:
		return "Select"
	case FieldTypeStatus:
		return "Status"
	case FieldTypeMultiSelect:
		return "Multi-select"
	case FieldTypeCheckbox:
		return "Checkbox"
	case FieldTypeDate:
		return "Date"
	case FieldTypeURL:
		return "URL"
	case FieldTypeEmail:
		return "Email"
	case FieldTypeNumber:
		return "Number"
	case FieldTypePhone:
		return "Phone"
	case FieldTypePeople:
		return "People"
	case FieldTypeFiles:
		return "Files & media"
	case FieldTypeRelation:
		return "Relation"
	case FieldTypeFormula:
		return "Formula"
	case FieldTypeRollup:
		return "Rollup"
	case FieldTypeCreatedTime:
		return "Created time"
	case FieldTypeCreatedBy:
		return "Created by"
	case FieldTypeLastEditedTime:
		return "Last edited time"
	case FieldTypeLastEditedBy:
		return "Last edited by"
	default:
		return string(t)
	}
}

// SelectOption is one choice of a select, status or multi-select property.
type SelectOption struct {
	ID    string
	Name  string
	Color string
}

// TargetField describes one property of the target database.
type TargetField struct {
	ID       string
	Name     string
	Type     FieldType
	Required bool
	// Config is the type-specific configuration as returned by the API,
	// e.g. {"relation": {"database_id": "..."}}.
	Config map[string]any
}

// Options returns the select/status/multi-select choices declared in Config.
// Both the nested API shape ({"select": {"options": [...]}}) and a flat
// {"options": [...]} are understood.
func (f TargetField) Options() []SelectOption {
	raw, ok := f.Config["options"]
	if !ok {
		if nested, isMap := f.Config[string(f.Type)].(map[string]any); isMap {
			raw = nested["options"]
		}
	}
	list, ok := raw.([]any)
	if !ok {
		return nil
	}

	options := make([]SelectOption, 0, len(list))
	for _, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		name, _ := m["name"].(string)
		if name == "" {
			continue
		}
		id, _ := m["id"].(string)
		color, _ := m["color"].(string)
		options = append(options, SelectOption{ID: id, Name: name, Color: color})
	}
	return options
}

// TargetSchema is the live or configured property list of a database.
type TargetSchema struct {
	DatabaseID string
	Title      string
	Fields     []TargetField
}

// FieldByID returns the field with the given id.
func (s *TargetSchema) FieldByID(id string) (TargetField, bool) {
	for _, f := range s.Fields {
		if f.ID == id {
			return f, true
		}
	}
	return TargetField{}, false
}

// FieldByName returns the field with the given name.
func (s *TargetSchema) FieldByName(name string) (TargetField, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return TargetField{}, false
}

// Lookup resolves a payload key, which may be a field id or a field name.
func (s *TargetSchema) Lookup(key string) (TargetField, bool) {
	if f, ok := s.FieldByID(key); ok {
		return f, true
	}
	return s.FieldByName(key)
}

// TitleField returns the schema's title property.
func (s *TargetSchema) TitleField() (TargetField, bool) {
	for _, f := range s.Fields {
		if f.Type == FieldTypeTitle {
			return f, true
		}
	}
	return TargetField{}, false
}

// primaryNames are the conventional names of a database's primary column.
var primaryNames = []string{"name", "title"}

// DeriveRequired marks the title field, and any field conventionally named
// as the primary name column, as required.
func DeriveRequired(fields []TargetField) []TargetField {
	out := make([]TargetField, len(fields))
	for i, f := range fields {
		if f.Type == FieldTypeTitle {
			f.Required = true
		}
		for _, n := range primaryNames {
			if strings.EqualFold(strings.TrimSpace(f.Name), n) {
				f.Required = true
			}
		}
		out[i] = f
	}
	return out
}
