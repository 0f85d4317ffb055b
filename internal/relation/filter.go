package relation

import (
	"strings"
	"time"

	"github.com/custodia-labs/mailpage/internal/core/domain"
	"github.com/custodia-labs/mailpage/internal/transforms"
)

// BuildFilter creates the query used to find linked pages whose property
// matches value. It returns false when no sensible filter exists for the
// property type or the value does not fit it.
func BuildFilter(property string, ft domain.FieldType, value any) (domain.RelationFilter, bool) {
	if property == "" || value == nil {
		return domain.RelationFilter{}, false
	}

	f := domain.RelationFilter{Property: property, PropertyType: ft}

	switch ft {
	case domain.FieldTypeCheckbox:
		f.Operator = domain.FilterEquals
		f.Value = transforms.ToBool(value)
	case domain.FieldTypeNumber:
		n, ok := transforms.ToFloat(value)
		if !ok {
			return domain.RelationFilter{}, false
		}
		f.Operator = domain.FilterEquals
		f.Value = n
	case domain.FieldTypeSelect, domain.FieldTypeStatus:
		s := strings.TrimSpace(transforms.Stringify(value))
		if s == "" {
			return domain.RelationFilter{}, false
		}
		f.Operator = domain.FilterEquals
		f.Value = s
	case domain.FieldTypeMultiSelect, domain.FieldTypeTitle, domain.FieldTypeText,
		domain.FieldTypeURL, domain.FieldTypeEmail, domain.FieldTypePhone:
		s := strings.TrimSpace(transforms.Stringify(value))
		if s == "" {
			return domain.RelationFilter{}, false
		}
		f.Operator = domain.FilterContains
		f.Value = s
	case domain.FieldTypeDate:
		t, ok := transforms.ParseTime(value)
		if !ok {
			return domain.RelationFilter{}, false
		}
		f.Operator = domain.FilterDateEquals
		f.Value = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	default:
		return domain.RelationFilter{}, false
	}

	return f, true
}
