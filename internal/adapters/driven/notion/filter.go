package notion

import (
	"fmt"
	"time"

	"github.com/jomei/notionapi"

	"github.com/custodia-labs/mailpage/internal/core/domain"
)

// propertyFilter converts a relation filter to a database query filter.
func propertyFilter(f domain.RelationFilter) (*notionapi.PropertyFilter, error) {
	pf := &notionapi.PropertyFilter{Property: f.Property}

	switch f.PropertyType {
	case domain.FieldTypeTitle, domain.FieldTypeText, domain.FieldTypeURL,
		domain.FieldTypeEmail, domain.FieldTypePhone:
		s, err := stringValue(f)
		if err != nil {
			return nil, err
		}
		cond := &notionapi.TextFilterCondition{}
		if f.Operator == domain.FilterEquals {
			cond.Equals = s
		} else {
			cond.Contains = s
		}
		pf.RichText = cond

	case domain.FieldTypeNumber:
		n, ok := f.Value.(float64)
		if !ok {
			return nil, invalidValue(f)
		}
		pf.Number = &notionapi.NumberFilterCondition{Equals: &n}

	case domain.FieldTypeCheckbox:
		b, ok := f.Value.(bool)
		if !ok {
			return nil, invalidValue(f)
		}
		// equals:false would be dropped by omitempty.
		if b {
			pf.Checkbox = &notionapi.CheckboxFilterCondition{Equals: true}
		} else {
			pf.Checkbox = &notionapi.CheckboxFilterCondition{DoesNotEqual: true}
		}

	case domain.FieldTypeSelect:
		s, err := stringValue(f)
		if err != nil {
			return nil, err
		}
		pf.Select = &notionapi.SelectFilterCondition{Equals: s}

	case domain.FieldTypeStatus:
		s, err := stringValue(f)
		if err != nil {
			return nil, err
		}
		pf.Status = &notionapi.StatusFilterCondition{Equals: s}

	case domain.FieldTypeMultiSelect:
		s, err := stringValue(f)
		if err != nil {
			return nil, err
		}
		pf.MultiSelect = &notionapi.MultiSelectFilterCondition{Contains: s}

	case domain.FieldTypeDate:
		t, ok := f.Value.(time.Time)
		if !ok {
			return nil, invalidValue(f)
		}
		d := notionapi.Date(t)
		pf.Date = &notionapi.DateFilterCondition{Equals: &d}

	default:
		return nil, fmt.Errorf("%w: cannot filter on %s", domain.ErrUnsupportedType, f.PropertyType)
	}

	return pf, nil
}

func stringValue(f domain.RelationFilter) (string, error) {
	s, ok := f.Value.(string)
	if !ok || s == "" {
		return "", invalidValue(f)
	}
	return s, nil
}

func invalidValue(f domain.RelationFilter) error {
	return fmt.Errorf("%w: %T value for %s filter on %q", domain.ErrInvalidInput, f.Value, f.PropertyType, f.Property)
}
