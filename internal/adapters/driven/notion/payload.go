package notion

import (
	"encoding/json"
	"fmt"
	"maps"

	"github.com/jomei/notionapi"

	"github.com/custodia-labs/mailpage/internal/core/domain"
)

// toProperties decodes a payload into SDK page properties. Fragments carry
// a single key named after the property type; the SDK dispatches on an
// explicit "type" member, so one is added.
func toProperties(payload domain.Payload) (notionapi.Properties, error) {
	typed := make(map[string]any, len(payload))
	var dates []string
	for _, key := range payload.Keys() {
		frag, ok := payload[key].(domain.Fragment)
		if !ok {
			return nil, fmt.Errorf("%w: property %q is %T, want object", domain.ErrInvalidInput, key, payload[key])
		}
		typ, err := fragmentType(frag)
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", key, err)
		}
		out := maps.Clone(frag)
		out["type"] = typ
		typed[key] = out
		if typ == string(notionapi.PropertyTypeDate) {
			dates = append(dates, key)
		}
	}

	raw, err := json.Marshal(typed)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	var props notionapi.Properties
	if err := json.Unmarshal(raw, &props); err != nil {
		return nil, fmt.Errorf("%w: decode payload: %w", domain.ErrInvalidInput, err)
	}

	// notionapi.Date re-encodes a date-only start as a UTC datetime.
	for _, key := range dates {
		data, err := json.Marshal(typed[key])
		if err != nil {
			return nil, fmt.Errorf("encode property %q: %w", key, err)
		}
		props[key] = rawProperty{typ: notionapi.PropertyTypeDate, data: data}
	}
	return props, nil
}

// rawProperty sends an already encoded property value unchanged.
type rawProperty struct {
	typ  notionapi.PropertyType
	data json.RawMessage
}

func (p rawProperty) GetID() string                   { return "" }
func (p rawProperty) GetType() notionapi.PropertyType { return p.typ }

func (p rawProperty) MarshalJSON() ([]byte, error) {
	return p.data, nil
}

// fragmentType returns the single type key of a fragment.
func fragmentType(frag domain.Fragment) (string, error) {
	var typ string
	for k := range frag {
		if k == "type" || k == "id" {
			continue
		}
		if typ != "" {
			return "", fmt.Errorf("%w: fragment has keys %q and %q", domain.ErrInvalidInput, typ, k)
		}
		typ = k
	}
	if typ == "" {
		return "", fmt.Errorf("%w: empty fragment", domain.ErrInvalidInput)
	}
	return typ, nil
}
