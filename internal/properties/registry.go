package properties

import (
	"fmt"
	"time"

	"github.com/custodia-labs/mailpage/internal/core/domain"
	"github.com/custodia-labs/mailpage/internal/relation"
)

// BuilderFunc creates the handler for one property type.
type BuilderFunc func(t domain.FieldType, deps Deps) Handler

// builders maps each writable type to its handler constructor.
var builders = map[domain.FieldType]BuilderFunc{
	domain.FieldTypeTitle: func(t domain.FieldType, d Deps) Handler { return newTextHandler(t, d) },
	domain.FieldTypeText:  func(t domain.FieldType, d Deps) Handler { return newTextHandler(t, d) },
	domain.FieldTypeEmail: func(t domain.FieldType, d Deps) Handler {
		return &emailHandler{sourced{typ: t, catalog: d.Catalog, transforms: d.Transforms}}
	},
	domain.FieldTypeURL: func(t domain.FieldType, d Deps) Handler {
		return &urlHandler{sourced{typ: t, catalog: d.Catalog, transforms: d.Transforms}}
	},
	domain.FieldTypeNumber: func(t domain.FieldType, d Deps) Handler {
		return &numberHandler{sourced{typ: t, catalog: d.Catalog, transforms: d.Transforms}}
	},
	domain.FieldTypePhone: func(t domain.FieldType, d Deps) Handler {
		return &phoneHandler{sourced{typ: t, catalog: d.Catalog, transforms: d.Transforms}}
	},
	domain.FieldTypeDate: func(t domain.FieldType, d Deps) Handler {
		return &dateHandler{sourced: sourced{typ: t, catalog: d.Catalog, transforms: d.Transforms}, now: d.Now}
	},
	domain.FieldTypeCheckbox: func(t domain.FieldType, d Deps) Handler {
		return &checkboxHandler{sourced{typ: t, catalog: d.Catalog, transforms: d.Transforms}}
	},
	domain.FieldTypeSelect:      func(t domain.FieldType, _ Deps) Handler { return &optionHandler{typ: t} },
	domain.FieldTypeStatus:      func(t domain.FieldType, _ Deps) Handler { return &optionHandler{typ: t} },
	domain.FieldTypeMultiSelect: func(t domain.FieldType, _ Deps) Handler { return &optionHandler{typ: t} },
	domain.FieldTypePeople: func(_ domain.FieldType, d Deps) Handler {
		return &peopleHandler{directory: d.Directory}
	},
	domain.FieldTypeFiles: func(_ domain.FieldType, d Deps) Handler {
		return &filesHandler{attachments: d.Attachments}
	},
	domain.FieldTypeRelation: func(_ domain.FieldType, d Deps) Handler {
		return &relationHandler{resolver: d.Resolver, catalog: d.Catalog, transforms: d.Transforms, apiKey: d.APIKey}
	},
}

// Registry maps property types to their handlers.
type Registry struct {
	handlers map[domain.FieldType]Handler
	types    []domain.FieldType
}

// NewRegistry builds a handler for every writable type. A writable type
// without a handler is a wiring fault and fails construction.
func NewRegistry(deps Deps) (*Registry, error) {
	if deps.Catalog == nil || deps.Transforms == nil {
		return nil, fmt.Errorf("%w: catalog and transforms are required", domain.ErrInvalidInput)
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Resolver == nil {
		deps.Resolver = relation.NewResolver(nil, nil, deps.Transforms)
	}

	r := &Registry{handlers: make(map[domain.FieldType]Handler)}
	for _, t := range domain.WritableFieldTypes() {
		build, ok := builders[t]
		if !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrHandlerMissing, t)
		}
		h := build(t, deps)
		if h.Type() != t {
			return nil, fmt.Errorf("%w: %s handler reports %s", domain.ErrHandlerMissing, t, h.Type())
		}
		r.handlers[t] = h
		r.types = append(r.types, t)
	}
	return r, nil
}

// GetHandler returns the handler for t, or nil for computed and unknown
// types.
func (r *Registry) GetHandler(t domain.FieldType) Handler {
	if t.IsAutoManaged() {
		return nil
	}
	return r.handlers[t]
}

// SupportedTypes returns the writable types in declaration order.
func (r *Registry) SupportedTypes() []domain.FieldType {
	return append([]domain.FieldType(nil), r.types...)
}
