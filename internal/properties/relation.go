package properties

import (
	"context"
	"strings"

	"github.com/custodia-labs/mailpage/internal/core/domain"
	"github.com/custodia-labs/mailpage/internal/core/ports/driving"
	"github.com/custodia-labs/mailpage/internal/relation"
	"github.com/custodia-labs/mailpage/internal/transforms"
)

var _ Handler = (*relationHandler)(nil)

// relationHandler links the new page to pages in another database whose
// match property equals a value from the message.
type relationHandler struct {
	resolver   *relation.Resolver
	catalog    driving.FieldCatalog
	transforms driving.TransformationCatalog
	apiKey     func() string
}

func (h *relationHandler) Type() domain.FieldType {
	return domain.FieldTypeRelation
}

func (h *relationHandler) linked(field domain.TargetField) relation.LinkedFields {
	key := ""
	if h.apiKey != nil {
		key = h.apiKey()
	}
	return h.resolver.LinkedFields(context.Background(), field, key)
}

func (h *relationHandler) BuildConfigurationUI(field domain.TargetField, current domain.MappingEntry) []domain.Widget {
	linked := h.linked(field)

	opts := make([]domain.Option, 0, len(linked.Fields))
	for _, f := range linked.Fields {
		opts = append(opts, domain.Option{
			Label:    f.Name + " (" + f.Type.Label() + ")",
			Value:    f.Name,
			Selected: f.Name == current.MatchField,
		})
	}

	widgets := []domain.Widget{
		headerWidget(field),
		enabledWidget(field, current),
	}
	if linked.Source == relation.SourcePlaceholder {
		widgets = append(widgets, hintWidget(field, "Linked database unavailable; showing generic properties"))
	}

	matchSource := current.MatchSourceField
	if matchSource == "" {
		if rec, ok := h.catalog.Recommend(domain.FieldTypeRelation); ok {
			matchSource = rec.Name
		}
	}
	return append(widgets,
		domain.Widget{
			Kind:    domain.WidgetDropdown,
			Name:    domain.FieldKey(field.ID, domain.ControlMatchField),
			Label:   "Match linked property",
			Value:   current.MatchField,
			Options: opts,
		},
		sourceWidget(field, domain.ControlMatchSource, "Against message field",
			h.catalog.FieldsFor(domain.FieldTypeRelation), matchSource),
		transformWidget(field, domain.ControlMatchTransformation, "Transformation",
			h.transforms.OptionsFor(domain.FieldTypeRelation), current.MatchTransformation),
	)
}

// ParseConfiguration records the linked database and the match property's
// type so writes can search without reopening the form.
func (h *relationHandler) ParseConfiguration(field domain.TargetField, input domain.FormInput) domain.MappingEntry {
	entry := domain.MappingEntry{Type: domain.FieldTypeRelation, Required: field.Required}

	entry.MatchField = input.Get(domain.FieldKey(field.ID, domain.ControlMatchField))
	source := input.Get(domain.FieldKey(field.ID, domain.ControlMatchSource))
	if source != "" && h.catalog.IsCompatible(source, domain.FieldTypeRelation) {
		entry.MatchSourceField = source
	}
	name := input.Get(domain.FieldKey(field.ID, domain.ControlMatchTransformation))
	if name != "" && name != transforms.None && h.transforms.Supports(domain.FieldTypeRelation, name) {
		entry.MatchTransformation = name
	}

	if entry.MatchField != "" {
		linked := h.linked(field)
		entry.LinkedDatabaseID = linked.DatabaseID
		for _, f := range linked.Fields {
			if strings.EqualFold(f.Name, entry.MatchField) || f.ID == entry.MatchField {
				entry.MatchField = f.Name
				entry.MatchFieldType = f.Type
				break
			}
		}
	}

	entry.Enabled = enabled(field, input, entry.MatchField != "" && entry.MatchSourceField != "")
	return entry
}

func (h *relationHandler) ToPayload(ctx context.Context, entry domain.MappingEntry,
	record domain.SourceRecord, apiKey string) (domain.Fragment, error) {
	if !relation.Active(entry) {
		return nil, nil
	}
	ids := h.resolver.Resolve(ctx, entry, record, apiKey)
	if len(ids) == 0 {
		return nil, nil
	}
	refs := make([]any, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, map[string]any{"id": id})
	}
	return domain.Fragment{"relation": refs}, nil
}
