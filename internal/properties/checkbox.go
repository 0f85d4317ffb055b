package properties

import (
	"context"

	"github.com/custodia-labs/mailpage/internal/core/domain"
	"github.com/custodia-labs/mailpage/internal/transforms"
)

var _ Handler = (*checkboxHandler)(nil)

// checkboxHandler ticks the box unless the source says otherwise. The
// source field is optional.
type checkboxHandler struct {
	sourced
}

func (h *checkboxHandler) ParseConfiguration(field domain.TargetField, input domain.FormInput) domain.MappingEntry {
	entry := h.sourced.ParseConfiguration(field, input)
	entry.Enabled = enabled(field, input, true)
	return entry
}

func (h *checkboxHandler) ToPayload(_ context.Context, entry domain.MappingEntry,
	record domain.SourceRecord, _ string) (domain.Fragment, error) {
	if !entry.Enabled {
		return nil, nil
	}
	checked := true
	if v, ok := h.value(entry, record); ok {
		checked = transforms.ToBool(v)
	}
	return domain.Fragment{"checkbox": checked}, nil
}
