package properties

import (
	"context"

	"github.com/custodia-labs/mailpage/internal/core/domain"
)

var _ Handler = (*textHandler)(nil)

// textHandler serves title and rich_text.
type textHandler struct {
	sourced
}

func newTextHandler(t domain.FieldType, deps Deps) *textHandler {
	return &textHandler{sourced{typ: t, catalog: deps.Catalog, transforms: deps.Transforms}}
}

func (h *textHandler) ToPayload(_ context.Context, entry domain.MappingEntry,
	record domain.SourceRecord, _ string) (domain.Fragment, error) {
	s, ok := h.text(entry, record)
	if !ok {
		return nil, nil
	}
	return domain.Fragment{string(h.typ): domain.TextRuns(s)}, nil
}

