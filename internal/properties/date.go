package properties

import (
	"context"
	"time"

	"github.com/custodia-labs/mailpage/internal/core/domain"
	"github.com/custodia-labs/mailpage/internal/transforms"
)

var _ Handler = (*dateHandler)(nil)

// dateHandler writes a start date. A value that does not parse becomes
// the current time rather than being dropped.
type dateHandler struct {
	sourced
	now func() time.Time
}

func (h *dateHandler) ToPayload(_ context.Context, entry domain.MappingEntry,
	record domain.SourceRecord, _ string) (domain.Fragment, error) {
	v, ok := h.value(entry, record)
	if !ok {
		return nil, nil
	}
	return domain.Fragment{"date": map[string]any{"start": h.start(v)}}, nil
}

func (h *dateHandler) start(v any) string {
	if s, ok := v.(string); ok {
		if _, err := time.Parse(transforms.DateLayout, s); err == nil {
			return s
		}
	}
	t, ok := transforms.ParseTime(v)
	if !ok {
		t = h.now()
	}
	return t.Format(time.RFC3339)
}
