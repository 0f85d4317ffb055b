package properties

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/custodia-labs/mailpage/internal/core/domain"
	"github.com/custodia-labs/mailpage/internal/core/ports/driven"
	"github.com/custodia-labs/mailpage/internal/logger"
)

// rosterTimeout bounds the member lookup behind the configuration form.
const rosterTimeout = 10 * time.Second

var _ Handler = (*peopleHandler)(nil)

// peopleHandler assigns fixed workspace members chosen from the roster.
type peopleHandler struct {
	directory driven.DirectoryLookup
}

func (h *peopleHandler) Type() domain.FieldType {
	return domain.FieldTypePeople
}

func (h *peopleHandler) roster() ([]domain.Member, error) {
	if h.directory == nil {
		return nil, domain.ErrSourceUnavailable
	}
	ctx, cancel := context.WithTimeout(context.Background(), rosterTimeout)
	defer cancel()
	return h.directory.ListMembers(ctx)
}

func (h *peopleHandler) BuildConfigurationUI(field domain.TargetField, current domain.MappingEntry) []domain.Widget {
	widgets := []domain.Widget{headerWidget(field), enabledWidget(field, current)}

	members, err := h.roster()
	if err != nil {
		logger.Warn("workspace members unavailable", "field", field.Name, "error", err)
		return append(widgets,
			hintWidget(field, "Workspace members could not be loaded; enter user ids"),
			domain.Widget{
				Kind:  domain.WidgetTextInput,
				Name:  domain.FieldKey(field.ID, domain.ControlStatic),
				Label: "User ids (comma separated)",
				Value: strings.Join(current.StaticValues, ", "),
			})
	}

	opts := make([]domain.Option, 0, len(members))
	for _, m := range members {
		label := m.Name
		if m.Email != "" {
			label += " <" + m.Email + ">"
		}
		opts = append(opts, domain.Option{Label: label, Value: m.ID, Selected: slices.Contains(current.StaticValues, m.ID)})
	}
	return append(widgets, domain.Widget{
		Kind:    domain.WidgetMultiSelect,
		Name:    domain.FieldKey(field.ID, domain.ControlStatic),
		Label:   "People",
		Options: opts,
	})
}

func (h *peopleHandler) ParseConfiguration(field domain.TargetField, input domain.FormInput) domain.MappingEntry {
	entry := domain.MappingEntry{Type: domain.FieldTypePeople, Required: field.Required}
	for _, id := range input.Values(domain.FieldKey(field.ID, domain.ControlStatic)) {
		if !slices.Contains(entry.StaticValues, id) {
			entry.StaticValues = append(entry.StaticValues, id)
		}
	}
	entry.Enabled = enabled(field, input, len(entry.StaticValues) > 0)
	return entry
}

func (h *peopleHandler) ToPayload(_ context.Context, entry domain.MappingEntry,
	_ domain.SourceRecord, _ string) (domain.Fragment, error) {
	if !entry.Enabled || len(entry.StaticValues) == 0 {
		return nil, nil
	}
	people := make([]any, 0, len(entry.StaticValues))
	for _, id := range entry.StaticValues {
		people = append(people, map[string]any{"object": "user", "id": id})
	}
	return domain.Fragment{"people": people}, nil
}
