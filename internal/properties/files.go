package properties

import (
	"context"
	"fmt"

	"github.com/custodia-labs/mailpage/internal/core/domain"
	"github.com/custodia-labs/mailpage/internal/core/ports/driven"
)

var _ Handler = (*filesHandler)(nil)

var fileModes = []domain.Option{
	{Label: "Upload to Drive and link", Value: string(domain.FileModeUpload)},
	{Label: "Link to the message", Value: string(domain.FileModeLink)},
	{Label: "Skip attachments", Value: string(domain.FileModeSkip)},
}

// filesHandler attaches message attachments as external file references.
type filesHandler struct {
	attachments driven.AttachmentService
}

func (h *filesHandler) Type() domain.FieldType {
	return domain.FieldTypeFiles
}

func (h *filesHandler) BuildConfigurationUI(field domain.TargetField, current domain.MappingEntry) []domain.Widget {
	mode := current.FileMode
	if !mode.IsValid() {
		mode = domain.FileModeLink
	}
	opts := make([]domain.Option, 0, len(fileModes))
	for _, o := range fileModes {
		o.Selected = o.Value == string(mode)
		opts = append(opts, o)
	}
	return []domain.Widget{
		headerWidget(field),
		enabledWidget(field, current),
		{
			Kind:    domain.WidgetDropdown,
			Name:    domain.FieldKey(field.ID, domain.ControlFileMode),
			Label:   "Attachments",
			Value:   string(mode),
			Options: opts,
		},
	}
}

func (h *filesHandler) ParseConfiguration(field domain.TargetField, input domain.FormInput) domain.MappingEntry {
	mode := domain.FileMode(input.Get(domain.FieldKey(field.ID, domain.ControlFileMode)))
	if !mode.IsValid() {
		mode = domain.FileModeLink
	}
	entry := domain.MappingEntry{
		Type:        domain.FieldTypeFiles,
		SourceField: domain.FieldAttachments,
		FileMode:    mode,
		Required:    field.Required,
	}
	entry.Enabled = enabled(field, input, mode != domain.FileModeSkip)
	return entry
}

func (h *filesHandler) ToPayload(ctx context.Context, entry domain.MappingEntry,
	record domain.SourceRecord, _ string) (domain.Fragment, error) {
	if !entry.Enabled || entry.FileMode == domain.FileModeSkip || h.attachments == nil {
		return nil, nil
	}
	attachments := record.Attachments()
	if len(attachments) == 0 {
		return nil, nil
	}

	mode := entry.FileMode
	if !mode.IsValid() {
		mode = domain.FileModeLink
	}
	attCtx := domain.AttachmentContext{
		MessageID: record.String(domain.FieldMessageID),
		ThreadID:  record.String(domain.FieldThreadID),
		Link:      record.String(domain.FieldMessageLink),
	}
	refs, err := h.attachments.Process(ctx, attachments, attCtx, mode)
	if err != nil {
		return nil, fmt.Errorf("process attachments: %w", err)
	}
	if len(refs) == 0 {
		return nil, nil
	}

	files := make([]any, 0, len(refs))
	for _, ref := range refs {
		files = append(files, map[string]any{
			"name":     ref.Name,
			"type":     "external",
			"external": map[string]any{"url": ref.URL},
		})
	}
	return domain.Fragment{"files": files}, nil
}
