package catalog

import (
	"github.com/custodia-labs/mailpage/internal/core/domain"
	"github.com/custodia-labs/mailpage/internal/core/ports/driving"
)

// Ensure Catalog implements the interface.
var _ driving.FieldCatalog = (*Catalog)(nil)

// fields lists every source field in display order.
var fields = []domain.SourceField{
	{Name: domain.FieldMessageID, Label: "Message ID", Category: domain.CategoryIdentification},
	{Name: domain.FieldThreadID, Label: "Thread ID", Category: domain.CategoryIdentification},
	{Name: domain.FieldSubject, Label: "Subject", Category: domain.CategoryHeader},
	{Name: domain.FieldFrom, Label: "From", Category: domain.CategoryHeader},
	{Name: domain.FieldTo, Label: "To", Category: domain.CategoryHeader},
	{Name: domain.FieldCc, Label: "Cc", Category: domain.CategoryHeader},
	{Name: domain.FieldBcc, Label: "Bcc", Category: domain.CategoryHeader},
	{Name: domain.FieldReplyTo, Label: "Reply-To", Category: domain.CategoryHeader},
	{Name: domain.FieldDate, Label: "Date", Category: domain.CategoryHeader},
	{Name: domain.FieldBody, Label: "Body (plain text)", Category: domain.CategoryContent},
	{Name: domain.FieldBodyHTML, Label: "Body (HTML)", Category: domain.CategoryContent},
	{Name: domain.FieldSnippet, Label: "Snippet", Category: domain.CategoryContent},
	{Name: domain.FieldLabels, Label: "Labels", Category: domain.CategoryStatus},
	{Name: domain.FieldIsStarred, Label: "Is starred", Category: domain.CategoryStatus},
	{Name: domain.FieldIsUnread, Label: "Is unread", Category: domain.CategoryStatus},
	{Name: domain.FieldIsInInbox, Label: "Is in inbox", Category: domain.CategoryStatus},
	{Name: domain.FieldHasAttachments, Label: "Has attachments", Category: domain.CategoryAttachment},
	{Name: domain.FieldAttachmentCount, Label: "Attachment count", Category: domain.CategoryAttachment},
	{Name: domain.FieldAttachmentSize, Label: "Attachment size (bytes)", Category: domain.CategoryAttachment},
	{Name: domain.FieldAttachments, Label: "Attachments", Category: domain.CategoryAttachment},
	{Name: domain.FieldMessageLink, Label: "Message link", Category: domain.CategoryLink},
}

// systemManaged fields are filled by the page writer and never user-selectable.
var systemManaged = map[string]bool{
	domain.FieldMessageLink: true,
}

// compatibility maps each property type to its legal source fields.
// The first entry is the default recommendation.
var compatibility = map[domain.FieldType][]string{
	domain.FieldTypeTitle: {
		domain.FieldSubject, domain.FieldFrom, domain.FieldTo, domain.FieldSnippet,
		domain.FieldDate, domain.FieldMessageID, domain.FieldThreadID,
	},
	domain.FieldTypeText: {
		domain.FieldBody, domain.FieldBodyHTML, domain.FieldSnippet, domain.FieldSubject,
		domain.FieldFrom, domain.FieldTo, domain.FieldCc, domain.FieldBcc, domain.FieldReplyTo,
		domain.FieldDate, domain.FieldLabels, domain.FieldAttachments,
		domain.FieldMessageID, domain.FieldThreadID,
	},
	domain.FieldTypeEmail: {
		domain.FieldFrom, domain.FieldTo, domain.FieldCc, domain.FieldBcc, domain.FieldReplyTo,
	},
	domain.FieldTypeURL: {
		domain.FieldBody, domain.FieldSnippet, domain.FieldSubject, domain.FieldMessageLink,
	},
	domain.FieldTypeNumber: {
		domain.FieldAttachmentCount, domain.FieldAttachmentSize,
	},
	domain.FieldTypeDate: {
		domain.FieldDate,
	},
	domain.FieldTypeCheckbox: {
		domain.FieldIsStarred, domain.FieldIsUnread, domain.FieldIsInInbox, domain.FieldHasAttachments,
	},
	domain.FieldTypePhone: {
		domain.FieldSnippet, domain.FieldBody, domain.FieldSubject,
	},
	domain.FieldTypeFiles: {
		domain.FieldAttachments,
	},
	domain.FieldTypeRelation: {
		domain.FieldFrom, domain.FieldTo, domain.FieldCc, domain.FieldReplyTo, domain.FieldSubject,
		domain.FieldDate, domain.FieldThreadID, domain.FieldMessageID, domain.FieldLabels,
		domain.FieldIsStarred, domain.FieldAttachmentCount,
	},
}

// Catalog answers source-field questions from the static matrix.
type Catalog struct {
	byName map[string]domain.SourceField
}

// New creates a catalog.
func New() *Catalog {
	byName := make(map[string]domain.SourceField, len(fields))
	for _, f := range fields {
		byName[f.Name] = f
	}
	return &Catalog{byName: byName}
}

// FieldsFor returns the selectable source fields for a property type.
// Static-option types return nil.
func (c *Catalog) FieldsFor(t domain.FieldType) []domain.SourceField {
	names := compatibility[t]
	if len(names) == 0 {
		return nil
	}
	out := make([]domain.SourceField, 0, len(names))
	for _, name := range names {
		if systemManaged[name] {
			continue
		}
		out = append(out, c.byName[name])
	}
	return out
}

// Recommend returns the default source field for a property type.
func (c *Catalog) Recommend(t domain.FieldType) (domain.SourceField, bool) {
	candidates := c.FieldsFor(t)
	if len(candidates) == 0 {
		return domain.SourceField{}, false
	}
	return candidates[0], true
}

// IsCompatible returns true if field may be selected for a property of type t.
// System-managed fields are never compatible with user mappings.
func (c *Catalog) IsCompatible(field string, t domain.FieldType) bool {
	if systemManaged[field] {
		return false
	}
	for _, name := range compatibility[t] {
		if name == field {
			return true
		}
	}
	return false
}
