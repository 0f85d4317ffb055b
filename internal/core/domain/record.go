package domain

import (
	"sort"
	"time"
)

// Canonical source field names produced by message sources.
const (
	FieldMessageID       = "messageId"
	FieldThreadID        = "threadId"
	FieldSubject         = "subject"
	FieldFrom            = "from"
	FieldTo              = "to"
	FieldCc              = "cc"
	FieldBcc             = "bcc"
	FieldReplyTo         = "replyTo"
	FieldDate            = "date"
	FieldBody            = "body"
	FieldBodyHTML        = "bodyHtml"
	FieldSnippet         = "snippet"
	FieldLabels          = "labels"
	FieldIsStarred       = "isStarred"
	FieldIsUnread        = "isUnread"
	FieldIsInInbox       = "isInInbox"
	FieldHasAttachments  = "hasAttachments"
	FieldAttachmentCount = "attachmentCount"
	FieldAttachmentSize  = "attachmentSize"
	FieldAttachments     = "attachments"

	// FieldMessageLink is the derived back-link to the message in its mail client.
	// It is system-managed and injected by the page writer.
	FieldMessageLink = "messageLink"
)

// Attachment describes one file attached to a message.
// Bytes are never carried; the attachment service fetches them on demand.
type Attachment struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	MIMEType string `json:"mime_type"`
	Size     int64  `json:"size"`
}

// SourceRecord is a flat, immutable view of one message.
// Values are string, bool, int, int64, float64, time.Time, []string or []Attachment.
type SourceRecord struct {
	fields map[string]any
}

// NewSourceRecord creates a record from the given values.
// The map is copied; later changes to it do not affect the record.
func NewSourceRecord(values map[string]any) SourceRecord {
	fields := make(map[string]any, len(values))
	for k, v := range values {
		switch tv := v.(type) {
		case []string:
			fields[k] = append([]string(nil), tv...)
		case []Attachment:
			fields[k] = append([]Attachment(nil), tv...)
		default:
			fields[k] = v
		}
	}
	return SourceRecord{fields: fields}
}

// Get returns the raw value for a field.
func (r SourceRecord) Get(name string) (any, bool) {
	v, ok := r.fields[name]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// Has returns true if the record carries a non-nil value for the field.
func (r SourceRecord) Has(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// String returns a string field, or "" if absent or not a string.
func (r SourceRecord) String(name string) string {
	v, ok := r.Get(name)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// Time returns a time field, or the zero time if absent.
func (r SourceRecord) Time(name string) time.Time {
	v, ok := r.Get(name)
	if !ok {
		return time.Time{}
	}
	t, _ := v.(time.Time)
	return t
}

// Attachments returns the attachment metadata list.
func (r SourceRecord) Attachments() []Attachment {
	v, ok := r.Get(FieldAttachments)
	if !ok {
		return nil
	}
	atts, _ := v.([]Attachment)
	return append([]Attachment(nil), atts...)
}

// Fields returns the populated field names in sorted order.
func (r SourceRecord) Fields() []string {
	names := make([]string, 0, len(r.fields))
	for k, v := range r.fields {
		if v != nil {
			names = append(names, k)
		}
	}
	sort.Strings(names)
	return names
}

// FieldCategory groups source fields for display.
type FieldCategory string

// Source field categories.
const (
	CategoryIdentification FieldCategory = "identification"
	CategoryHeader         FieldCategory = "header"
	CategoryContent        FieldCategory = "content"
	CategoryStatus         FieldCategory = "status"
	CategoryAttachment     FieldCategory = "attachment"
	CategoryLink           FieldCategory = "link"
)

// SourceField describes one field a SourceRecord can carry.
type SourceField struct {
	Name     string
	Label    string
	Category FieldCategory
}
