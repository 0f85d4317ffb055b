package domain

import (
	"sort"
	"time"
	"unicode/utf16"
)

// MaxTextRun is the longest content a single text run may carry, counted
// in UTF-16 code units as the Notion API counts it.
const MaxTextRun = 2000

// Fragment is the wire value of one property, e.g. {"email": "a@b.com"}.
type Fragment = map[string]any

// Payload maps target property ids to their fragments.
type Payload map[string]any

// Keys returns the payload's property ids, sorted.
func (p Payload) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// TextRuns splits s into text runs of at most MaxTextRun UTF-16 units.
// A surrogate pair is never split and the runs concatenate back to s.
func TextRuns(s string) []any {
	var runs []any
	var run []rune
	units := 0
	flush := func() {
		if len(run) == 0 {
			return
		}
		runs = append(runs, map[string]any{
			"type": "text",
			"text": map[string]any{"content": string(run)},
		})
		run = run[:0]
		units = 0
	}
	for _, r := range s {
		n := utf16.RuneLen(r)
		if n < 0 {
			// invalid runes are re-encoded as U+FFFD
			n = 1
		}
		if units+n > MaxTextRun {
			flush()
		}
		run = append(run, r)
		units += n
	}
	flush()
	if runs == nil {
		return []any{}
	}
	return runs
}

// PageRef identifies a page created in the target database.
type PageRef struct {
	ID  string
	URL string
	// Existing is true when the page was written earlier and the write was skipped.
	Existing  bool
	CreatedAt time.Time
}

// Member is a workspace user selectable in a people property.
type Member struct {
	ID    string
	Name  string
	Email string
}

// FileRef is an externally hosted file attached to a files property.
type FileRef struct {
	Name string
	URL  string
}

// AttachmentContext identifies the message that owns a set of attachments.
type AttachmentContext struct {
	MessageID string
	ThreadID  string
	Link      string
}

// FilterOperator selects how a relation match value is compared.
type FilterOperator string

// Relation filter operators.
const (
	FilterEquals     FilterOperator = "equals"
	FilterContains   FilterOperator = "contains"
	FilterDateEquals FilterOperator = "date_equals"
)

// RelationFilter is a single-property query against a linked database.
// Value is a string, float64, bool or time.Time depending on PropertyType.
type RelationFilter struct {
	Property     string
	PropertyType FieldType
	Operator     FilterOperator
	Value        any
}
