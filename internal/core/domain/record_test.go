package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSourceRecord_Accessors(t *testing.T) {
	when := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	r := NewSourceRecord(map[string]any{
		FieldSubject:   "Hello",
		FieldDate:      when,
		FieldIsStarred: true,
		FieldCc:        nil,
	})

	assert.Equal(t, "Hello", r.String(FieldSubject))
	assert.Equal(t, when, r.Time(FieldDate))
	assert.True(t, r.Has(FieldIsStarred))
	assert.False(t, r.Has(FieldCc))
	assert.Equal(t, "", r.String(FieldIsStarred))
	assert.True(t, r.Time(FieldSubject).IsZero())
	assert.Equal(t, []string{FieldDate, FieldIsStarred, FieldSubject}, r.Fields())
}

func TestSourceRecord_IsImmutable(t *testing.T) {
	labels := []string{"INBOX"}
	atts := []Attachment{{ID: "part-1", Name: "a.pdf"}}
	values := map[string]any{FieldLabels: labels, FieldAttachments: atts}
	r := NewSourceRecord(values)

	labels[0] = "CHANGED"
	atts[0].Name = "changed.pdf"
	values[FieldSubject] = "late"

	got, _ := r.Get(FieldLabels)
	assert.Equal(t, []string{"INBOX"}, got)
	assert.Equal(t, "a.pdf", r.Attachments()[0].Name)
	assert.False(t, r.Has(FieldSubject))

	r.Attachments()[0].Name = "mutated"
	assert.Equal(t, "a.pdf", r.Attachments()[0].Name)
}

func TestSourceRecord_Zero(t *testing.T) {
	var r SourceRecord

	assert.False(t, r.Has(FieldSubject))
	assert.Nil(t, r.Attachments())
	assert.Empty(t, r.Fields())
}
