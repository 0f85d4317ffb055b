package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileMode_IsValid(t *testing.T) {
	assert.True(t, FileModeUpload.IsValid())
	assert.True(t, FileModeLink.IsValid())
	assert.True(t, FileModeSkip.IsValid())
	assert.False(t, FileMode("").IsValid())
	assert.False(t, FileMode("copy").IsValid())
}

func TestMappingSet_OrderAndReplace(t *testing.T) {
	s := NewMappingSet()
	s.Set("b", MappingEntry{Type: FieldTypeText})
	s.Set("a", MappingEntry{Type: FieldTypeTitle})
	s.Set("b", MappingEntry{Type: FieldTypeText, Enabled: true})

	assert.Equal(t, []string{"b", "a"}, s.Keys())
	assert.Equal(t, 2, s.Len())
	e, ok := s.Get("b")
	require.True(t, ok)
	assert.True(t, e.Enabled)

	s.Delete("b")
	s.Delete("missing")
	assert.Equal(t, []string{"a"}, s.Keys())
}

func TestMappingSet_ZeroAndNil(t *testing.T) {
	var zero MappingSet
	zero.Set("a", MappingEntry{})
	assert.Equal(t, 1, zero.Len())

	var nilSet *MappingSet
	_, ok := nilSet.Get("a")
	assert.False(t, ok)
	assert.Zero(t, nilSet.Len())
	assert.Nil(t, nilSet.Keys())
	assert.Equal(t, 0, nilSet.Clone().Len())
}

func TestMappingSet_CloneIsDeep(t *testing.T) {
	s := NewMappingSet()
	s.Set("tags", MappingEntry{Type: FieldTypeMultiSelect, StaticValues: []string{"a"}})

	c := s.Clone()
	e, _ := c.Get("tags")
	e.StaticValues[0] = "changed"

	orig, _ := s.Get("tags")
	assert.Equal(t, []string{"a"}, orig.StaticValues)
}

func TestMappingSet_MergeIsAdditive(t *testing.T) {
	current := NewMappingSet()
	current.Set("title", MappingEntry{Type: FieldTypeTitle, SourceField: FieldSubject})
	current.Set("mail", MappingEntry{Type: FieldTypeEmail, SourceField: FieldFrom})
	update := NewMappingSet()
	update.Set("mail", MappingEntry{Type: FieldTypeEmail, SourceField: FieldTo})
	update.Set("notes", MappingEntry{Type: FieldTypeText, SourceField: FieldBody})

	merged := current.Merge(update)

	assert.Equal(t, []string{"title", "mail", "notes"}, merged.Keys())
	mail, _ := merged.Get("mail")
	assert.Equal(t, FieldTo, mail.SourceField)
	orig, _ := current.Get("mail")
	assert.Equal(t, FieldFrom, orig.SourceField)
	assert.Equal(t, 2, current.Merge(nil).Len())
}

func TestMappingSet_JSONKeepsOrder(t *testing.T) {
	s := NewMappingSet()
	s.Set("z", MappingEntry{Type: FieldTypeTitle, Enabled: true, SourceField: FieldSubject})
	s.Set("a", MappingEntry{Type: FieldTypeDate, Enabled: true, SourceField: FieldDate})

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Regexp(t, `^\{"z":.*"a":`, string(data))

	var back MappingSet
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, []string{"z", "a"}, back.Keys())
	e, _ := back.Get("a")
	assert.Equal(t, FieldDate, e.SourceField)
}

func TestMappingSet_UnmarshalErrors(t *testing.T) {
	var s MappingSet

	assert.Error(t, json.Unmarshal([]byte(`[]`), &s))
	assert.Error(t, json.Unmarshal([]byte(`{"a": 1}`), &s))
	require.NoError(t, json.Unmarshal([]byte(`null`), &s))
	assert.Zero(t, s.Len())
}
