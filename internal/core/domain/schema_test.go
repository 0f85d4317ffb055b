package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldType_Classification(t *testing.T) {
	for _, ft := range WritableFieldTypes() {
		assert.True(t, ft.IsWritable(), ft)
		assert.False(t, ft.IsAutoManaged(), ft)
		assert.NotEqual(t, string(ft), ft.Label(), ft)
	}
	for _, ft := range AutoManagedFieldTypes() {
		assert.True(t, ft.IsAutoManaged(), ft)
		assert.False(t, ft.IsWritable(), ft)
	}

	unknown := FieldType("button")
	assert.False(t, unknown.IsWritable())
	assert.False(t, unknown.IsAutoManaged())
	assert.Equal(t, "button", unknown.Label())

	assert.True(t, FieldTypePeople.IsStaticOption())
	assert.False(t, FieldTypeRelation.IsStaticOption())
}

func TestTargetField_Options(t *testing.T) {
	nested := TargetField{Type: FieldTypeSelect, Config: map[string]any{
		"select": map[string]any{"options": []any{
			map[string]any{"id": "o1", "name": "Open", "color": "green"},
			map[string]any{"id": "o2"},
			"bogus",
		}},
	}}
	flat := TargetField{Type: FieldTypeStatus, Config: map[string]any{
		"options": []any{map[string]any{"name": "Done"}},
	}}

	assert.Equal(t, []SelectOption{{ID: "o1", Name: "Open", Color: "green"}}, nested.Options())
	assert.Equal(t, []SelectOption{{Name: "Done"}}, flat.Options())
	assert.Nil(t, TargetField{Type: FieldTypeSelect}.Options())
}

func TestTargetSchema_Lookup(t *testing.T) {
	s := &TargetSchema{Fields: []TargetField{
		{ID: "title", Name: "Subject", Type: FieldTypeTitle},
		{ID: "m%3A", Name: "From", Type: FieldTypeEmail},
	}}

	f, ok := s.Lookup("m%3A")
	require.True(t, ok)
	assert.Equal(t, "From", f.Name)

	f, ok = s.Lookup("From")
	require.True(t, ok)
	assert.Equal(t, "m%3A", f.ID)

	_, ok = s.Lookup("P1")
	assert.False(t, ok)

	title, ok := s.TitleField()
	require.True(t, ok)
	assert.Equal(t, "title", title.ID)

	_, ok = (&TargetSchema{}).TitleField()
	assert.False(t, ok)
}

func TestDeriveRequired(t *testing.T) {
	in := []TargetField{
		{ID: "t", Name: "Subject", Type: FieldTypeTitle},
		{ID: "n", Name: " name ", Type: FieldTypeText},
		{ID: "x", Name: "Notes", Type: FieldTypeText},
	}

	out := DeriveRequired(in)

	assert.True(t, out[0].Required)
	assert.True(t, out[1].Required)
	assert.False(t, out[2].Required)
	assert.False(t, in[0].Required)
}
