package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/mailpage/internal/catalog"
	"github.com/custodia-labs/mailpage/internal/core/domain"
	"github.com/custodia-labs/mailpage/internal/transforms"
)

func TestParseFieldType(t *testing.T) {
	tests := []struct {
		input string
		want  domain.FieldType
	}{
		{"title", domain.FieldTypeTitle},
		{"rich_text", domain.FieldTypeText},
		{"Text", domain.FieldTypeText},
		{"PHONE_NUMBER", domain.FieldTypePhone},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseFieldType(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := parseFieldType("formula")
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}

func TestFieldsCmd_Type(t *testing.T) {
	bindServices(t, Services{Fields: catalog.New()})

	out, err := run(t, "", "fields", "email")

	require.NoError(t, err)
	assert.Contains(t, out, "Email (email)")
	assert.Contains(t, out, domain.FieldFrom)
	assert.Contains(t, out, "recommended")
	assert.NotContains(t, out, domain.FieldSubject)
}

func TestFieldsCmd_All(t *testing.T) {
	bindServices(t, Services{Fields: catalog.New()})

	out, err := run(t, "", "fields")

	require.NoError(t, err)
	assert.Contains(t, out, "Title (title)")
	assert.Contains(t, out, "Checkbox (checkbox)")
	assert.NotContains(t, out, "Select (select)")
	assert.NotContains(t, out, domain.FieldMessageLink)
}

func TestFieldsCmd_UnknownType(t *testing.T) {
	bindServices(t, Services{Fields: catalog.New()})

	_, err := run(t, "", "fields", "rollup")

	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}

func TestTransformsCmd(t *testing.T) {
	bindServices(t, Services{Transformations: transforms.New()})

	out, err := run(t, "", "transforms", "phone_number")

	require.NoError(t, err)
	assert.Contains(t, out, transforms.None)
	assert.Contains(t, out, "extract_phone")
	assert.Contains(t, out, "digits_only")
	assert.NotContains(t, out, "uppercase")
}

func TestTransformsCmd_NotConfigured(t *testing.T) {
	bindServices(t, Services{})

	_, err := run(t, "", "transforms", "title")

	assert.EqualError(t, err, "transformations not configured")
}

func TestSchemaCmd(t *testing.T) {
	cfg := &fakeConfiguration{schema: &domain.TargetSchema{
		DatabaseID: "db-1",
		Title:      "Inbox",
		Fields: []domain.TargetField{
			{ID: "title", Name: "Name", Type: domain.FieldTypeTitle, Required: true},
			{ID: "f1", Name: "Score", Type: domain.FieldTypeFormula},
			{ID: "b1", Name: "Buttons", Type: "button"},
		},
	}}
	bindServices(t, Services{Configuration: cfg})

	out, err := run(t, "", "schema")

	require.NoError(t, err)
	assert.Contains(t, out, "Inbox")
	assert.Regexp(t, `Name\s+Title\s+title\s+required`, out)
	assert.Regexp(t, `Score\s+Formula\s+f1\s+computed`, out)
	assert.Regexp(t, `Buttons\s+button\s+b1\s+unsupported`, out)
}

func TestSchemaCmd_ConfigError(t *testing.T) {
	bindServices(t, Services{Configuration: &fakeConfiguration{err: domain.ErrMissingAPIKey}})

	_, err := run(t, "", "schema")

	assert.ErrorIs(t, err, domain.ErrMissingAPIKey)
}

func TestRenderTable_AlignsColumns(t *testing.T) {
	out := renderTable([]string{"NAME", "NOTE"}, [][]string{
		{"a", "long-value"},
		{"longer", "x"},
	})

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "NAME"))
	col := strings.Index(lines[0], "NOTE")
	assert.Equal(t, col, strings.Index(lines[1], "long-value"))
	assert.Equal(t, col, strings.Index(lines[2], "x"))
	assert.Greater(t, col, len("longer"))
}
