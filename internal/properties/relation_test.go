package properties

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/mailpage/internal/core/domain"
)

func TestRelation_BuildConfigurationUI(t *testing.T) {
	env := newTestEnv()

	widgets := env.registry.GetHandler(domain.FieldTypeRelation).BuildConfigurationUI(relationTarget(), domain.MappingEntry{})

	require.Len(t, widgets, 5)
	match := widgets[2]
	assert.Equal(t, "rel.match_field", match.Name)
	assert.Equal(t, []domain.Option{
		{Label: "Name (Title)", Value: "Name"},
		{Label: "Email (Email)", Value: "Email"},
	}, match.Options)
	assert.Equal(t, "rel.match_source", widgets[3].Name)
	assert.Equal(t, domain.FieldFrom, widgets[3].Value)
	assert.Equal(t, "rel.match_transform", widgets[4].Name)
}

func TestRelation_BuildConfigurationUI_Placeholders(t *testing.T) {
	env := newTestEnv()
	env.api.schema = nil

	widgets := env.registry.GetHandler(domain.FieldTypeRelation).BuildConfigurationUI(relationTarget(), domain.MappingEntry{})

	require.Len(t, widgets, 6)
	assert.Equal(t, domain.WidgetHint, widgets[2].Kind)
	assert.Len(t, widgets[3].Options, 4)
}

func TestRelation_ParseConfiguration(t *testing.T) {
	env := newTestEnv()

	entry := env.registry.GetHandler(domain.FieldTypeRelation).ParseConfiguration(relationTarget(), domain.FormInput{
		"rel.enabled":         {"on"},
		"rel.match_field":     {"email"},
		"rel.match_source":    {domain.FieldFrom},
		"rel.match_transform": {"extract_email"},
	})

	assert.Equal(t, domain.MappingEntry{
		Type:                domain.FieldTypeRelation,
		Enabled:             true,
		MatchField:          "Email",
		MatchSourceField:    domain.FieldFrom,
		MatchTransformation: "extract_email",
		MatchFieldType:      domain.FieldTypeEmail,
		LinkedDatabaseID:    linkedDB,
	}, entry)
}

func TestRelation_CheckedButIncompleteIsDisabled(t *testing.T) {
	env := newTestEnv()
	h := env.registry.GetHandler(domain.FieldTypeRelation)

	entry := h.ParseConfiguration(relationTarget(), domain.FormInput{
		"rel.enabled":     {"on"},
		"rel.match_field": {"Email"},
	})
	assert.False(t, entry.Enabled)

	entry = h.ParseConfiguration(relationTarget(), domain.FormInput{
		"rel.enabled":      {"on"},
		"rel.match_source": {domain.FieldFrom},
	})
	assert.False(t, entry.Enabled)
}

func TestRelation_Payload(t *testing.T) {
	env := newTestEnv()
	env.api.results = []string{"p1", "p2"}

	frag, err := env.registry.GetHandler(domain.FieldTypeRelation).ToPayload(
		context.Background(), configured()[domain.FieldTypeRelation], sampleRecord(), "secret")

	require.NoError(t, err)
	assert.Equal(t, domain.Fragment{"relation": []any{
		map[string]any{"id": "p1"}, map[string]any{"id": "p2"},
	}}, frag)
	require.Len(t, env.api.filters, 1)
	assert.Equal(t, "ada@example.com", env.api.filters[0].Value)
}

func TestRelation_NoMatchesIsNil(t *testing.T) {
	env := newTestEnv()
	env.api.results = nil

	frag, err := env.registry.GetHandler(domain.FieldTypeRelation).ToPayload(
		context.Background(), configured()[domain.FieldTypeRelation], sampleRecord(), "secret")

	require.NoError(t, err)
	assert.Nil(t, frag)
}
