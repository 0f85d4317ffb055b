package notion

import (
	"testing"
	"time"

	"github.com/jomei/notionapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/mailpage/internal/core/domain"
)

func TestPropertyFilter_Text(t *testing.T) {
	pf, err := propertyFilter(domain.RelationFilter{
		Property: "Email", PropertyType: domain.FieldTypeEmail,
		Operator: domain.FilterContains, Value: "ann@example.com",
	})

	require.NoError(t, err)
	assert.Equal(t, "Email", pf.Property)
	require.NotNil(t, pf.RichText)
	assert.Equal(t, "ann@example.com", pf.RichText.Contains)
	assert.Empty(t, pf.RichText.Equals)
}

func TestPropertyFilter_Scalars(t *testing.T) {
	pf, err := propertyFilter(domain.RelationFilter{
		Property: "Score", PropertyType: domain.FieldTypeNumber, Operator: domain.FilterEquals, Value: 4.5,
	})
	require.NoError(t, err)
	require.NotNil(t, pf.Number)
	assert.InDelta(t, 4.5, *pf.Number.Equals, 0)

	pf, err = propertyFilter(domain.RelationFilter{
		Property: "VIP", PropertyType: domain.FieldTypeCheckbox, Operator: domain.FilterEquals, Value: false,
	})
	require.NoError(t, err)
	require.NotNil(t, pf.Checkbox)
	assert.True(t, pf.Checkbox.DoesNotEqual)

	pf, err = propertyFilter(domain.RelationFilter{
		Property: "Stage", PropertyType: domain.FieldTypeStatus, Operator: domain.FilterEquals, Value: "Open",
	})
	require.NoError(t, err)
	require.NotNil(t, pf.Status)
	assert.Equal(t, "Open", pf.Status.Equals)

	pf, err = propertyFilter(domain.RelationFilter{
		Property: "Tags", PropertyType: domain.FieldTypeMultiSelect, Operator: domain.FilterContains, Value: "vip",
	})
	require.NoError(t, err)
	require.NotNil(t, pf.MultiSelect)
	assert.Equal(t, "vip", pf.MultiSelect.Contains)
}

func TestPropertyFilter_Date(t *testing.T) {
	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	pf, err := propertyFilter(domain.RelationFilter{
		Property: "Since", PropertyType: domain.FieldTypeDate, Operator: domain.FilterDateEquals, Value: day,
	})

	require.NoError(t, err)
	require.NotNil(t, pf.Date)
	assert.Equal(t, notionapi.Date(day), *pf.Date.Equals)
}

func TestPropertyFilter_Errors(t *testing.T) {
	_, err := propertyFilter(domain.RelationFilter{Property: "P", PropertyType: domain.FieldTypeFiles, Value: "x"})
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)

	_, err = propertyFilter(domain.RelationFilter{Property: "P", PropertyType: domain.FieldTypeNumber, Value: "7"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = propertyFilter(domain.RelationFilter{Property: "P", PropertyType: domain.FieldTypeSelect, Value: ""})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
