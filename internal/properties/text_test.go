package properties

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/mailpage/internal/core/domain"
)

func TestText_Title(t *testing.T) {
	env := newTestEnv()
	entry := domain.MappingEntry{Type: domain.FieldTypeTitle, Enabled: true, SourceField: domain.FieldSubject, Transformation: "strip_prefixes"}

	frag, err := env.registry.GetHandler(domain.FieldTypeTitle).ToPayload(context.Background(), entry, sampleRecord(), "")

	require.NoError(t, err)
	assert.Equal(t, domain.Fragment{"title": []any{
		map[string]any{"type": "text", "text": map[string]any{"content": "Quarterly numbers"}},
	}}, frag)
}

func TestText_RichTextBlankIsNil(t *testing.T) {
	env := newTestEnv()
	record := domain.NewSourceRecord(map[string]any{domain.FieldBody: "  \n "})
	entry := domain.MappingEntry{Type: domain.FieldTypeText, Enabled: true, SourceField: domain.FieldBody}

	frag, err := env.registry.GetHandler(domain.FieldTypeText).ToPayload(context.Background(), entry, record, "")

	require.NoError(t, err)
	assert.Nil(t, frag)
}

func TestText_LongValuesAreChunked(t *testing.T) {
	env := newTestEnv()

	for _, n := range []int{1, 1999, 2000, 2001, 4000, 4500, 10001} {
		body := strings.Repeat("é", n)
		record := domain.NewSourceRecord(map[string]any{domain.FieldBody: body})
		entry := domain.MappingEntry{Type: domain.FieldTypeText, Enabled: true, SourceField: domain.FieldBody}

		frag, err := env.registry.GetHandler(domain.FieldTypeText).ToPayload(context.Background(), entry, record, "")
		require.NoError(t, err)

		runs, ok := frag["rich_text"].([]any)
		require.True(t, ok)
		assert.Len(t, runs, (n+domain.MaxTextRun-1)/domain.MaxTextRun, n)

		var rebuilt strings.Builder
		for _, run := range runs {
			content := run.(map[string]any)["text"].(map[string]any)["content"].(string)
			assert.LessOrEqual(t, len([]rune(content)), domain.MaxTextRun)
			rebuilt.WriteString(content)
		}
		assert.Equal(t, body, rebuilt.String())
	}
}
