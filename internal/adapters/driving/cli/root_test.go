package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/mailpage/internal/core/domain"
	"github.com/custodia-labs/mailpage/internal/core/ports/driving"
)

// bindServices binds s for the duration of the test.
func bindServices(t *testing.T, s Services) {
	t.Helper()
	SetServices(s)
	t.Cleanup(func() { SetServices(Services{}) })
}

// run executes the root command with args and returns everything it wrote.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		applyEML, applyDryRun, applyForce, applyJSONOut = false, false, false, false
		mappingsJSON = false
		settingsGmailLogin = false
		verbose = false
	})

	err := rootCmd.Execute()
	return buf.String(), err
}

type fakeConfiguration struct {
	schema *domain.TargetSchema
	set    *domain.MappingSet
	forms  []driving.FieldForm
	err    error
	saved  domain.FormInput
	reset  bool
}

func (f *fakeConfiguration) Schema(context.Context) (*domain.TargetSchema, error) {
	return f.schema, f.err
}

func (f *fakeConfiguration) Mappings(context.Context) (*domain.MappingSet, error) {
	return f.set, f.err
}

func (f *fakeConfiguration) BuildForm(context.Context) ([]driving.FieldForm, error) {
	return f.forms, f.err
}

func (f *fakeConfiguration) Save(_ context.Context, input domain.FormInput) (*domain.MappingSet, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.saved = input
	return f.set, nil
}

func (f *fakeConfiguration) Reset(context.Context) error {
	f.reset = true
	return f.err
}

type fakeWriter struct {
	page    *domain.PageRef
	payload domain.Payload
	err     error
	opts    driving.WriteOptions
	record  domain.SourceRecord
	writes  int
}

func (f *fakeWriter) Preview(_ context.Context, record domain.SourceRecord) (domain.Payload, error) {
	f.record = record
	return f.payload, f.err
}

func (f *fakeWriter) Write(_ context.Context, record domain.SourceRecord, opts driving.WriteOptions) (*domain.PageRef, error) {
	f.record = record
	f.opts = opts
	f.writes++
	return f.page, f.err
}

type fakeSource struct {
	records map[string]domain.SourceRecord
}

func (f *fakeSource) Fetch(_ context.Context, id string) (domain.SourceRecord, error) {
	r, ok := f.records[id]
	if !ok {
		return domain.SourceRecord{}, domain.ErrNotFound
	}
	return r, nil
}

func TestRootCmd_RegistersCommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, want := range []string{"apply", "fields", "transforms", "mappings", "schema", "settings", "version"} {
		assert.True(t, names[want], want)
	}
}

func TestSetVersion(t *testing.T) {
	original := version
	defer func() { version = original }()

	SetVersion("")
	assert.Equal(t, original, version)

	SetVersion("1.2.3")
	assert.Equal(t, "1.2.3", version)
}

func TestCommandContext_Default(t *testing.T) {
	ctx := commandContext(&cobra.Command{})

	require.NotNil(t, ctx)
}
