package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/mailpage/internal/core/domain"
)

var fieldsCmd = &cobra.Command{
	Use:   "fields [type]",
	Short: "List message fields that can fill a property type",
	Long: `Lists the message fields compatible with a Notion property type.
Without a type, lists the fields for every type that reads a message field.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFields,
}

var transformsCmd = &cobra.Command{
	Use:   "transforms <type>",
	Short: "List transformations available for a property type",
	Args:  cobra.ExactArgs(1),
	RunE:  runTransforms,
}

func init() {
	rootCmd.AddCommand(fieldsCmd)
	rootCmd.AddCommand(transformsCmd)
}

// parseFieldType accepts a property type by value or label.
func parseFieldType(s string) (domain.FieldType, error) {
	for _, t := range domain.WritableFieldTypes() {
		if strings.EqualFold(s, string(t)) || strings.EqualFold(s, t.Label()) {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedType, s)
}

func runFields(cmd *cobra.Command, args []string) error {
	if fieldCatalog == nil {
		return errors.New("field catalog not configured")
	}

	types := sourcedTypes()
	if len(args) == 1 {
		t, err := parseFieldType(args[0])
		if err != nil {
			return err
		}
		types = []domain.FieldType{t}
	}

	var b strings.Builder
	for i, t := range types {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s (%s)\n", propertyStyle.Render(t.Label()), t)
		fields := fieldCatalog.FieldsFor(t)
		if len(fields) == 0 {
			b.WriteString(sectionStyle.Render(hintStyle.Render("(set directly, no message field)")) + "\n")
			continue
		}
		rec, hasRec := fieldCatalog.Recommend(t)
		rows := make([][]string, 0, len(fields))
		for _, f := range fields {
			mark := ""
			if hasRec && rec.Name == f.Name {
				mark = "recommended"
			}
			rows = append(rows, []string{f.Name, f.Label, string(f.Category), mark})
		}
		b.WriteString(sectionStyle.Render(renderTable(nil, rows)) + "\n")
	}
	cmd.Print(b.String())
	return nil
}

// sourcedTypes returns the writable types that read a message field.
func sourcedTypes() []domain.FieldType {
	var out []domain.FieldType
	for _, t := range domain.WritableFieldTypes() {
		if !t.IsStaticOption() {
			out = append(out, t)
		}
	}
	return out
}

func runTransforms(cmd *cobra.Command, args []string) error {
	if transformations == nil {
		return errors.New("transformations not configured")
	}
	t, err := parseFieldType(args[0])
	if err != nil {
		return err
	}

	options := transformations.OptionsFor(t)
	if len(options) == 0 {
		cmd.Printf("No transformations for %s.\n", t.Label())
		return nil
	}
	rows := make([][]string, 0, len(options))
	for _, o := range options {
		value := o.Value
		if value == "" {
			value = "(none)"
		}
		rows = append(rows, []string{value, o.Label})
	}
	cmd.Println(renderTable(nil, rows))
	return nil
}
