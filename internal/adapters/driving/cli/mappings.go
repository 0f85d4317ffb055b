package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/mailpage/internal/core/domain"
	"github.com/custodia-labs/mailpage/internal/core/ports/driving"
)

var mappingsJSON bool

var mappingsCmd = &cobra.Command{
	Use:   "mappings",
	Short: "Show and edit property mappings",
	Long: `Property mappings decide which message field fills each property of the
configured Notion database.`,
	RunE: runMappingsShow,
}

var mappingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the mapping form for every property",
	RunE:  runMappingsShow,
}

var mappingsSetCmd = &cobra.Command{
	Use:   "set <property.control=value>...",
	Short: "Change property mappings",
	Long: `Change one or more controls of the mapping form.

Properties are addressed by id or name, controls by the key shown in
'mappings show'. Multiple values are separated by commas.

Examples:
  mailpage mappings set Name.source=subject Name.transform=strip_prefixes
  mailpage mappings set Tags.enabled=true Tags.static=urgent,follow-up`,
	Args: cobra.MinimumNArgs(1),
	RunE: runMappingsSet,
}

var mappingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the saved mappings of the configured database",
	RunE:  runMappingsReset,
}

func init() {
	mappingsShowCmd.Flags().BoolVar(&mappingsJSON, "json", false, "output the saved mapping set as JSON")
	mappingsCmd.AddCommand(mappingsShowCmd)
	mappingsCmd.AddCommand(mappingsSetCmd)
	mappingsCmd.AddCommand(mappingsResetCmd)
	rootCmd.AddCommand(mappingsCmd)
}

func runMappingsShow(cmd *cobra.Command, _ []string) error {
	if configService == nil {
		return errors.New("configuration service not configured")
	}
	ctx := commandContext(cmd)

	if mappingsJSON {
		set, err := configService.Mappings(ctx)
		if err != nil {
			return fmt.Errorf("failed to load mappings: %w", err)
		}
		return printJSON(cmd, set)
	}

	forms, err := configService.BuildForm(ctx)
	if err != nil {
		return fmt.Errorf("failed to build mapping form: %w", err)
	}
	if len(forms) == 0 {
		cmd.Println("The database has no properties that can be mapped.")
		return nil
	}
	cmd.Print(renderForms(forms))
	return nil
}

func runMappingsSet(cmd *cobra.Command, args []string) error {
	if configService == nil {
		return errors.New("configuration service not configured")
	}
	ctx := commandContext(cmd)

	forms, err := configService.BuildForm(ctx)
	if err != nil {
		return fmt.Errorf("failed to build mapping form: %w", err)
	}
	input, err := buildInput(forms, args)
	if err != nil {
		return err
	}

	set, err := configService.Save(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to save mappings: %w", err)
	}
	cmd.Printf("Saved mappings for %d properties.\n", set.Len())
	return nil
}

func runMappingsReset(cmd *cobra.Command, _ []string) error {
	if configService == nil {
		return errors.New("configuration service not configured")
	}
	if err := configService.Reset(commandContext(cmd)); err != nil {
		return fmt.Errorf("failed to reset mappings: %w", err)
	}
	cmd.Println("Mappings reset.")
	return nil
}

// buildInput starts each property named in args from its current form
// values and applies the assignments on top.
func buildInput(forms []driving.FieldForm, args []string) (domain.FormInput, error) {
	input := domain.FormInput{}
	seeded := make(map[string]bool)

	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("%w: expected property.control=value, got %q", domain.ErrInvalidInput, arg)
		}
		dot := strings.LastIndex(key, ".")
		if dot <= 0 || dot == len(key)-1 {
			return nil, fmt.Errorf("%w: expected property.control, got %q", domain.ErrInvalidInput, key)
		}
		prop, control := key[:dot], key[dot+1:]

		form, ok := findForm(forms, prop)
		if !ok {
			return nil, fmt.Errorf("%w: property %q", domain.ErrNotFound, prop)
		}
		if !seeded[form.Field.ID] {
			for k, v := range formValues(form) {
				input[k] = v
			}
			seeded[form.Field.ID] = true
		}
		input[domain.FieldKey(form.Field.ID, control)] = []string{value}
	}
	return input, nil
}

// findForm matches a property by id, then by case-insensitive name.
func findForm(forms []driving.FieldForm, prop string) (driving.FieldForm, bool) {
	for _, f := range forms {
		if f.Field.ID == prop {
			return f, true
		}
	}
	for _, f := range forms {
		if strings.EqualFold(f.Field.Name, prop) {
			return f, true
		}
	}
	return driving.FieldForm{}, false
}
