package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Show the properties of the configured database",
	RunE:  runSchema,
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}

func runSchema(cmd *cobra.Command, _ []string) error {
	if configService == nil {
		return errors.New("configuration service not configured")
	}

	schema, err := configService.Schema(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("failed to fetch schema: %w", err)
	}

	title := schema.Title
	if title == "" {
		title = schema.DatabaseID
	}
	cmd.Printf("%s\n\n", propertyStyle.Render(title))

	rows := make([][]string, 0, len(schema.Fields))
	for _, f := range schema.Fields {
		note := ""
		switch {
		case f.Type.IsAutoManaged():
			note = "computed"
		case !f.Type.IsWritable():
			note = "unsupported"
		case f.Required:
			note = "required"
		}
		rows = append(rows, []string{f.Name, f.Type.Label(), f.ID, note})
	}
	cmd.Println(renderTable([]string{"NAME", "TYPE", "ID", "NOTE"}, rows))
	return nil
}
