package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/mailpage/internal/core/domain"
	"github.com/custodia-labs/mailpage/internal/core/ports/driven"
	"github.com/custodia-labs/mailpage/internal/core/ports/driving"
)

var (
	applyEML     bool
	applyDryRun  bool
	applyForce   bool
	applyJSONOut bool
)

var applyCmd = &cobra.Command{
	Use:   "apply <message-id>",
	Short: "Write a message to the configured database",
	Long: `Reads a message and creates a page for it in the configured Notion database
using the saved property mappings.

The argument is a Gmail message id, or with --eml the path of an RFC 822
message file. A message already written to the database is not written
again unless --force is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runApply,
}

func init() {
	applyCmd.Flags().BoolVar(&applyEML, "eml", false, "read the message from an .eml file")
	applyCmd.Flags().BoolVar(&applyDryRun, "dry-run", false, "print the page properties without writing")
	applyCmd.Flags().BoolVar(&applyForce, "force", false, "write even if the message was written before")
	applyCmd.Flags().BoolVar(&applyJSONOut, "json", false, "output as JSON")
	rootCmd.AddCommand(applyCmd)
}

func messageSource() (driven.MessageSource, error) {
	if applyEML {
		if fileSource == nil {
			return nil, errors.New("file source not configured")
		}
		return fileSource, nil
	}
	if gmailSource == nil {
		return nil, fmt.Errorf("%w: gmail is not configured, use --eml or set gmail credentials",
			domain.ErrSourceUnavailable)
	}
	return gmailSource, nil
}

func runApply(cmd *cobra.Command, args []string) error {
	if pageWriter == nil {
		return errors.New("page writer not configured")
	}
	source, err := messageSource()
	if err != nil {
		return err
	}
	ctx := commandContext(cmd)

	record, err := source.Fetch(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to read message: %w", err)
	}

	if applyDryRun {
		payload, err := pageWriter.Preview(ctx, record)
		if err != nil {
			return fmt.Errorf("failed to build page: %w", err)
		}
		return printJSON(cmd, payload)
	}

	page, err := pageWriter.Write(ctx, record, driving.WriteOptions{Force: applyForce})
	if err != nil {
		return fmt.Errorf("failed to write page: %w", err)
	}
	if applyJSONOut {
		return printJSON(cmd, page)
	}
	if page.Existing {
		cmd.Printf("Already written: %s\n", page.URL)
		return nil
	}
	cmd.Printf("Created page: %s\n", page.URL)
	return nil
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
