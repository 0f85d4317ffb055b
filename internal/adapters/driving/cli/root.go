package cli

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/mailpage/internal/core/ports/driven"
	"github.com/custodia-labs/mailpage/internal/core/ports/driving"
	"github.com/custodia-labs/mailpage/internal/logger"
)

var version = "dev"

var verbose bool

// Services bound by the entry point.
var (
	settingsService driving.SettingsService
	configService   driving.ConfigurationService
	pageWriter      driving.PageWriter
	fieldCatalog    driving.FieldCatalog
	transformations driving.TransformationCatalog
	gmailSource     driven.MessageSource
	fileSource      driven.MessageSource
)

// Services holds the services the commands operate on. Any of them may be
// nil; commands that need a missing one fail with a configuration error.
type Services struct {
	Settings        driving.SettingsService
	Configuration   driving.ConfigurationService
	Writer          driving.PageWriter
	Fields          driving.FieldCatalog
	Transformations driving.TransformationCatalog
	Gmail           driven.MessageSource
	Files           driven.MessageSource
}

// SetServices binds the services used by all commands.
func SetServices(s Services) {
	settingsService = s.Settings
	configService = s.Configuration
	pageWriter = s.Writer
	fieldCatalog = s.Fields
	transformations = s.Transformations
	gmailSource = s.Gmail
	fileSource = s.Files
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

var rootCmd = &cobra.Command{
	Use:   "mailpage",
	Short: "Copy email messages into a Notion database",
	Long: `mailpage turns email messages into pages of a Notion database.

Each database property is filled from a message field according to a saved
mapping. Configure the integration key and database with 'mailpage settings',
review the mapping with 'mailpage mappings show', then write a message with
'mailpage apply'.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command until it finishes or the process is
// interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

// commandContext returns the command's context, or a background context when
// the command was executed without one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
