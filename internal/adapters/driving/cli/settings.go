package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/oauth2"
	"golang.org/x/term"

	"github.com/custodia-labs/mailpage/internal/adapters/driving/oauth"
	"github.com/custodia-labs/mailpage/internal/connectors/google"
	"github.com/custodia-labs/mailpage/internal/core/domain"
	"github.com/custodia-labs/mailpage/internal/logger"
)

// loginTimeout bounds the browser sign-in.
const loginTimeout = 5 * time.Minute

var settingsGmailLogin bool

// authorize obtains a refresh token for the OAuth client in settings.
var authorize = authorizeGmail

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the Notion integration, Gmail access and write log.

Use subcommands to change specific settings.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsKeyCmd = &cobra.Command{
	Use:   "set-key [api-key]",
	Short: "Set the Notion integration token",
	Long: `Stores the Notion integration token. Without an argument the token is
read from the terminal without echo.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSettingsKey,
}

var settingsDatabaseCmd = &cobra.Command{
	Use:   "set-database <database-id|url>",
	Short: "Set the target Notion database",
	Long: `Stores the database new pages are created in. A database URL copied from
Notion is accepted.`,
	Args: cobra.ExactArgs(1),
	RunE: runSettingsDatabase,
}

var settingsGmailCmd = &cobra.Command{
	Use:   "gmail",
	Short: "Configure Gmail access",
	Long: `Prompts for the OAuth client id, client secret and refresh token used to
read messages from Gmail and upload attachments to Google Drive.

With --login the refresh token is obtained by signing in with a browser. The
OAuth client must be a desktop client that allows loopback redirects.`,
	RunE: runSettingsGmail,
}

func init() {
	settingsGmailCmd.Flags().BoolVar(&settingsGmailLogin, "login", false, "sign in with a browser to obtain the refresh token")
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsKeyCmd)
	settingsCmd.AddCommand(settingsDatabaseCmd)
	settingsCmd.AddCommand(settingsGmailCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Notion]")
	if settings.Notion.APIKey != "" {
		cmd.Printf("  API Key: %s\n", maskAPIKey(settings.Notion.APIKey))
	} else {
		cmd.Printf("  API Key: (not set)\n")
	}
	cmd.Printf("  Database: %s\n", orNotSet(settings.Notion.DatabaseID))
	cmd.Println()

	cmd.Println("[Relations]")
	cmd.Printf("  Lookup timeout: %s\n", settings.Relation.Timeout)
	cmd.Printf("  Cache TTL: %s\n", settings.Relation.CacheTTL)
	cmd.Println()

	cmd.Println("[Gmail]")
	status := "configured"
	if !settings.Gmail.IsConfigured() {
		status = "not configured"
	}
	cmd.Printf("  Status: %s\n", status)
	cmd.Printf("  Client ID: %s\n", orNotSet(settings.Gmail.ClientID))
	cmd.Printf("  User: %s\n", settings.Gmail.User)
	cmd.Printf("  Drive folder: %s\n", orNotSet(settings.Attachments.DriveFolderID))
	cmd.Println()

	cmd.Println("[Write Log]")
	cmd.Printf("  Backend: %s\n", settings.WriteLog.Backend)
	if settings.WriteLog.RedisURL != "" {
		cmd.Printf("  Redis URL: %s\n", settings.WriteLog.RedisURL)
	}
	cmd.Printf("  Retention: %s\n", settings.WriteLog.TTL)
	cmd.Println()

	if err := settings.Notion.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'mailpage settings set-key' and 'mailpage settings set-database'.")
	} else {
		cmd.Println("Configuration is valid.")
	}
	return nil
}

func runSettingsKey(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	var key string
	if len(args) == 1 {
		key = args[0]
	} else {
		cmd.Print("Notion integration token: ")
		key = readSecret(cmd.InOrStdin())
		cmd.Println()
	}

	if err := settingsService.SetAPIKey(key); err != nil {
		return fmt.Errorf("failed to save api key: %w", err)
	}
	cmd.Printf("API key saved: %s\n", maskAPIKey(strings.TrimSpace(key)))
	return nil
}

func runSettingsDatabase(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	if err := settingsService.SetDatabaseID(args[0]); err != nil {
		return fmt.Errorf("failed to save database: %w", err)
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	cmd.Printf("Database set: %s\n", settings.Notion.DatabaseID)
	return nil
}

func runSettingsGmail(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	in := cmd.InOrStdin()
	reader := bufio.NewReader(in)

	cmd.Printf("OAuth client id [%s]: ", settings.Gmail.ClientID)
	if v := readLine(reader); v != "" {
		settings.Gmail.ClientID = v
	}
	cmd.Print("OAuth client secret: ")
	if v := readSecretFrom(in, reader); v != "" {
		settings.Gmail.ClientSecret = v
	}
	cmd.Println()
	if settingsGmailLogin {
		token, err := authorize(cmd, settings.Gmail)
		if err != nil {
			return fmt.Errorf("gmail sign-in failed: %w", err)
		}
		settings.Gmail.RefreshToken = token
	} else {
		cmd.Print("Refresh token: ")
		if v := readSecretFrom(in, reader); v != "" {
			settings.Gmail.RefreshToken = v
		}
		cmd.Println()
	}
	cmd.Printf("Mailbox user [%s]: ", settings.Gmail.User)
	if v := readLine(reader); v != "" {
		settings.Gmail.User = v
	}
	cmd.Printf("Drive folder id for uploads [%s]: ", settings.Attachments.DriveFolderID)
	if v := readLine(reader); v != "" {
		settings.Attachments.DriveFolderID = v
	}

	if !settings.Gmail.IsConfigured() {
		return fmt.Errorf("%w: client id, client secret and refresh token are required", domain.ErrInvalidInput)
	}
	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	cmd.Println("Gmail settings saved.")
	return nil
}

// authorizeGmail runs the loopback authorization code flow with PKCE and
// returns the refresh token Google issues.
func authorizeGmail(cmd *cobra.Command, gmail domain.GmailSettings) (string, error) {
	if gmail.ClientID == "" || gmail.ClientSecret == "" {
		return "", fmt.Errorf("%w: client id and secret are required", domain.ErrInvalidInput)
	}
	state, err := oauth.NewState()
	if err != nil {
		return "", err
	}
	server, err := oauth.Listen(0, state)
	if err != nil {
		return "", err
	}
	defer server.Close()

	cfg := google.OAuthConfig(gmail)
	cfg.RedirectURL = server.RedirectURI()
	verifier := oauth2.GenerateVerifier()
	authURL := cfg.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce,
		oauth2.S256ChallengeOption(verifier))

	cmd.Printf("Open this URL to authorize mailpage:\n  %s\n", authURL)
	if err := oauth.OpenBrowser(authURL); err != nil {
		logger.Debug("could not open browser", "error", err)
	}

	ctx, cancel := context.WithTimeout(commandContext(cmd), loginTimeout)
	defer cancel()
	code, err := server.Wait(ctx)
	if err != nil {
		return "", err
	}
	token, err := cfg.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return "", fmt.Errorf("exchange code: %w", err)
	}
	if token.RefreshToken == "" {
		return "", errors.New("no refresh token issued, revoke mailpage's access and sign in again")
	}
	return token.RefreshToken, nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func readSecret(in io.Reader) string {
	return readSecretFrom(in, bufio.NewReader(in))
}

// readSecretFrom reads without echo when in is a terminal and falls back to
// a plain line read otherwise.
func readSecretFrom(in io.Reader, reader *bufio.Reader) string {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		secret, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return strings.TrimSpace(string(secret))
		}
	}
	return readLine(reader)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func orNotSet(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}
