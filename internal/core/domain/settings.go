package domain

import "time"

// Defaults for relation resolution.
const (
	DefaultRelationTimeout  = 3000 * time.Millisecond
	DefaultRelationCacheTTL = 5 * time.Minute
	DefaultRelationPageSize = 10
)

// NotionSettings holds the target database credentials.
type NotionSettings struct {
	APIKey     string
	DatabaseID string
}

// IsConfigured returns true if both the key and database are set.
func (n NotionSettings) IsConfigured() bool {
	return n.APIKey != "" && n.DatabaseID != ""
}

// Validate returns the configuration error that blocks a write, if any.
func (n NotionSettings) Validate() error {
	if n.APIKey == "" {
		return ErrMissingAPIKey
	}
	if n.DatabaseID == "" {
		return ErrMissingDatabase
	}
	return nil
}

// RelationSettings bounds relation lookups.
type RelationSettings struct {
	Timeout  time.Duration
	CacheTTL time.Duration
}

// GmailSettings holds Google OAuth credentials for message retrieval.
type GmailSettings struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	User         string
}

// IsConfigured returns true if a refresh token flow can be built.
func (g GmailSettings) IsConfigured() bool {
	return g.ClientID != "" && g.ClientSecret != "" && g.RefreshToken != ""
}

// AttachmentSettings controls attachment uploads.
type AttachmentSettings struct {
	// DriveFolderID is the Google Drive folder uploads are placed in.
	DriveFolderID string
}

// WriteLogSettings selects the duplicate write guard backend.
type WriteLogSettings struct {
	// Backend is "sqlite" (default) or "redis".
	Backend  string
	RedisURL string
	TTL      time.Duration
}

// AppSettings holds all application settings.
type AppSettings struct {
	Notion      NotionSettings
	Relation    RelationSettings
	Gmail       GmailSettings
	Attachments AttachmentSettings
	WriteLog    WriteLogSettings
}

// DefaultAppSettings returns settings with sensible defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Relation: RelationSettings{
			Timeout:  DefaultRelationTimeout,
			CacheTTL: DefaultRelationCacheTTL,
		},
		Gmail: GmailSettings{
			User: "me",
		},
		WriteLog: WriteLogSettings{
			Backend: "sqlite",
			TTL:     30 * 24 * time.Hour,
		},
	}
}
