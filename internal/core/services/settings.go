package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/mailpage/internal/core/domain"
	"github.com/custodia-labs/mailpage/internal/core/ports/driven"
	"github.com/custodia-labs/mailpage/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	KeyNotionAPIKey      = "notion.api_key"
	KeyNotionDatabaseID  = "notion.database_id"
	KeyRelationTimeoutMS = "relation.timeout_ms"
	KeyRelationCacheTTL  = "relation.cache_ttl_seconds"
	KeyGmailClientID     = "gmail.client_id"
	KeyGmailClientSecret = "gmail.client_secret"
	KeyGmailRefreshToken = "gmail.refresh_token"
	KeyGmailUser         = "gmail.user"
	KeyDriveFolderID     = "attachments.drive_folder_id"
	KeyWriteLogBackend   = "writelog.backend"
	KeyWriteLogRedisURL  = "writelog.redis_url"
	KeyWriteLogTTLHours  = "writelog.ttl_hours"
)

// Write log backends.
const (
	WriteLogSQLite = "sqlite"
	WriteLogRedis  = "redis"
	WriteLogNone   = "none"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Notion: domain.NotionSettings{
			APIKey:     strings.TrimSpace(s.configStore.GetString(KeyNotionAPIKey)),
			DatabaseID: strings.TrimSpace(s.configStore.GetString(KeyNotionDatabaseID)),
		},
		Relation: domain.RelationSettings{
			Timeout:  s.getDuration(KeyRelationTimeoutMS, time.Millisecond, defaults.Relation.Timeout),
			CacheTTL: s.getDuration(KeyRelationCacheTTL, time.Second, defaults.Relation.CacheTTL),
		},
		Gmail: domain.GmailSettings{
			ClientID:     s.configStore.GetString(KeyGmailClientID),
			ClientSecret: s.configStore.GetString(KeyGmailClientSecret),
			RefreshToken: s.configStore.GetString(KeyGmailRefreshToken),
			User:         s.getString(KeyGmailUser, defaults.Gmail.User),
		},
		Attachments: domain.AttachmentSettings{
			DriveFolderID: s.configStore.GetString(KeyDriveFolderID),
		},
		WriteLog: domain.WriteLogSettings{
			Backend:  s.getBackend(defaults.WriteLog.Backend),
			RedisURL: s.configStore.GetString(KeyWriteLogRedisURL),
			TTL:      s.getDuration(KeyWriteLogTTLHours, time.Hour, defaults.WriteLog.TTL),
		},
	}

	return settings, nil
}

// Save persists application settings. Empty secrets are not written so
// a partial update never clears a stored credential.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	secrets := []struct {
		key, value string
	}{
		{KeyNotionAPIKey, settings.Notion.APIKey},
		{KeyGmailClientSecret, settings.Gmail.ClientSecret},
		{KeyGmailRefreshToken, settings.Gmail.RefreshToken},
	}
	for _, sec := range secrets {
		if sec.value == "" {
			continue
		}
		if err := s.configStore.Set(sec.key, sec.value); err != nil {
			return fmt.Errorf("save %s: %w", sec.key, err)
		}
	}

	values := []struct {
		key   string
		value any
	}{
		{KeyNotionDatabaseID, settings.Notion.DatabaseID},
		{KeyRelationTimeoutMS, int(settings.Relation.Timeout / time.Millisecond)},
		{KeyRelationCacheTTL, int(settings.Relation.CacheTTL / time.Second)},
		{KeyGmailClientID, settings.Gmail.ClientID},
		{KeyGmailUser, settings.Gmail.User},
		{KeyDriveFolderID, settings.Attachments.DriveFolderID},
		{KeyWriteLogBackend, settings.WriteLog.Backend},
		{KeyWriteLogRedisURL, settings.WriteLog.RedisURL},
		{KeyWriteLogTTLHours, int(settings.WriteLog.TTL / time.Hour)},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	return nil
}

// SetAPIKey stores the Notion integration token.
func (s *SettingsService) SetAPIKey(apiKey string) error {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return fmt.Errorf("%w: api key is empty", domain.ErrInvalidInput)
	}
	if err := s.configStore.Set(KeyNotionAPIKey, apiKey); err != nil {
		return fmt.Errorf("save api key: %w", err)
	}
	return nil
}

// SetDatabaseID stores the target database id. Notion URLs are accepted
// and reduced to the id they contain.
func (s *SettingsService) SetDatabaseID(databaseID string) error {
	id := NormalizeDatabaseID(databaseID)
	if id == "" {
		return fmt.Errorf("%w: database id is empty", domain.ErrInvalidInput)
	}
	if err := s.configStore.Set(KeyNotionDatabaseID, id); err != nil {
		return fmt.Errorf("save database id: %w", err)
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// NormalizeDatabaseID extracts the 32 hex digit id from a Notion URL or
// returns the trimmed input unchanged.
func NormalizeDatabaseID(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		s = s[:i]
	}
	if i := strings.LastIndex(s, "/"); i >= 0 {
		s = s[i+1:]
	}
	if i := strings.LastIndex(s, "-"); i >= 0 && len(s)-i-1 == 32 {
		s = s[i+1:]
	}
	return s
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getDuration(key string, unit, defaultVal time.Duration) time.Duration {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return time.Duration(val) * unit
}

func (s *SettingsService) getBackend(defaultVal string) string {
	switch val := strings.ToLower(s.configStore.GetString(KeyWriteLogBackend)); val {
	case WriteLogSQLite, WriteLogRedis, WriteLogNone:
		return val
	default:
		return defaultVal
	}
}
