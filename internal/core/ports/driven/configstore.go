package driven

// ConfigStore is the key/value store behind SettingsService.
// Keys use dot notation grouped by section: "notion.api_key",
// "relation.timeout_ms", "writelog.backend".
type ConfigStore interface {
	// Get returns the raw value and whether the key is set.
	Get(key string) (any, bool)

	// GetString returns "" for a missing or non-string value.
	GetString(key string) string

	// GetInt accepts native integers and numeric strings. Anything else
	// reads as 0, so callers treat 0 as "use the default".
	GetInt(key string) int

	// GetBool accepts booleans and strings strconv.ParseBool understands.
	GetBool(key string) bool

	// Set stores a value in memory. File-backed stores also persist it.
	Set(key string, value any) error

	// Save writes the current values to storage.
	Save() error

	// Load replaces the current values with what storage holds.
	Load() error

	// Path is the backing file. In-memory stores return ":memory:".
	Path() string
}
