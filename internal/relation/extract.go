package relation

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/custodia-labs/mailpage/internal/core/domain"
)

// extractor tries one representation of a relation's target database id.
type extractor struct {
	name string
	fn   func(cfg map[string]any) (string, bool)
}

// extractors are tried in order; the first success wins.
var extractors = []extractor{
	{name: "database_id", fn: directID},
	{name: "data_source_id", fn: dataSourceID},
	{name: "synced_property", fn: nestedID},
	{name: "bare_reference", fn: bareReference},
	{name: "id_pattern", fn: patternID},
}

var idPattern = regexp.MustCompile(
	`(?i)[0-9a-f]{8}-?[0-9a-f]{4}-?[0-9a-f]{4}-?[0-9a-f]{4}-?[0-9a-f]{12}`)

// LinkedDatabaseID returns the id of the database a relation field points at.
func LinkedDatabaseID(field domain.TargetField) (string, bool) {
	if len(field.Config) == 0 {
		return "", false
	}
	for _, ex := range extractors {
		if id, ok := ex.fn(field.Config); ok {
			return id, true
		}
	}
	return "", false
}

// relationConfig returns the nested "relation" object, or cfg itself when
// the config is already unwrapped.
func relationConfig(cfg map[string]any) map[string]any {
	if nested, ok := cfg["relation"].(map[string]any); ok {
		return nested
	}
	return cfg
}

func stringAt(m map[string]any, key string) (string, bool) {
	s, ok := m[key].(string)
	s = strings.TrimSpace(s)
	return s, ok && s != ""
}

func directID(cfg map[string]any) (string, bool) {
	return stringAt(relationConfig(cfg), "database_id")
}

func dataSourceID(cfg map[string]any) (string, bool) {
	return stringAt(relationConfig(cfg), "data_source_id")
}

func nestedID(cfg map[string]any) (string, bool) {
	rel := relationConfig(cfg)
	for _, key := range []string{"dual_property", "single_property"} {
		nested, ok := rel[key].(map[string]any)
		if !ok {
			continue
		}
		if id, ok := stringAt(nested, "database_id"); ok {
			return id, true
		}
		if id, ok := stringAt(nested, "data_source_id"); ok {
			return id, true
		}
	}
	return "", false
}

func bareReference(cfg map[string]any) (string, bool) {
	s, ok := stringAt(cfg, "relation")
	if !ok || !idPattern.MatchString(s) {
		return "", false
	}
	return idPattern.FindString(s), true
}

func patternID(cfg map[string]any) (string, bool) {
	raw, err := json.Marshal(relationConfig(cfg))
	if err != nil {
		return "", false
	}
	id := idPattern.FindString(string(raw))
	return id, id != ""
}
