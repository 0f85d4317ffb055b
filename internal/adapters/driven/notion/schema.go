package notion

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/jomei/notionapi"

	"github.com/custodia-labs/mailpage/internal/core/domain"
)

// schemaFromDatabase converts a database object to a target schema.
func schemaFromDatabase(databaseID string, db *notionapi.Database) (*domain.TargetSchema, error) {
	raw, err := json.Marshal(db.Properties)
	if err != nil {
		return nil, fmt.Errorf("encode properties: %w", err)
	}

	var title strings.Builder
	for _, rt := range db.Title {
		title.WriteString(rt.PlainText)
	}

	id := string(db.ID)
	if id == "" {
		id = databaseID
	}
	return decodeSchema(id, title.String(), raw)
}

// decodeSchema builds a schema from the JSON property map of a database.
// Each field keeps its full property object as Config. Fields are ordered
// title first, then by name.
func decodeSchema(databaseID, title string, raw []byte) (*domain.TargetSchema, error) {
	var props map[string]map[string]any
	if err := json.Unmarshal(raw, &props); err != nil {
		return nil, fmt.Errorf("decode properties: %w", err)
	}

	fields := make([]domain.TargetField, 0, len(props))
	for name, p := range props {
		typ, _ := p["type"].(string)
		if typ == "" {
			continue
		}
		id, _ := p["id"].(string)
		if id == "" {
			id = name
		}
		fields = append(fields, domain.TargetField{
			ID:     id,
			Name:   name,
			Type:   domain.FieldType(typ),
			Config: p,
		})
	}

	sort.Slice(fields, func(i, j int) bool {
		ti := fields[i].Type == domain.FieldTypeTitle
		tj := fields[j].Type == domain.FieldTypeTitle
		if ti != tj {
			return ti
		}
		return fields[i].Name < fields[j].Name
	})

	return &domain.TargetSchema{DatabaseID: databaseID, Title: title, Fields: fields}, nil
}
