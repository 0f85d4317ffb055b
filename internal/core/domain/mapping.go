package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FileMode controls how attachments reach a files property.
type FileMode string

// Attachment handling modes.
const (
	// FileModeUpload uploads attachments to external storage and links them.
	FileModeUpload FileMode = "upload"
	// FileModeLink links back to the attachment inside the mail client.
	FileModeLink FileMode = "link"
	// FileModeSkip leaves the property empty.
	FileModeSkip FileMode = "skip"
)

// IsValid returns true if the mode is recognised.
func (m FileMode) IsValid() bool {
	switch m {
	case FileModeUpload, FileModeLink, FileModeSkip:
		return true
	default:
		return false
	}
}

// MappingEntry is the persisted configuration for one target property.
type MappingEntry struct {
	Type                FieldType `json:"type"`
	Enabled             bool      `json:"enabled"`
	SourceField         string    `json:"sourceField,omitempty"`
	Transformation      string    `json:"transformation,omitempty"`
	StaticValue         string    `json:"staticValue,omitempty"`
	StaticValues        []string  `json:"staticValues,omitempty"`
	MatchField          string    `json:"matchField,omitempty"`
	MatchSourceField    string    `json:"matchSourceField,omitempty"`
	MatchTransformation string    `json:"matchTransformation,omitempty"`
	MatchFieldType      FieldType `json:"matchFieldType,omitempty"`
	LinkedDatabaseID    string    `json:"linkedDatabaseId,omitempty"`
	FileMode            FileMode  `json:"fileMode,omitempty"`
	Required            bool      `json:"required"`
}

// MappingSet is an insertion-ordered set of mapping entries keyed by target
// property id. The zero value is an empty set ready to use.
type MappingSet struct {
	keys    []string
	entries map[string]MappingEntry
}

// NewMappingSet creates an empty mapping set.
func NewMappingSet() *MappingSet {
	return &MappingSet{entries: make(map[string]MappingEntry)}
}

// Set adds or replaces an entry. New keys are appended; existing keys keep
// their position.
func (s *MappingSet) Set(id string, entry MappingEntry) {
	if s.entries == nil {
		s.entries = make(map[string]MappingEntry)
	}
	if _, exists := s.entries[id]; !exists {
		s.keys = append(s.keys, id)
	}
	s.entries[id] = entry
}

// Get returns the entry for a property id.
func (s *MappingSet) Get(id string) (MappingEntry, bool) {
	if s == nil {
		return MappingEntry{}, false
	}
	e, ok := s.entries[id]
	return e, ok
}

// Delete removes an entry.
func (s *MappingSet) Delete(id string) {
	if _, ok := s.entries[id]; !ok {
		return
	}
	delete(s.entries, id)
	for i, k := range s.keys {
		if k == id {
			s.keys = append(s.keys[:i], s.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the property ids in insertion order.
func (s *MappingSet) Keys() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.keys...)
}

// Len returns the number of entries.
func (s *MappingSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.keys)
}

// Clone returns a deep copy of the set.
func (s *MappingSet) Clone() *MappingSet {
	out := NewMappingSet()
	if s == nil {
		return out
	}
	for _, k := range s.keys {
		e := s.entries[k]
		e.StaticValues = append([]string(nil), e.StaticValues...)
		if len(e.StaticValues) == 0 {
			e.StaticValues = nil
		}
		out.Set(k, e)
	}
	return out
}

// Merge returns a new set where entries from update replace entries with
// the same id, and entries absent from update are preserved. Configuration
// forms may cover a subset of properties, so saving is additive.
func (s *MappingSet) Merge(update *MappingSet) *MappingSet {
	out := s.Clone()
	if update == nil {
		return out
	}
	for _, k := range update.keys {
		out.Set(k, update.entries[k])
	}
	return out
}

// MarshalJSON encodes the set as a JSON object in insertion order.
func (s MappingSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range s.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(s.entries[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, keeping the document's key order.
func (s *MappingSet) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*s = MappingSet{entries: make(map[string]MappingEntry)}
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("mapping set: expected object, got %v", tok)
	}

	out := MappingSet{entries: make(map[string]MappingEntry)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("mapping set: expected key, got %v", tok)
		}
		var entry MappingEntry
		if err := dec.Decode(&entry); err != nil {
			return fmt.Errorf("mapping set: entry %q: %w", key, err)
		}
		out.Set(key, entry)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*s = out
	return nil
}
