// Package domain defines the core business entities for mailpage.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - SourceRecord: Flat, immutable field/value view of one email message
//   - TargetSchema / TargetField: The Notion database being written to
//   - MappingEntry / MappingSet: Persisted per-property mapping rules
//   - Payload / Fragment: Typed property values ready for the Notion API
//   - Widget / FormInput: Abstract configuration form description
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
