// Package properties holds one handler per writable property type.
//
// A handler describes the configuration controls for a property, parses a
// submitted form into a mapping entry, and converts a message into the
// property's wire fragment. A nil fragment leaves the property out of the
// write; it is the only way a handler excludes a value.
//
// The Registry maps property types to handlers. Computed types such as
// formulas and timestamps have no handler and are never written.
package properties
