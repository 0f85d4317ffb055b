// Package transforms provides the named value transforms that may be applied
// between a source field and a property handler.
//
// Transforms are pure and total: every function accepts any value and never
// panics. Input that cannot be converted degrades to a safe default, for
// example an unparseable date becomes the current time and an unparseable
// number becomes nil so the property is omitted.
//
// Each property type advertises its own transform set through
// Registry.OptionsFor. Callers only apply transforms advertised for the type
// they serialise.
package transforms
