// Package catalog enumerates the source fields a message record carries and
// which property types each one may feed.
//
// The compatibility matrix is static. It populates configuration dropdowns
// and validates saved mappings. The back-link field is compatible with url
// properties but is system-managed, so it is never offered for selection.
package catalog
