// Package relation resolves relation properties: it finds the database a
// relation points at, introspects that database's properties for the
// configuration form, and at write time searches it for pages matching a
// value taken from the message.
//
// Every step degrades instead of failing. An unidentifiable or unreachable
// linked database yields a fixed placeholder property list, and a failed
// search yields no relation value. Schema fetches are bounded by a wall-clock
// budget measured from the start of the resolution.
package relation
