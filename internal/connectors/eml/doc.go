// Package eml reads RFC 822 messages into source records.
//
// Parse is shared by every connector that can obtain a raw message: .eml
// files on disk and the Gmail raw format both decode through it.
// Attachments are numbered in document order ("part-1", "part-2", ...),
// which lets a caller fetch their bytes again by re-parsing the message.
package eml
