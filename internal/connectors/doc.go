// Package connectors holds the message sources mailpage reads from.
//
// Each subpackage turns one kind of mailbox into domain.SourceRecord values:
//
//   - eml: RFC 822 message files on disk
//   - google/gmail: messages fetched through the Gmail API
//
// Sources implement driven.MessageSource and are wired in cmd/mailpage.
package connectors
