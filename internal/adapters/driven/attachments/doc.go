// Package attachments turns message attachments into files a page can
// reference.
//
// Three modes are supported:
//   - link: every attachment points back at the message in the mail client
//   - upload: bytes are fetched from the message source, uploaded to Google
//     Drive and shared by link
//   - skip: nothing is produced
package attachments
