package eml

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"net/textproto"
	"strings"
	"time"

	"github.com/custodia-labs/mailpage/internal/core/domain"
	"github.com/custodia-labs/mailpage/internal/transforms"
)

// SnippetLength is the maximum length of a derived snippet, in runes.
const SnippetLength = 200

// Part is an attachment together with its decoded bytes.
type Part struct {
	domain.Attachment
	Data []byte
}

// Message is a parsed email.
type Message struct {
	ID      string
	Subject string
	From    string
	To      string
	Cc      string
	Bcc     string
	ReplyTo string
	Date    time.Time
	Text    string
	HTML    string
	Parts   []Part
}

// Parse reads a message in RFC 822 format.
func Parse(r io.Reader) (*Message, error) {
	msg, err := mail.ReadMessage(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}

	h := msg.Header
	m := &Message{
		ID:      strings.Trim(strings.TrimSpace(h.Get("Message-Id")), "<>"),
		Subject: decodeHeader(h.Get("Subject")),
		From:    decodeHeader(h.Get("From")),
		To:      decodeHeader(h.Get("To")),
		Cc:      decodeHeader(h.Get("Cc")),
		Bcc:     decodeHeader(h.Get("Bcc")),
		ReplyTo: decodeHeader(h.Get("Reply-To")),
	}
	if d, err := h.Date(); err == nil {
		m.Date = d
	}

	var text, html []string
	if err := m.walk(textproto.MIMEHeader(h), msg.Body, &text, &html); err != nil {
		return nil, err
	}
	m.Text = strings.TrimSpace(strings.Join(text, "\n"))
	m.HTML = strings.TrimSpace(strings.Join(html, "\n"))
	return m, nil
}

// walk collects body text and attachments from one MIME entity.
func (m *Message) walk(header textproto.MIMEHeader, body io.Reader, text, html *[]string) error {
	contentType := header.Get("Content-Type")
	if contentType == "" {
		contentType = "text/plain"
	}
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = "text/plain"
	}

	if strings.HasPrefix(mediaType, "multipart/") {
		if params["boundary"] == "" {
			return nil
		}
		mr := multipart.NewReader(body, params["boundary"])
		for {
			part, err := mr.NextPart()
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return fmt.Errorf("%w: read part: %w", domain.ErrInvalidInput, err)
			}
			walkErr := m.walk(part.Header, part, text, html)
			part.Close()
			if walkErr != nil {
				return walkErr
			}
		}
	}

	data, err := io.ReadAll(decodeTransfer(header.Get("Content-Transfer-Encoding"), body))
	if err != nil {
		return fmt.Errorf("%w: read body: %w", domain.ErrInvalidInput, err)
	}

	if name, ok := attachmentName(header, params); ok || mediaType == "message/rfc822" {
		m.Parts = append(m.Parts, Part{
			Attachment: domain.Attachment{
				ID:       fmt.Sprintf("part-%d", len(m.Parts)+1),
				Name:     name,
				MIMEType: mediaType,
				Size:     int64(len(data)),
			},
			Data: data,
		})
		return nil
	}

	switch mediaType {
	case "text/plain":
		*text = append(*text, string(data))
	case "text/html":
		*html = append(*html, string(data))
	}
	return nil
}

// attachmentName reports whether an entity is an attachment and its file name.
func attachmentName(header textproto.MIMEHeader, typeParams map[string]string) (string, bool) {
	disposition, params, err := mime.ParseMediaType(header.Get("Content-Disposition"))
	if err == nil {
		if name := decodeHeader(params["filename"]); name != "" {
			return name, true
		}
		if disposition == "attachment" {
			return decodeHeader(typeParams["name"]), true
		}
	}
	if name := decodeHeader(typeParams["name"]); name != "" {
		return name, true
	}
	return "", false
}

func decodeTransfer(encoding string, r io.Reader) io.Reader {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "base64":
		return base64.NewDecoder(base64.StdEncoding, r)
	case "quoted-printable":
		return quotedprintable.NewReader(r)
	default:
		return r
	}
}

// decodeHeader decodes RFC 2047 encoded words, returning the input on failure.
func decodeHeader(header string) string {
	if header == "" {
		return ""
	}
	dec := new(mime.WordDecoder)
	decoded, err := dec.DecodeHeader(header)
	if err != nil {
		return header
	}
	return decoded
}

// Body returns the plain text body, derived from the HTML part when the
// message has no text part.
func (m *Message) Body() string {
	if m.Text != "" {
		return m.Text
	}
	if m.HTML != "" {
		return transforms.HTMLToText(m.HTML)
	}
	return ""
}

// Attachment returns the part with the given id.
func (m *Message) Attachment(id string) (Part, bool) {
	for _, p := range m.Parts {
		if p.ID == id {
			return p, true
		}
	}
	return Part{}, false
}

// Values returns the message's source fields. Absent headers are left out.
func (m *Message) Values() map[string]any {
	values := make(map[string]any)
	put := func(key, v string) {
		if v != "" {
			values[key] = v
		}
	}
	put(domain.FieldMessageID, m.ID)
	put(domain.FieldSubject, m.Subject)
	put(domain.FieldFrom, m.From)
	put(domain.FieldTo, m.To)
	put(domain.FieldCc, m.Cc)
	put(domain.FieldBcc, m.Bcc)
	put(domain.FieldReplyTo, m.ReplyTo)
	if !m.Date.IsZero() {
		values[domain.FieldDate] = m.Date
	}

	body := m.Body()
	put(domain.FieldBody, body)
	put(domain.FieldBodyHTML, m.HTML)
	put(domain.FieldSnippet, Snippet(body))

	attachments := make([]domain.Attachment, 0, len(m.Parts))
	var size int64
	for _, p := range m.Parts {
		attachments = append(attachments, p.Attachment)
		size += p.Size
	}
	values[domain.FieldHasAttachments] = len(attachments) > 0
	values[domain.FieldAttachmentCount] = len(attachments)
	values[domain.FieldAttachmentSize] = size
	values[domain.FieldAttachments] = attachments
	return values
}

// Record returns the message as a source record.
func (m *Message) Record() domain.SourceRecord {
	return domain.NewSourceRecord(m.Values())
}

// Snippet collapses whitespace in s and cuts it to SnippetLength runes.
func Snippet(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= SnippetLength {
		return s
	}
	return strings.TrimSpace(string(runes[:SnippetLength])) + "…"
}

// ParseBytes parses a message held in memory.
func ParseBytes(raw []byte) (*Message, error) {
	return Parse(bytes.NewReader(raw))
}
