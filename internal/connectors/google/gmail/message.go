package gmail

import (
	"encoding/base64"
	"fmt"
	"html"
	"slices"
	"strings"
	"time"

	"google.golang.org/api/gmail/v1"

	"github.com/custodia-labs/mailpage/internal/connectors/eml"
	"github.com/custodia-labs/mailpage/internal/core/domain"
)

// System label ids.
const (
	labelInbox   = "INBOX"
	labelStarred = "STARRED"
	labelUnread  = "UNREAD"
)

// MessageLink returns the web URL of a message.
func MessageLink(messageID string) string {
	if messageID == "" {
		return ""
	}
	return "https://mail.google.com/mail/u/0/#all/" + messageID
}

// decodeRaw parses the base64url RFC 2822 body of a message fetched with
// Format("raw").
func decodeRaw(msg *gmail.Message) (*eml.Message, error) {
	raw, err := base64.URLEncoding.DecodeString(msg.Raw)
	if err != nil {
		raw, err = base64.RawURLEncoding.DecodeString(strings.TrimRight(msg.Raw, "="))
		if err != nil {
			return nil, fmt.Errorf("%w: decode raw message %s: %w", domain.ErrInvalidInput, msg.Id, err)
		}
	}
	return eml.ParseBytes(raw)
}

// RecordFromMessage combines the parsed message with Gmail's metadata.
// Gmail's ids, labels and snippet take precedence over header values.
func RecordFromMessage(msg *gmail.Message, parsed *eml.Message) domain.SourceRecord {
	values := parsed.Values()

	values[domain.FieldMessageID] = msg.Id
	if msg.ThreadId != "" {
		values[domain.FieldThreadID] = msg.ThreadId
	}
	if msg.Snippet != "" {
		values[domain.FieldSnippet] = html.UnescapeString(msg.Snippet)
	}
	if parsed.Date.IsZero() && msg.InternalDate > 0 {
		values[domain.FieldDate] = time.UnixMilli(msg.InternalDate).UTC()
	}

	labels := slices.Clone(msg.LabelIds)
	values[domain.FieldLabels] = labels
	values[domain.FieldIsInInbox] = slices.Contains(labels, labelInbox)
	values[domain.FieldIsStarred] = slices.Contains(labels, labelStarred)
	values[domain.FieldIsUnread] = slices.Contains(labels, labelUnread)
	values[domain.FieldMessageLink] = MessageLink(msg.Id)

	return domain.NewSourceRecord(values)
}
