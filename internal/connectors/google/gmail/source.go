package gmail

import (
	"context"
	"fmt"

	"google.golang.org/api/gmail/v1"

	"github.com/custodia-labs/mailpage/internal/connectors/eml"
	"github.com/custodia-labs/mailpage/internal/connectors/google"
	"github.com/custodia-labs/mailpage/internal/core/domain"
	"github.com/custodia-labs/mailpage/internal/core/ports/driven"
)

var _ driven.MessageSource = (*Source)(nil)

// Source retrieves messages from one Gmail mailbox.
type Source struct {
	svc     *gmail.Service
	user    string
	limiter *google.RateLimiter
}

// NewSource creates a message source. An empty user means the token's
// own mailbox ("me").
func NewSource(svc *gmail.Service, user string) *Source {
	if user == "" {
		user = "me"
	}
	return &Source{
		svc:     svc,
		user:    user,
		limiter: google.NewRateLimiter(google.ServiceGmail),
	}
}

func (s *Source) get(ctx context.Context, messageID string) (*gmail.Message, *eml.Message, error) {
	var msg *gmail.Message
	err := s.limiter.Do(ctx, func() error {
		var err error
		msg, err = s.svc.Users.Messages.Get(s.user, messageID).Format("raw").Context(ctx).Do()
		return err
	})
	if err != nil {
		return nil, nil, fmt.Errorf("get message %s: %w", messageID, err)
	}

	parsed, err := decodeRaw(msg)
	if err != nil {
		return nil, nil, err
	}
	return msg, parsed, nil
}

// Fetch returns the message as a source record.
func (s *Source) Fetch(ctx context.Context, messageID string) (domain.SourceRecord, error) {
	msg, parsed, err := s.get(ctx, messageID)
	if err != nil {
		return domain.SourceRecord{}, err
	}
	return RecordFromMessage(msg, parsed), nil
}

// FetchAttachment returns the bytes of one attachment. Attachment ids are
// the part numbers assigned when the message was read.
func (s *Source) FetchAttachment(ctx context.Context, messageID, attachmentID string) ([]byte, error) {
	_, parsed, err := s.get(ctx, messageID)
	if err != nil {
		return nil, err
	}
	part, ok := parsed.Attachment(attachmentID)
	if !ok {
		return nil, fmt.Errorf("%w: attachment %s of message %s", domain.ErrNotFound, attachmentID, messageID)
	}
	return part.Data, nil
}
