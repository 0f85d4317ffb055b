package notion

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jomei/notionapi"

	"github.com/custodia-labs/mailpage/internal/core/domain"
)

// translate maps a Notion SDK error to a domain sentinel. The API message
// is kept in the wrapped error text.
func translate(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *notionapi.Error
	if !errors.As(err, &apiErr) {
		return err
	}

	switch apiErr.Status {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", domain.ErrUnauthorized, apiErr.Message)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrNotFound, apiErr.Message)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", domain.ErrRateLimited, apiErr.Message)
	default:
		return fmt.Errorf("notion %d %s: %s", apiErr.Status, apiErr.Code, apiErr.Message)
	}
}
