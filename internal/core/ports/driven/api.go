package driven

import (
	"context"

	"github.com/custodia-labs/mailpage/internal/core/domain"
)

// APIClient is the target document database API, bound to one credential.
// Implementations may rate limit but never retry.
type APIClient interface {
	// FetchSchema returns the property list of a database.
	FetchSchema(ctx context.Context, databaseID string) (*domain.TargetSchema, error)

	// Search queries a database with a single-property filter and returns
	// the ids of at most pageSize matching pages.
	Search(ctx context.Context, databaseID string, filter domain.RelationFilter, pageSize int) ([]string, error)

	// CreatePage writes a new page with the given properties.
	CreatePage(ctx context.Context, databaseID string, properties domain.Payload) (*domain.PageRef, error)
}

// APIClientFactory creates API clients for an integration token.
type APIClientFactory interface {
	// ForToken returns a client authenticated with apiKey.
	ForToken(apiKey string) APIClient
}

// DirectoryLookup lists the workspace members selectable in people properties.
type DirectoryLookup interface {
	ListMembers(ctx context.Context) ([]domain.Member, error)
}

// AttachmentService turns message attachments into externally hosted files.
type AttachmentService interface {
	// Process handles attachments according to mode. FileModeSkip yields nil.
	Process(ctx context.Context, attachments []domain.Attachment,
		attCtx domain.AttachmentContext, mode domain.FileMode) ([]domain.FileRef, error)
}
