package notion

import (
	"context"

	"github.com/custodia-labs/mailpage/internal/core/domain"
	"github.com/custodia-labs/mailpage/internal/core/ports/driven"
)

var _ driven.DirectoryLookup = (*Directory)(nil)

// Directory lists workspace members with the currently configured token.
type Directory struct {
	factory *Factory
	apiKey  func() string
}

// NewDirectory creates a member directory. apiKey is read on every call so
// a token changed at runtime is picked up.
func NewDirectory(factory *Factory, apiKey func() string) *Directory {
	return &Directory{factory: factory, apiKey: apiKey}
}

// ListMembers returns the workspace's people.
func (d *Directory) ListMembers(ctx context.Context) ([]domain.Member, error) {
	key := ""
	if d.apiKey != nil {
		key = d.apiKey()
	}
	if key == "" {
		return nil, domain.ErrMissingAPIKey
	}
	return d.factory.Client(key).ListMembers(ctx)
}
