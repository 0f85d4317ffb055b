package notion

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jomei/notionapi"

	"github.com/custodia-labs/mailpage/internal/core/domain"
	"github.com/custodia-labs/mailpage/internal/core/ports/driven"
	"github.com/custodia-labs/mailpage/internal/logger"
)

// Verify interface compliance.
var (
	_ driven.APIClientFactory = (*Factory)(nil)
	_ driven.APIClient        = (*Client)(nil)
)

// maxPageSize is the largest page the API returns.
const maxPageSize = 100

// Factory creates Notion clients that share a rate limiter.
type Factory struct {
	httpClient *http.Client
	limiter    *RateLimiter
}

// Option configures a Factory.
type Option func(*Factory)

// WithHTTPClient sets the HTTP client used for API calls.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Factory) {
		f.httpClient = c
	}
}

// WithRateLimiter replaces the default limiter.
func WithRateLimiter(l *RateLimiter) Option {
	return func(f *Factory) {
		f.limiter = l
	}
}

// NewFactory creates a client factory.
func NewFactory(opts ...Option) *Factory {
	f := &Factory{}
	for _, opt := range opts {
		opt(f)
	}
	if f.limiter == nil {
		f.limiter = NewRateLimiter(DefaultRequestsPerSecond, DefaultBurst)
	}
	return f
}

// ForToken returns a client authenticated with apiKey.
func (f *Factory) ForToken(apiKey string) driven.APIClient {
	return f.Client(apiKey)
}

// Client returns the concrete client for apiKey.
func (f *Factory) Client(apiKey string) *Client {
	var opts []notionapi.ClientOption
	if f.httpClient != nil {
		opts = append(opts, notionapi.WithHTTPClient(f.httpClient))
	}
	return &Client{
		api:     notionapi.NewClient(notionapi.Token(apiKey), opts...),
		limiter: f.limiter,
	}
}

// Client talks to the Notion API with one integration token.
type Client struct {
	api     *notionapi.Client
	limiter *RateLimiter
}

// call waits for the limiter, runs fn and translates its error.
func (c *Client) call(ctx context.Context, fn func() error) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	err := translate(fn())
	if errors.Is(err, domain.ErrRateLimited) {
		c.limiter.Backoff(0)
	}
	return err
}

// FetchSchema returns the property list of a database.
func (c *Client) FetchSchema(ctx context.Context, databaseID string) (*domain.TargetSchema, error) {
	var db *notionapi.Database
	err := c.call(ctx, func() error {
		var err error
		db, err = c.api.Database.Get(ctx, notionapi.DatabaseID(databaseID))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("get database %s: %w", databaseID, err)
	}
	return schemaFromDatabase(databaseID, db)
}

// Search returns the ids of at most pageSize pages matching filter.
func (c *Client) Search(ctx context.Context, databaseID string, filter domain.RelationFilter, pageSize int) ([]string, error) {
	pf, err := propertyFilter(filter)
	if err != nil {
		return nil, err
	}
	if pageSize <= 0 || pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	var resp *notionapi.DatabaseQueryResponse
	err = c.call(ctx, func() error {
		var err error
		resp, err = c.api.Database.Query(ctx, notionapi.DatabaseID(databaseID), &notionapi.DatabaseQueryRequest{
			Filter:   pf,
			PageSize: pageSize,
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("query database %s: %w", databaseID, err)
	}

	ids := make([]string, 0, len(resp.Results))
	for _, page := range resp.Results {
		ids = append(ids, string(page.ID))
	}
	logger.Debug("relation query", "database", databaseID, "property", filter.Property, "matches", len(ids))
	return ids, nil
}

// CreatePage writes a new page with the given properties.
func (c *Client) CreatePage(ctx context.Context, databaseID string, props domain.Payload) (*domain.PageRef, error) {
	properties, err := toProperties(props)
	if err != nil {
		return nil, err
	}

	var page *notionapi.Page
	err = c.call(ctx, func() error {
		var err error
		page, err = c.api.Page.Create(ctx, &notionapi.PageCreateRequest{
			Parent: notionapi.Parent{
				Type:       notionapi.ParentTypeDatabaseID,
				DatabaseID: notionapi.DatabaseID(databaseID),
			},
			Properties: properties,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	return &domain.PageRef{
		ID:        string(page.ID),
		URL:       page.URL,
		CreatedAt: page.CreatedTime,
	}, nil
}

// ListMembers returns the workspace's people. Bots are left out.
func (c *Client) ListMembers(ctx context.Context) ([]domain.Member, error) {
	var members []domain.Member
	var cursor notionapi.Cursor
	for {
		var resp *notionapi.UsersListResponse
		err := c.call(ctx, func() error {
			var err error
			resp, err = c.api.User.List(ctx, &notionapi.Pagination{StartCursor: cursor, PageSize: maxPageSize})
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("list users: %w", err)
		}

		for _, u := range resp.Results {
			if u.Person == nil {
				continue
			}
			members = append(members, domain.Member{ID: string(u.ID), Name: u.Name, Email: u.Person.Email})
		}
		if !resp.HasMore || resp.NextCursor == "" {
			return members, nil
		}
		cursor = notionapi.Cursor(resp.NextCursor)
	}
}
