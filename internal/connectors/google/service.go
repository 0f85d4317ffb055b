package google

import (
	"context"

	"golang.org/x/oauth2"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// UserAgent identifies mailpage to Google APIs.
const UserAgent = "mailpage"

// clientOptions authenticates with ts; opts may override the defaults.
func clientOptions(ts oauth2.TokenSource, opts []option.ClientOption) []option.ClientOption {
	base := []option.ClientOption{option.WithTokenSource(ts), option.WithUserAgent(UserAgent)}
	return append(base, opts...)
}

// NewGmailService creates a Gmail client for reading messages.
func NewGmailService(ctx context.Context, ts oauth2.TokenSource, opts ...option.ClientOption) (*gmail.Service, error) {
	return gmail.NewService(ctx, clientOptions(ts, opts)...)
}

// NewDriveService creates a Drive client for attachment uploads.
func NewDriveService(ctx context.Context, ts oauth2.TokenSource, opts ...option.ClientOption) (*drive.Service, error) {
	return drive.NewService(ctx, clientOptions(ts, opts)...)
}
