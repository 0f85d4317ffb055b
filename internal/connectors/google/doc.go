// Package google provides shared infrastructure for the Gmail connector and
// the Drive attachment uploader.
//
// It contains:
//   - a refresh token flow built from the configured OAuth client
//   - service factories for Gmail and Drive
//   - translation of Google API errors (401, 403, 404, 429) to domain errors
//   - per-service rate limiting
//
// # Usage
//
//	ts, err := google.NewTokenSource(ctx, settings.Gmail)
//	svc, err := google.NewGmailService(ctx, ts)
//
// # OAuth2 Scopes
//
//   - https://www.googleapis.com/auth/gmail.readonly (restricted)
//   - https://www.googleapis.com/auth/drive.file (non-sensitive)
//
// For user-created internal apps, restricted scopes don't require verification.
package google
