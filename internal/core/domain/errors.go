package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown property type.
	ErrUnsupportedType = errors.New("unsupported type")

	// Configuration Errors.

	// ErrMissingAPIKey indicates no Notion integration token is configured.
	// Surfaced before any mapping work starts.
	ErrMissingAPIKey = errors.New("notion API key not configured")

	// ErrMissingDatabase indicates no target Notion database is configured.
	ErrMissingDatabase = errors.New("notion database not configured")

	// ErrHandlerMissing indicates a writable property type has no handler.
	// This is a startup misconfiguration, never a runtime condition.
	ErrHandlerMissing = errors.New("no handler registered for property type")

	// API Errors.

	// ErrUnauthorized indicates the API rejected the credentials.
	ErrUnauthorized = errors.New("unauthorised")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// ErrWriteRejected indicates the target API refused the page payload.
	// The wrapped message carries the raw API error text.
	ErrWriteRejected = errors.New("page write rejected")

	// ErrSourceUnavailable indicates the message source is not configured.
	ErrSourceUnavailable = errors.New("message source unavailable")
)
