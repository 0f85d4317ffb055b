// Package notion implements the target database ports on the Notion API.
//
// Clients are created per integration token through Factory, which shares a
// single rate limiter across tokens so the whole process stays under the
// API's request budget. SDK errors are translated to domain sentinels:
//   - 401 becomes domain.ErrUnauthorized
//   - 404 becomes domain.ErrNotFound
//   - 429 becomes domain.ErrRateLimited
//
// Requests are never retried here; the caller decides what to do with a
// failure.
package notion
