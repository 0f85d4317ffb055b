// Package file provides the TOML configuration store.
//
// Settings live in ~/.mailpage/config.toml as nested tables and are
// addressed with dot-notation keys ("notion.api_key"). Environment
// variables named MAILPAGE_<KEY> with dots as underscores override the
// file, e.g. MAILPAGE_NOTION_API_KEY.
package file
