// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - APIClient / APIClientFactory: Notion schema fetch, query and page create
//   - ConfigStore: Application configuration
//   - MappingStore: Mapping set persistence per target database
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - DirectoryLookup: Workspace roster. Without it people mappings offer no options.
//   - AttachmentService: Attachment upload/link. Without it files mappings produce nothing.
//   - WriteLog: Duplicate write guard. Without it every apply creates a page.
//   - MessageSource: Message retrieval. Without it only .eml input is accepted.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or property package
package driven
