// Package driving defines the interfaces that infrastructure calls INTO core.
//
// These are the "driving" or "primary" ports in hexagonal architecture.
// The CLI adapter depends on these interfaces, and core services
// implement them.
//
// # Interfaces
//
//   - MappingEngine: Applies a mapping set to a source record
//   - PropertyHandler: Per-type configuration and serialisation
//   - FieldCatalog / TransformationCatalog: Source fields and value transforms
//   - ConfigurationService: Builds and saves mapping configuration forms
//   - PageWriter: Writes one message to the target database
//   - SettingsService: Application settings
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or driven package
package driving
