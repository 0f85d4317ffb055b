// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters): settings, mapping configuration,
// payload assembly and page writes.
//
// Services are pure Go with no CGO dependencies.
package services
