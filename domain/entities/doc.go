// Package entities provides the core records shared by the guest adapter, the host runner and
// the registration tooling: structured error details and function manifests.
package entities
