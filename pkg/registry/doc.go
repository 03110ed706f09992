// Package registry resolves data model variants by name, as used by configuration
// files, the CLI and the HTTP adapter.
package registry
