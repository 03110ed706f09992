// Package transport sends commit payloads. HTTP posts them to an LMS endpoint; Store
// persists them as commit records in a ports.CommitStore.
package transport
