// Package cli implements the commands of the scorm binary: wiring a runtime from a
// configuration file and replaying scripted API call sequences.
package cli
