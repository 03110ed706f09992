package scorm

import _ "embed"

// Version is the module release, trimmed by callers.
//
//go:embed VERSION
var Version string
