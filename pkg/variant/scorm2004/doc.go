// Package scorm2004 provides the SCORM 2004 (4th edition) data model: the cmi and
// adl.nav trees, the error table, the interaction dependency and response pattern
// rules, the termination rules and the content-facing API.
package scorm2004
