// Package scorm12 provides the SCORM 1.2 data model, its error codes, the termination
// rules and the LMS* API facade.
package scorm12
