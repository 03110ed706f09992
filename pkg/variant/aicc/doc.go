// Package aicc provides the AICC data model. It shares the SCORM 1.2 rules, error
// codes and LMS* API, and adds tries, attempt records, evaluation comments, learner
// demographics, paths and extra preferences.
package aicc
