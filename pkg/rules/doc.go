// Package rules compiles configurable cross-field checks written as expr expressions.
//
// A rule targets element paths with a regular expression and states a boolean
// requirement over the value being written and the rest of the data model:
//
//	- element: 'cmi\.interactions\.\d+\.result'
//	  require: 'isset(item + ".type")'
//	  error: DEPENDENCY_NOT_ESTABLISHED
//
// Expressions see path, value and item (the enclosing collection item, or "") and
// the functions get(path), isset(path) and num(text).
package rules
