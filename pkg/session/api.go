package session

import (
	"errors"
	"fmt"
	"sort"

	"github.com/aretw0/scorm"
	"github.com/aretw0/scorm/pkg/variant/scorm12"
	"github.com/aretw0/scorm/pkg/variant/scorm2004"
)

// ErrUnknownMethod is returned when a call names no method of the session's API.
var ErrUnknownMethod = errors.New("unknown api method")

// Method is one API function bound to a session.
type Method struct {
	// Arity is the number of string arguments the method takes.
	Arity int
	fn    func(args []string) string
}

// Call invokes the method.
func (m Method) Call(args ...string) (string, error) {
	if len(args) != m.Arity {
		return "", fmt.Errorf("expected %d arguments, got %d", m.Arity, len(args))
	}
	return m.fn(args), nil
}

func nullary(f func() string) Method {
	return Method{Arity: 0, fn: func([]string) string { return f() }}
}

func unary(f func(string) string) Method {
	return Method{Arity: 1, fn: func(a []string) string { return f(a[0]) }}
}

func binary(f func(string, string) string) Method {
	return Method{Arity: 2, fn: func(a []string) string { return f(a[0], a[1]) }}
}

// Methods returns the API table of the session's variant: the LMS* functions for
// variants that alias them (SCORM 1.2, AICC) and the SCORM 2004 names otherwise.
func Methods(s *scorm.Session) map[string]Method {
	if _, ok := s.Variant().Aliases()["LMSInitialize"]; ok {
		api := scorm12.NewAPI(s)
		return map[string]Method{
			"LMSInitialize":     unary(api.LMSInitialize),
			"LMSFinish":         unary(api.LMSFinish),
			"LMSGetValue":       unary(api.LMSGetValue),
			"LMSSetValue":       binary(api.LMSSetValue),
			"LMSCommit":         unary(api.LMSCommit),
			"LMSGetLastError":   nullary(api.LMSGetLastError),
			"LMSGetErrorString": unary(api.LMSGetErrorString),
			"LMSGetDiagnostic":  unary(api.LMSGetDiagnostic),
		}
	}
	api := scorm2004.NewAPI(s)
	return map[string]Method{
		"Initialize":     unary(api.Initialize),
		"Terminate":      unary(api.Terminate),
		"GetValue":       unary(api.GetValue),
		"SetValue":       binary(api.SetValue),
		"Commit":         unary(api.Commit),
		"GetLastError":   nullary(api.GetLastError),
		"GetErrorString": unary(api.GetErrorString),
		"GetDiagnostic":  unary(api.GetDiagnostic),
	}
}

// MethodNames returns the sorted names of methods.
func MethodNames(methods map[string]Method) []string {
	names := make([]string, 0, len(methods))
	for name := range methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
