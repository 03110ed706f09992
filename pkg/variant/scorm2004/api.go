package scorm2004

import (
	"github.com/aretw0/scorm/pkg/domain"
	"github.com/aretw0/scorm/pkg/ports"
)

// API is the SCORM 2004 content-facing API. Initialize, Terminate and Commit require
// an empty parameter. All calls are rejected after Terminate.
type API struct {
	rt ports.Runtime
}

// NewAPI wraps a session.
func NewAPI(rt ports.Runtime) *API {
	return &API{rt: rt}
}

func (a *API) argument(op domain.Operation, param string) bool {
	if param == "" {
		return true
	}
	a.rt.ReportError(op, domain.KeyArgumentError, "the parameter must be an empty string")
	return false
}

func (a *API) Initialize(param string) string {
	if !a.argument(domain.OpInitialize, param) {
		return domain.Bool(false)
	}
	return domain.Bool(a.rt.Initialize())
}

func (a *API) Terminate(param string) string {
	if !a.argument(domain.OpTerminate, param) {
		return domain.Bool(false)
	}
	return domain.Bool(a.rt.Terminate(true))
}

func (a *API) GetValue(element string) string {
	if element == "" {
		a.rt.ReportError(domain.OpGetValue, domain.KeyGeneralGetFailure, "the element name is empty")
		return ""
	}
	return a.rt.GetValue(element, true)
}

func (a *API) SetValue(element, value string) string {
	if element == "" {
		a.rt.ReportError(domain.OpSetValue, domain.KeyGeneralSetFailure, "the element name is empty")
		return domain.Bool(false)
	}
	return domain.Bool(a.rt.SetValue(element, value, true))
}

func (a *API) Commit(param string) string {
	if !a.argument(domain.OpCommit, param) {
		return domain.Bool(false)
	}
	return domain.Bool(a.rt.Commit(true))
}

func (a *API) GetLastError() string { return a.rt.GetLastError() }

func (a *API) GetErrorString(code string) string { return a.rt.GetErrorString(code) }

func (a *API) GetDiagnostic(code string) string { return a.rt.GetDiagnostic(code) }
