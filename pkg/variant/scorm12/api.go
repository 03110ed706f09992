package scorm12

import (
	"github.com/aretw0/scorm/pkg/domain"
	"github.com/aretw0/scorm/pkg/ports"
)

// API is the SCORM 1.2 content-facing API. Reads stay available after LMSFinish so the
// final state can be inspected; writes, commits and a second LMSFinish fail.
type API struct {
	rt ports.Runtime
}

// NewAPI wraps a session.
func NewAPI(rt ports.Runtime) *API {
	return &API{rt: rt}
}

func (a *API) LMSInitialize(string) string { return domain.Bool(a.rt.Initialize()) }

func (a *API) LMSFinish(string) string { return domain.Bool(a.rt.Terminate(true)) }

func (a *API) LMSGetValue(element string) string { return a.rt.GetValue(element, false) }

func (a *API) LMSSetValue(element, value string) string {
	return domain.Bool(a.rt.SetValue(element, value, true))
}

func (a *API) LMSCommit(string) string { return domain.Bool(a.rt.Commit(true)) }

func (a *API) LMSGetLastError() string { return a.rt.GetLastError() }

func (a *API) LMSGetErrorString(code string) string { return a.rt.GetErrorString(code) }

func (a *API) LMSGetDiagnostic(code string) string { return a.rt.GetDiagnostic(code) }
