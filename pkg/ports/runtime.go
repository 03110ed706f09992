package ports

import "github.com/aretw0/scorm/pkg/domain"

// Runtime is the generic operation surface variant facades translate their API onto.
// *scorm.Session implements it.
type Runtime interface {
	Initialize() bool
	Terminate(checkTerminated bool) bool
	GetValue(path string, checkTerminated bool) string
	SetValue(path, value string, checkTerminated bool) bool
	Commit(checkTerminated bool) bool
	GetLastError() string
	GetErrorString(code string) string
	GetDiagnostic(code string) string
	ReportError(op domain.Operation, key domain.ErrorKey, message string)
}
