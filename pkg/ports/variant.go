package ports

import (
	"errors"
	"time"

	"github.com/aretw0/scorm/pkg/cmi"
	"github.com/aretw0/scorm/pkg/domain"
)

// ErrUnimplementedHook is the panic value of UnimplementedVariant hooks.
var ErrUnimplementedHook = errors.New("variant hook not implemented")

// FinalizeContext carries what a termination finalizer may need beyond the tree.
type FinalizeContext struct {
	// Elapsed is the time since Initialize.
	Elapsed time.Duration
	// MasteryOverride lets the LMS derive pass/fail from the mastery score.
	MasteryOverride bool
	// SelfReportSessionTime fills an unset session time from Elapsed.
	SelfReportSessionTime bool
}

// CrossFieldValidator inspects a write in the context of the whole tree, for example
// a response pattern that depends on the interaction type. It runs for content writes
// only, before the leaf validator.
type CrossFieldValidator interface {
	ValidateSet(tree *cmi.Composite, path, value string) *domain.Error
}

// CrossFieldFunc adapts a function into a CrossFieldValidator.
type CrossFieldFunc func(tree *cmi.Composite, path, value string) *domain.Error

// ValidateSet calls f.
func (f CrossFieldFunc) ValidateSet(tree *cmi.Composite, path, value string) *domain.Error {
	return f(tree, path, value)
}

// Variant is the per-standard capability set the runtime is parameterized over.
type Variant interface {
	CrossFieldValidator

	// Name identifies the variant, e.g. "scorm12".
	Name() string

	// Errors returns the code and message table.
	Errors() *domain.ErrorTable

	// NewTree builds a fresh data model tree.
	NewTree() *cmi.Composite

	// NewChild builds the collection item addressed by itemPath, for example
	// "cmi.interactions.0". It reports false when no builder matches.
	NewChild(itemPath string) (*cmi.Composite, bool)

	// Finalize derives final values on terminating commits.
	Finalize(tree *cmi.Composite, fc FinalizeContext)

	// Aliases maps variant API names (e.g. "LMSSetValue") to runtime operations.
	Aliases() map[string]domain.Operation
}

// UnimplementedVariant can be embedded to satisfy Variant partially.
// The optional hooks (ValidateSet, Aliases) are no-ops; the others panic.
type UnimplementedVariant struct{}

func (UnimplementedVariant) Name() string { panic(ErrUnimplementedHook) }

func (UnimplementedVariant) Errors() *domain.ErrorTable { panic(ErrUnimplementedHook) }

func (UnimplementedVariant) NewTree() *cmi.Composite { panic(ErrUnimplementedHook) }

func (UnimplementedVariant) NewChild(string) (*cmi.Composite, bool) { panic(ErrUnimplementedHook) }

func (UnimplementedVariant) Finalize(*cmi.Composite, FinalizeContext) { panic(ErrUnimplementedHook) }

func (UnimplementedVariant) ValidateSet(*cmi.Composite, string, string) *domain.Error { return nil }

func (UnimplementedVariant) Aliases() map[string]domain.Operation { return nil }
