package scorm2004

import (
	"github.com/aretw0/scorm/pkg/cmi"
	"github.com/aretw0/scorm/pkg/domain"
	"github.com/aretw0/scorm/pkg/ports"
)

// Name is the registry name of the variant.
const Name = "scorm2004"

// Variant is the SCORM 2004 capability set.
type Variant struct {
	factory *cmi.ChildFactory
}

var _ ports.Variant = (*Variant)(nil)

// New returns the SCORM 2004 variant.
func New() *Variant {
	return &Variant{factory: NewFactory()}
}

func (v *Variant) Name() string { return Name }

func (v *Variant) Errors() *domain.ErrorTable { return Errors() }

func (v *Variant) NewTree() *cmi.Composite { return BuildTree() }

func (v *Variant) NewChild(itemPath string) (*cmi.Composite, bool) { return v.factory.Build(itemPath) }

func (v *Variant) ValidateSet(tree *cmi.Composite, path, value string) *domain.Error {
	return ValidateSet(tree, path, value)
}

func (v *Variant) Finalize(tree *cmi.Composite, fc ports.FinalizeContext) { Finalize(tree, fc) }

// Aliases is empty: the SCORM 2004 API uses the runtime operation names.
func (v *Variant) Aliases() map[string]domain.Operation { return nil }
