package scorm12

import (
	"github.com/aretw0/scorm/pkg/cmi"
	"github.com/aretw0/scorm/pkg/domain"
	"github.com/aretw0/scorm/pkg/ports"
)

// Name is the registry name of the variant.
const Name = "scorm12"

var aliases = map[string]domain.Operation{
	"LMSInitialize": domain.OpInitialize,
	"LMSFinish":     domain.OpTerminate,
	"LMSGetValue":   domain.OpGetValue,
	"LMSSetValue":   domain.OpSetValue,
	"LMSCommit":     domain.OpCommit,
}

// Aliases maps the LMS* API names onto runtime operations.
func Aliases() map[string]domain.Operation {
	out := make(map[string]domain.Operation, len(aliases))
	for k, v := range aliases {
		out[k] = v
	}
	return out
}

// Variant is the SCORM 1.2 capability set.
type Variant struct {
	name    string
	extend  func() Extension
	factory *cmi.ChildFactory
}

var _ ports.Variant = (*Variant)(nil)

// New returns the SCORM 1.2 variant.
func New() *Variant {
	return NewExtended(Name, nil, nil)
}

// NewExtended returns a variant sharing the SCORM 1.2 rules with extra members and
// collection builders. extend is called once per tree so sessions never share nodes.
func NewExtended(name string, extend func() Extension, register func(*cmi.ChildFactory)) *Variant {
	factory := NewFactory()
	if register != nil {
		register(factory)
	}
	return &Variant{name: name, extend: extend, factory: factory}
}

func (v *Variant) Name() string { return v.name }

func (v *Variant) Errors() *domain.ErrorTable { return Errors() }

func (v *Variant) NewTree() *cmi.Composite {
	if v.extend == nil {
		return BuildTree(Extension{})
	}
	return BuildTree(v.extend())
}

func (v *Variant) NewChild(itemPath string) (*cmi.Composite, bool) { return v.factory.Build(itemPath) }

// ValidateSet has no cross-field rules in SCORM 1.2.
func (v *Variant) ValidateSet(*cmi.Composite, string, string) *domain.Error { return nil }

func (v *Variant) Finalize(tree *cmi.Composite, fc ports.FinalizeContext) { Finalize(tree, fc) }

func (v *Variant) Aliases() map[string]domain.Operation { return Aliases() }
