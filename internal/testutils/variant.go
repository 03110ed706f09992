package testutils

import (
	"regexp"

	"github.com/aretw0/scorm/pkg/cmi"
	"github.com/aretw0/scorm/pkg/domain"
	"github.com/aretw0/scorm/pkg/ports"
	"github.com/aretw0/scorm/pkg/validate"
)

// ToyCodes gives every error key its own code so tests can tell them apart.
var ToyCodes = map[domain.ErrorKey]int{
	domain.KeyGeneral:                  101,
	domain.KeyInitialized:              103,
	domain.KeyTerminated:               104,
	domain.KeyTerminationBeforeInit:    112,
	domain.KeyMultipleTermination:      113,
	domain.KeyRetrieveBeforeInit:       122,
	domain.KeyRetrieveAfterTerm:        123,
	domain.KeyStoreBeforeInit:          132,
	domain.KeyStoreAfterTerm:           133,
	domain.KeyCommitBeforeInit:         142,
	domain.KeyCommitAfterTerm:          143,
	domain.KeyArgumentError:            201,
	domain.KeyChildrenError:            202,
	domain.KeyCountError:               203,
	domain.KeyGeneralCommitFailure:     391,
	domain.KeyUndefinedDataModel:       401,
	domain.KeyValueNotInitialized:      403,
	domain.KeyReadOnlyElement:          404,
	domain.KeyWriteOnlyElement:         405,
	domain.KeyTypeMismatch:             406,
	domain.KeyValueOutOfRange:          407,
	domain.KeyDependencyNotEstablished: 408,
	domain.KeyInvalidSetValue:          409,
}

var toyMessages = map[int]domain.ErrorMessage{
	101: {Short: "General Exception", Detail: "No specific error code exists to describe the error."},
	103: {Short: "Already Initialized", Detail: "The session is already initialized."},
	401: {Short: "Undefined Data Model Element", Detail: "The data model element is not defined."},
	404: {Short: "Data Model Element Is Read Only", Detail: "The element is read only."},
	406: {Short: "Data Model Element Type Mismatch", Detail: "The value does not match the element type."},
}

var scoreRule = validate.All(validate.Format(`^-?[0-9]+(\.[0-9]+)?$`), validate.MustRange("0#100"))

// ToyVariant is a small data model exercising every engine feature:
//
//	cmi._version                     computed
//	cmi.core.student_id              read only
//	cmi.core.lesson_status           enum, "not attempted" only before Initialize
//	cmi.core.score.{raw,min,max}     0#100, exposes _children
//	cmi.core.session_time            write only
//	cmi.core.exit                    no default
//	cmi.suspend_data                 at most 64 characters
//	cmi.interactions.n.{id,type,result}
//	cmi.interactions.n.objectives.m.id
//
// Writing interactions.n.result before interactions.n.id fails the dependency check.
type ToyVariant struct {
	ports.UnimplementedVariant
	factory *cmi.ChildFactory

	// Finalized counts terminating commits.
	Finalized int
	// LastFinalize is the context of the most recent terminating commit.
	LastFinalize ports.FinalizeContext
}

// NewToyVariant creates the variant.
func NewToyVariant() *ToyVariant {
	v := &ToyVariant{}
	v.factory = cmi.NewChildFactory().
		Register(`cmi\.interactions\.\d+`, newToyInteraction).
		Register(`cmi\.interactions\.\d+\.objectives\.\d+`, newToyObjective)
	return v
}

func (v *ToyVariant) Name() string { return "toy" }

func (v *ToyVariant) Errors() *domain.ErrorTable {
	return domain.NewErrorTable(ToyCodes, toyMessages)
}

func (v *ToyVariant) NewTree() *cmi.Composite {
	return cmi.NewComposite(
		cmi.Field("cmi", cmi.NewComposite(
			cmi.Field("core", cmi.NewComposite(
				cmi.Field("student_id", cmi.NewLeaf(validate.Identifier(255, false), cmi.WithAccess(cmi.ReadOnly))),
				cmi.Field("lesson_status", cmi.NewLeaf(
					validate.Enum("passed", "completed", "failed", "incomplete"),
					cmi.WithHydrateRule(validate.Optional(validate.Enum("passed", "completed", "failed", "incomplete", "not attempted"))),
				)),
				cmi.Field("score", cmi.NewComposite(
					cmi.Field("raw", cmi.NewLeaf(validate.Optional(scoreRule))),
					cmi.Field("min", cmi.NewLeaf(validate.Optional(scoreRule))),
					cmi.Field("max", cmi.NewLeaf(validate.Optional(scoreRule))),
				).ExposeChildren()),
				cmi.Field("session_time", cmi.NewLeaf(nil, cmi.WithAccess(cmi.WriteOnly))),
				cmi.Field("exit", cmi.NewLeaf(validate.Enum("suspend", "logout", ""), cmi.NoDefault())),
			)),
			cmi.Field("suspend_data", cmi.NewLeaf(validate.MaxLength(64))),
			cmi.Field("interactions", cmi.NewCollection("id,type,result,objectives")),
		).WithComputed(domain.KeywordVersion, func() string { return "toy-1" })),
	)
}

func newToyInteraction() *cmi.Composite {
	return cmi.NewComposite(
		cmi.Field("id", cmi.NewLeaf(validate.Identifier(64, false))),
		cmi.Field("type", cmi.NewLeaf(validate.Optional(validate.Enum("choice", "numeric")))),
		cmi.Field("result", cmi.NewLeaf(nil)),
		cmi.Field("objectives", cmi.NewCollection("id")),
	)
}

func newToyObjective() *cmi.Composite {
	return cmi.NewComposite(cmi.Field("id", cmi.NewLeaf(validate.Identifier(64, false))))
}

func (v *ToyVariant) NewChild(itemPath string) (*cmi.Composite, bool) {
	return v.factory.Build(itemPath)
}

var toyResultPath = regexp.MustCompile(`^cmi\.interactions\.(\d+)\.result$`)

func (v *ToyVariant) ValidateSet(tree *cmi.Composite, path, value string) *domain.Error {
	m := toyResultPath.FindStringSubmatch(path)
	if m == nil {
		return nil
	}
	if cmi.ValueAt(tree, "cmi.interactions."+m[1]+".id") == "" {
		return domain.NewError(domain.KeyDependencyNotEstablished, "interaction id must be set first")
	}
	return nil
}

func (v *ToyVariant) Finalize(tree *cmi.Composite, fc ports.FinalizeContext) {
	v.Finalized++
	v.LastFinalize = fc
	if cmi.ValueAt(tree, "cmi.core.lesson_status") == "" {
		_ = cmi.Assign(tree, "cmi.core.lesson_status", "completed")
	}
}

func (v *ToyVariant) Aliases() map[string]domain.Operation {
	return map[string]domain.Operation{
		"LMSInitialize": domain.OpInitialize,
		"LMSFinish":     domain.OpTerminate,
		"LMSGetValue":   domain.OpGetValue,
		"LMSSetValue":   domain.OpSetValue,
		"LMSCommit":     domain.OpCommit,
	}
}
