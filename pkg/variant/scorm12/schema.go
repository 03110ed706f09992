package scorm12

import (
	"github.com/aretw0/scorm/pkg/cmi"
	"github.com/aretw0/scorm/pkg/domain"
	"github.com/aretw0/scorm/pkg/validate"
)

// DataModelVersion is reported by cmi._version.
const DataModelVersion = "3.4"

// Extension adds members to the SCORM 1.2 tree. AICC uses it.
type Extension struct {
	CMI               []cmi.Member
	Core              []cmi.Member
	StudentData       []cmi.Member
	StudentPreference []cmi.Member
}

func ro(rule validate.Rule, opts ...cmi.LeafOption) *cmi.Leaf {
	return cmi.NewLeaf(rule, append(opts, cmi.WithAccess(cmi.ReadOnly))...)
}

func wo(rule validate.Rule, opts ...cmi.LeafOption) *cmi.Leaf {
	return cmi.NewLeaf(rule, append(opts, cmi.WithAccess(cmi.WriteOnly))...)
}

// NewScore builds a raw/min/max score group.
func NewScore() *cmi.Composite {
	return cmi.NewComposite(
		cmi.Field("raw", cmi.NewLeaf(Score)),
		cmi.Field("min", cmi.NewLeaf(Score)),
		cmi.Field("max", cmi.NewLeaf(Score)),
	).ExposeChildren()
}

// BuildTree builds the SCORM 1.2 data model with ext appended to its groups.
func BuildTree(ext Extension) *cmi.Composite {
	core := cmi.NewComposite(append([]cmi.Member{
		cmi.Field("student_id", ro(Identifier)),
		cmi.Field("student_name", ro(String255)),
		cmi.Field("lesson_location", cmi.NewLeaf(String255)),
		cmi.Field("credit", ro(Credit, cmi.WithDefault("credit"))),
		cmi.Field("lesson_status", cmi.NewLeaf(Status,
			cmi.WithDefault("not attempted"),
			cmi.WithHydrateRule(Status2),
		)),
		cmi.Field("entry", ro(Entry)),
		cmi.Field("score", NewScore()),
		cmi.Field("total_time", ro(Timespan, cmi.WithDefault("0000:00:00"))),
		cmi.Field("lesson_mode", ro(Mode, cmi.WithDefault("normal"))),
		cmi.Field("exit", wo(Exit)),
		cmi.Field("session_time", wo(Timespan)),
	}, ext.Core...)...).ExposeChildren()

	studentData := cmi.NewComposite(append([]cmi.Member{
		cmi.Field("mastery_score", ro(Mastery)),
		cmi.Field("max_time_allowed", ro(Timespan)),
		cmi.Field("time_limit_action", ro(TimeLimit)),
	}, ext.StudentData...)...).ExposeChildren()

	preference := cmi.NewComposite(append([]cmi.Member{
		cmi.Field("audio", cmi.NewLeaf(Audio, cmi.WithDefault("0"))),
		cmi.Field("language", cmi.NewLeaf(String255)),
		cmi.Field("speed", cmi.NewLeaf(Speed, cmi.WithDefault("0"))),
		cmi.Field("text", cmi.NewLeaf(Text, cmi.WithDefault("0"))),
	}, ext.StudentPreference...)...).ExposeChildren()

	root := cmi.NewComposite(append([]cmi.Member{
		cmi.Field("core", core),
		cmi.Field("suspend_data", cmi.NewLeaf(String4096)),
		cmi.Field("launch_data", ro(String4096)),
		cmi.Field("comments", cmi.NewLeaf(String4096)),
		cmi.Field("comments_from_lms", ro(String4096)),
		cmi.Field("objectives", cmi.NewCollection("id,score,status")),
		cmi.Field("student_data", studentData),
		cmi.Field("student_preference", preference),
		cmi.Field("interactions", cmi.NewCollection("id,objectives,time,type,correct_responses,weighting,student_response,result,latency")),
	}, ext.CMI...)...).
		ExposeChildren().
		WithComputed(domain.KeywordVersion, func() string { return DataModelVersion })

	return cmi.NewComposite(cmi.Field("cmi", root))
}

// NewFactory returns the collection item builders of SCORM 1.2.
func NewFactory() *cmi.ChildFactory {
	return cmi.NewChildFactory().
		Register(`cmi\.objectives\.\d+`, newObjective).
		Register(`cmi\.interactions\.\d+`, newInteraction).
		Register(`cmi\.interactions\.\d+\.objectives\.\d+`, newInteractionObjective).
		Register(`cmi\.interactions\.\d+\.correct_responses\.\d+`, newCorrectResponse)
}

func newObjective() *cmi.Composite {
	return cmi.NewComposite(
		cmi.Field("id", cmi.NewLeaf(Identifier)),
		cmi.Field("score", NewScore()),
		cmi.Field("status", cmi.NewLeaf(Status2, cmi.WithDefault("not attempted"))),
	)
}

func newInteraction() *cmi.Composite {
	return cmi.NewComposite(
		cmi.Field("id", wo(Identifier)),
		cmi.Field("objectives", cmi.NewCollection("id")),
		cmi.Field("time", wo(Time)),
		cmi.Field("type", wo(Type)),
		cmi.Field("correct_responses", cmi.NewCollection("pattern")),
		cmi.Field("weighting", wo(Weighting)),
		cmi.Field("student_response", wo(Feedback)),
		cmi.Field("result", wo(Result)),
		cmi.Field("latency", wo(Timespan)),
	)
}

func newInteractionObjective() *cmi.Composite {
	return cmi.NewComposite(cmi.Field("id", wo(Identifier)))
}

func newCorrectResponse() *cmi.Composite {
	return cmi.NewComposite(cmi.Field("pattern", wo(Feedback)))
}
