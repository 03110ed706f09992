package scorm2004

import (
	"github.com/aretw0/scorm/pkg/cmi"
	"github.com/aretw0/scorm/pkg/domain"
	"github.com/aretw0/scorm/pkg/validate"
)

func ro(rule validate.Rule, opts ...cmi.LeafOption) *cmi.Leaf {
	return cmi.NewLeaf(rule, append(opts, cmi.WithAccess(cmi.ReadOnly))...)
}

func wo(rule validate.Rule, opts ...cmi.LeafOption) *cmi.Leaf {
	return cmi.NewLeaf(rule, append(opts, cmi.WithAccess(cmi.WriteOnly))...)
}

func unset(rule validate.Rule) *cmi.Leaf {
	return cmi.NewLeaf(rule, cmi.NoDefault())
}

// NewScore builds a scaled/raw/min/max score group.
func NewScore() *cmi.Composite {
	return cmi.NewComposite(
		cmi.Field("scaled", unset(Scaled)),
		cmi.Field("raw", unset(Score)),
		cmi.Field("min", unset(Score)),
		cmi.Field("max", unset(Score)),
	).ExposeChildren()
}

// BuildTree builds the cmi and adl trees.
func BuildTree() *cmi.Composite {
	preference := cmi.NewComposite(
		cmi.Field("audio_level", cmi.NewLeaf(Audio, cmi.WithDefault("1"))),
		cmi.Field("language", cmi.NewLeaf(Language)),
		cmi.Field("delivery_speed", cmi.NewLeaf(Speed, cmi.WithDefault("1"))),
		cmi.Field("audio_captioning", cmi.NewLeaf(Caption, cmi.WithDefault("0"))),
	).ExposeChildren()

	root := cmi.NewComposite(
		cmi.Field("comments_from_learner", cmi.NewCollection("comment,location,timestamp")),
		cmi.Field("comments_from_lms", cmi.NewCollection("comment,location,timestamp")),
		cmi.Field("completion_status", cmi.NewLeaf(Completion, cmi.WithDefault("unknown"))),
		cmi.Field("completion_threshold", ro(Progress, cmi.NoDefault())),
		cmi.Field("credit", ro(Credit, cmi.WithDefault("credit"))),
		cmi.Field("entry", ro(Entry)),
		cmi.Field("exit", wo(Exit)),
		cmi.Field("interactions", cmi.NewCollection("id,type,objectives,timestamp,correct_responses,weighting,learner_response,result,latency,description")),
		cmi.Field("launch_data", ro(String4000, cmi.NoDefault())),
		cmi.Field("learner_id", ro(LongIdentifier)),
		cmi.Field("learner_name", ro(LangString250)),
		cmi.Field("learner_preference", preference),
		cmi.Field("location", unset(String1000)),
		cmi.Field("max_time_allowed", ro(Duration, cmi.NoDefault())),
		cmi.Field("mode", ro(Mode, cmi.WithDefault("normal"))),
		cmi.Field("objectives", cmi.NewCollection("id,score,success_status,completion_status,progress_measure,description")),
		cmi.Field("progress_measure", unset(Progress)),
		cmi.Field("scaled_passing_score", ro(Scaled, cmi.NoDefault())),
		cmi.Field("score", NewScore()),
		cmi.Field("session_time", wo(Duration)),
		cmi.Field("success_status", cmi.NewLeaf(Success, cmi.WithDefault("unknown"))),
		cmi.Field("suspend_data", unset(String64000)),
		cmi.Field("time_limit_action", ro(TimeLimit, cmi.WithDefault("continue,no message"))),
		cmi.Field("total_time", ro(Duration, cmi.WithDefault("PT0S"))),
	).
		WithChildren("_version,comments_from_learner,comments_from_lms,completion_status,completion_threshold,credit,entry,exit,interactions,launch_data,learner_id,learner_name,learner_preference,location,max_time_allowed,mode,objectives,progress_measure,scaled_passing_score,score,session_time,success_status,suspend_data,time_limit_action,total_time").
		WithComputed(domain.KeywordVersion, func() string { return DataModelVersion })

	nav := cmi.NewComposite(
		cmi.Field("request", cmi.NewLeaf(NavRequest, cmi.WithDefault("_none_"))),
		cmi.Field("request_valid", cmi.NewComposite(
			cmi.Field("continue", ro(NavValid, cmi.WithDefault("unknown"))),
			cmi.Field("previous", ro(NavValid, cmi.WithDefault("unknown"))),
			cmi.Field("choice", cmi.NewComposite()),
			cmi.Field("jump", cmi.NewComposite()),
		)),
	)

	return cmi.NewComposite(
		cmi.Field("cmi", root),
		cmi.Field("adl", cmi.NewComposite(cmi.Field("nav", nav))),
	)
}

// NewFactory returns the collection item builders of SCORM 2004.
func NewFactory() *cmi.ChildFactory {
	return cmi.NewChildFactory().
		Register(`cmi\.comments_from_learner\.\d+`, func() *cmi.Composite { return newComment(false) }).
		Register(`cmi\.comments_from_lms\.\d+`, func() *cmi.Composite { return newComment(true) }).
		Register(`cmi\.objectives\.\d+`, newObjective).
		Register(`cmi\.interactions\.\d+`, newInteraction).
		Register(`cmi\.interactions\.\d+\.objectives\.\d+`, func() *cmi.Composite {
			return cmi.NewComposite(cmi.Field("id", cmi.NewLeaf(LongIdentifier)))
		}).
		Register(`cmi\.interactions\.\d+\.correct_responses\.\d+`, func() *cmi.Composite {
			return cmi.NewComposite(cmi.Field("pattern", cmi.NewLeaf(String4000)))
		})
}

func newComment(fromLMS bool) *cmi.Composite {
	leaf := cmi.NewLeaf
	if fromLMS {
		leaf = ro
	}
	return cmi.NewComposite(
		cmi.Field("comment", leaf(LangString4000)),
		cmi.Field("location", leaf(String250)),
		cmi.Field("timestamp", leaf(Time)),
	)
}

func newObjective() *cmi.Composite {
	return cmi.NewComposite(
		cmi.Field("id", cmi.NewLeaf(LongIdentifier)),
		cmi.Field("score", NewScore()),
		cmi.Field("success_status", cmi.NewLeaf(Success, cmi.WithDefault("unknown"))),
		cmi.Field("completion_status", cmi.NewLeaf(Completion, cmi.WithDefault("unknown"))),
		cmi.Field("progress_measure", unset(Progress)),
		cmi.Field("description", unset(LangString250)),
	)
}

func newInteraction() *cmi.Composite {
	return cmi.NewComposite(
		cmi.Field("id", cmi.NewLeaf(LongIdentifier)),
		cmi.Field("type", unset(Type)),
		cmi.Field("objectives", cmi.NewCollection("id")),
		cmi.Field("timestamp", unset(Time)),
		cmi.Field("correct_responses", cmi.NewCollection("pattern")),
		cmi.Field("weighting", unset(Weighting)),
		cmi.Field("learner_response", unset(String64000)),
		cmi.Field("result", unset(Result)),
		cmi.Field("latency", unset(Duration)),
		cmi.Field("description", unset(LangString250)),
	)
}
