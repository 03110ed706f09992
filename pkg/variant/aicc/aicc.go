package aicc

import (
	"github.com/aretw0/scorm/pkg/cmi"
	"github.com/aretw0/scorm/pkg/validate"
	"github.com/aretw0/scorm/pkg/variant/scorm12"
)

// Name is the registry name of the variant.
const Name = "aicc"

// Values specific to AICC.
var (
	String256    = validate.MaxLength(256)
	TextColor    = validate.Format(`^"?#[0-9a-fA-F]{6}"?$`)
	TextLocation = validate.Enum("top", "middle", "bottom")
	TextSize     = validate.Enum("smaller", "small", "normal", "large", "larger")
	Video        = validate.Enum("off", "small", "normal", "large", "full")
	WhyLeft      = validate.Enum("wrong", "completed", "time-out", "suspend", "logout", "")
	Count        = validate.All(scorm12.Integer, validate.MustRange("0#*"))
)

// New returns the AICC variant.
func New() *scorm12.Variant {
	return scorm12.NewExtended(Name, extension, register)
}

// NewAPI wraps a session in the LMS* API, which AICC shares with SCORM 1.2.
var NewAPI = scorm12.NewAPI

func ro(rule validate.Rule, opts ...cmi.LeafOption) *cmi.Leaf {
	return cmi.NewLeaf(rule, append(opts, cmi.WithAccess(cmi.ReadOnly))...)
}

func extension() scorm12.Extension {
	return scorm12.Extension{
		CMI: []cmi.Member{
			cmi.Field("evaluation", cmi.NewComposite(
				cmi.Field("comments", cmi.NewCollection("content,location,time")),
			).ExposeChildren()),
			cmi.Field("student_demographics", demographics()),
			cmi.Field("paths", cmi.NewCollection("location_id,date,time,status,why_left,time_in_element")),
		},
		StudentData: []cmi.Member{
			cmi.Field("tries_during_lesson", ro(Count)),
			cmi.Field("tries", cmi.NewCollection("status,time,score")),
			cmi.Field("attempt_records", cmi.NewCollection("score,lesson_status")),
		},
		StudentPreference: []cmi.Member{
			cmi.Field("lesson_type", cmi.NewLeaf(String256)),
			cmi.Field("text_color", cmi.NewLeaf(TextColor)),
			cmi.Field("text_location", cmi.NewLeaf(TextLocation)),
			cmi.Field("text_size", cmi.NewLeaf(TextSize)),
			cmi.Field("video", cmi.NewLeaf(Video)),
		},
	}
}

func demographics() *cmi.Composite {
	fields := []string{
		"city", "class", "company", "country", "experience", "familiar_name",
		"instructor_name", "title", "native_language", "state", "street_address",
		"telephone", "years_experience",
	}
	members := make([]cmi.Member, 0, len(fields))
	for _, name := range fields {
		members = append(members, cmi.Field(name, ro(scorm12.String255)))
	}
	return cmi.NewComposite(members...).ExposeChildren()
}

func register(f *cmi.ChildFactory) {
	f.Register(`cmi\.student_data\.tries\.\d+`, func() *cmi.Composite {
		return cmi.NewComposite(
			cmi.Field("status", cmi.NewLeaf(scorm12.Status2)),
			cmi.Field("time", cmi.NewLeaf(scorm12.Time)),
			cmi.Field("score", scorm12.NewScore()),
		)
	}).Register(`cmi\.student_data\.attempt_records\.\d+`, func() *cmi.Composite {
		return cmi.NewComposite(
			cmi.Field("score", scorm12.NewScore()),
			cmi.Field("lesson_status", cmi.NewLeaf(scorm12.Status2)),
		)
	}).Register(`cmi\.evaluation\.comments\.\d+`, func() *cmi.Composite {
		return cmi.NewComposite(
			cmi.Field("content", cmi.NewLeaf(String256)),
			cmi.Field("location", cmi.NewLeaf(String256)),
			cmi.Field("time", cmi.NewLeaf(scorm12.Time)),
		)
	}).Register(`cmi\.paths\.\d+`, func() *cmi.Composite {
		return cmi.NewComposite(
			cmi.Field("location_id", cmi.NewLeaf(String256)),
			cmi.Field("date", cmi.NewLeaf(String256)),
			cmi.Field("time", cmi.NewLeaf(scorm12.Time)),
			cmi.Field("status", cmi.NewLeaf(scorm12.Status2)),
			cmi.Field("why_left", cmi.NewLeaf(WhyLeft)),
			cmi.Field("time_in_element", cmi.NewLeaf(scorm12.Timespan)),
		)
	})
}
