package scorm12

import "github.com/aretw0/scorm/pkg/validate"

// Vocabulary of the SCORM 1.2 data model.
var (
	String255  = validate.MaxLength(255)
	String4096 = validate.MaxLength(4096)
	Identifier = validate.Identifier(255, true)
	Time       = validate.Format(`^(?:[01]\d|2[0123]):(?:[012345]\d):(?:[012345]\d)$`)
	Timespan   = validate.Format(`^([0-9]{2,4}):([0-9]{2}):([0-9]{2})(\.[0-9]{1,2})?$`)
	Integer    = validate.Format(`^\d+$`)
	Decimal    = validate.Format(`^-?([0-9]{0,3})(\.[0-9]*)?$`)
	Feedback   = validate.MaxLength(255)
	Status     = validate.Enum("passed", "completed", "failed", "incomplete", "browsed")
	Status2    = validate.Enum("passed", "completed", "failed", "incomplete", "browsed", "not attempted")
	Exit       = validate.Enum("time-out", "suspend", "logout", "")
	Type       = validate.Enum("true-false", "choice", "fill-in", "matching", "performance", "sequencing", "likert", "numeric")
	Result     = validate.Format(`^(correct|wrong|unanticipated|neutral|-?([0-9]{1,3})(\.[0-9]*)?)$`)
	Credit     = validate.Enum("credit", "no-credit")
	Entry      = validate.Enum("ab-initio", "resume", "")
	Mode       = validate.Enum("normal", "review", "browse")
	TimeLimit  = validate.Enum("exit,message", "exit,no message", "continue,message", "continue,no message")

	Score     = validate.Optional(validate.All(Decimal, validate.MustRange("0#100")))
	Audio     = validate.All(validate.Format(`^-?([0-9]+)$`), validate.MustRange("-1#100"))
	Speed     = validate.All(validate.Format(`^-?([0-9]+)$`), validate.MustRange("-100#100"))
	Text      = validate.All(validate.Format(`^-?([0-9]+)$`), validate.MustRange("-1#1"))
	Weighting = validate.All(Decimal, validate.MustRange("-100#100"))
	Mastery   = validate.All(Decimal, validate.MustRange("0#100"))
)
