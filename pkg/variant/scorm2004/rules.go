package scorm2004

import (
	"github.com/aretw0/scorm/pkg/cmi"
	"github.com/aretw0/scorm/pkg/domain"
	"github.com/aretw0/scorm/pkg/validate"
)

// DataModelVersion is reported by cmi._version.
const DataModelVersion = "1.0"

// Vocabulary of the SCORM 2004 data model.
var (
	String200       = validate.MaxLength(200)
	String250       = validate.MaxLength(250)
	String1000      = validate.MaxLength(1000)
	String4000      = validate.MaxLength(4000)
	String64000     = validate.MaxLength(64000)
	LangString250   = validate.LangString(250)
	LangString4000  = validate.LangString(4000)
	Language        = validate.Language()
	LongIdentifier  = validate.Identifier(4000, false)
	ShortIdentifier = validate.Format(`^[\w\.\-]{1,250}$`)
	Time            = validate.Format(`^(19[7-9]\d|20[0-2]\d|203[0-8])(-(0[1-9]|1[0-2])(-(0[1-9]|[12]\d|3[01])(T([01]\d|2[0-3])(:[0-5]\d(:[0-5]\d(\.\d{1,2})?)?)?(Z|[+-]([01]\d|2[0-3])(:?[0-5]\d)?)?)?)?)?$`)
	Duration        = validate.Func(checkDuration)
	Decimal         = validate.Format(`^-?\d{1,5}(\.\d{1,18})?$`)
	Completion      = validate.Enum("completed", "incomplete", "not attempted", "unknown")
	Success         = validate.Enum("passed", "failed", "unknown")
	Exit            = validate.Enum("time-out", "suspend", "logout", "normal", "")
	Type            = validate.Enum("true-false", "choice", "fill-in", "long-fill-in", "matching", "performance", "sequencing", "likert", "numeric", "other")
	Result          = validate.Format(`^(correct|incorrect|unanticipated|neutral|-?\d{1,5}(\.\d{1,18})?)$`)
	Credit          = validate.Enum("credit", "no-credit")
	Entry           = validate.Enum("ab-initio", "resume", "")
	Mode            = validate.Enum("normal", "review", "browse")
	TimeLimit       = validate.Enum("exit,message", "exit,no message", "continue,message", "continue,no message")
	NavRequest      = validate.Format(`^(\{target=[^}\s]+\}(choice|jump)|continue|previous|exit|exitAll|abandon|abandonAll|suspendAll|_none_)$`)
	NavValid        = validate.Enum("true", "false", "unknown")

	Scaled    = validate.All(Decimal, validate.MustRange("-1#1"))
	Score     = Decimal
	Progress  = validate.All(Decimal, validate.MustRange("0#1"))
	Weighting = Decimal
	Audio     = validate.All(Decimal, validate.MustRange("0#*"))
	Speed     = validate.All(Decimal, validate.MustRange("0#*"))
	Caption   = validate.Enum("-1", "0", "1")
)

func checkDuration(value string) *domain.Error {
	if _, err := cmi.ParseISODuration(value); err != nil {
		return domain.NewError(domain.KeyTypeMismatch, err.Error())
	}
	return nil
}
