package validate

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/aretw0/scorm/pkg/domain"
)

// Rule accepts or rejects a candidate value.
type Rule interface {
	Check(value string) *domain.Error
}

// Func adapts a function into a Rule.
type Func func(value string) *domain.Error

// Check calls f.
func (f Func) Check(value string) *domain.Error {
	return f(value)
}

// Any accepts every value.
var Any Rule = Func(func(string) *domain.Error { return nil })

func mismatch(format string, args ...any) *domain.Error {
	return domain.NewError(domain.KeyTypeMismatch, fmt.Sprintf(format, args...))
}

// All runs rules in order and returns the first rejection.
func All(rules ...Rule) Rule {
	return Func(func(value string) *domain.Error {
		for _, r := range rules {
			if r == nil {
				continue
			}
			if err := r.Check(value); err != nil {
				return err
			}
		}
		return nil
	})
}

// Optional accepts the empty string and delegates everything else to r.
func Optional(r Rule) Rule {
	return Func(func(value string) *domain.Error {
		if value == "" {
			return nil
		}
		return r.Check(value)
	})
}

// Format rejects values that do not match pattern with a type mismatch.
// An empty match counts as no match, so a pattern that allows "" must be wrapped
// in Optional.
func Format(pattern string) Rule {
	re := regexp.MustCompile(pattern)
	return Func(func(value string) *domain.Error {
		m := re.FindString(value)
		if m == "" {
			return mismatch("%q does not match %s", value, pattern)
		}
		return nil
	})
}

// Range rejects numbers outside [min, max] with an out-of-range error.
// Use math.Inf(1) for an unbounded maximum. Values that do not parse are a type mismatch.
func Range(min, max float64) Rule {
	return Func(func(value string) *domain.Error {
		n, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil || math.IsNaN(n) {
			return mismatch("%q is not a number", value)
		}
		if n < min || n > max {
			return domain.NewError(domain.KeyValueOutOfRange, fmt.Sprintf("%s is outside %s", value, rangeString(min, max)))
		}
		return nil
	})
}

// ParseRange reads the "min#max" notation, where max may be "*".
func ParseRange(bounds string) (Rule, error) {
	lo, hi, ok := strings.Cut(bounds, "#")
	if !ok {
		return nil, fmt.Errorf("invalid range %q", bounds)
	}
	min, err := strconv.ParseFloat(lo, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid range minimum %q: %w", lo, err)
	}
	max := math.Inf(1)
	if hi != "*" {
		if max, err = strconv.ParseFloat(hi, 64); err != nil {
			return nil, fmt.Errorf("invalid range maximum %q: %w", hi, err)
		}
	}
	return Range(min, max), nil
}

// MustRange is ParseRange for package-level declarations.
func MustRange(bounds string) Rule {
	r, err := ParseRange(bounds)
	if err != nil {
		panic(err)
	}
	return r
}

func rangeString(min, max float64) string {
	hi := "*"
	if !math.IsInf(max, 1) {
		hi = strconv.FormatFloat(max, 'f', -1, 64)
	}
	return strconv.FormatFloat(min, 'f', -1, 64) + "#" + hi
}

// MaxLength rejects text longer than n characters with a type mismatch.
func MaxLength(n int) Rule {
	return Func(func(value string) *domain.Error {
		if !utf8.ValidString(value) {
			return mismatch("value is not valid UTF-8")
		}
		if c := utf8.RuneCountInString(value); c > n {
			return mismatch("value has %d characters, limit is %d", c, n)
		}
		return nil
	})
}

// Enum accepts only the listed tokens.
func Enum(tokens ...string) Rule {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return Func(func(value string) *domain.Error {
		if _, ok := set[value]; !ok {
			return mismatch("%q is not one of %s", value, strings.Join(tokens, "|"))
		}
		return nil
	})
}

// Identifier accepts non-empty printable ASCII identifiers of at most maxLen characters.
// allowSpace admits whitespace inside the identifier.
func Identifier(maxLen int, allowSpace bool) Rule {
	return Func(func(value string) *domain.Error {
		if value == "" || len(value) > maxLen {
			return mismatch("identifier must have 1 to %d characters", maxLen)
		}
		for _, r := range value {
			switch {
			case r >= 0x21 && r <= 0x7E:
			case allowSpace && (r == ' ' || r == '\t'):
			default:
				return mismatch("identifier contains %q", r)
			}
		}
		return nil
	})
}

var langTag = regexp.MustCompile(`^([a-zA-Z]{2,3}|i|x)(-[a-zA-Z0-9-]{2,8})?$`)

// LangString accepts an optional "{lang=xx}" prefix followed by at most maxLen characters.
func LangString(maxLen int) Rule {
	return Func(func(value string) *domain.Error {
		text := value
		if strings.HasPrefix(value, "{lang=") {
			end := strings.IndexByte(value, '}')
			if end < 0 {
				return mismatch("unterminated language delimiter")
			}
			if tag := value[len("{lang="):end]; !langTag.MatchString(tag) {
				return mismatch("invalid language tag %q", tag)
			}
			text = value[end+1:]
		}
		return MaxLength(maxLen).Check(text)
	})
}

// Language accepts an empty string or an RFC 5646 style language tag.
func Language() Rule {
	return Optional(Func(func(value string) *domain.Error {
		if !langTag.MatchString(value) {
			return mismatch("invalid language tag %q", value)
		}
		return nil
	}))
}
