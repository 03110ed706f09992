package scorm2004

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/aretw0/scorm/pkg/domain"
)

// Delimiters of the interaction response grammar.
const (
	DelimList  = "[,]"
	DelimPair  = "[.]"
	DelimRange = "[:]"
)

var (
	shortID      = regexp.MustCompile(`^[\w\.\-:]{1,250}$`)
	caseMatters  = regexp.MustCompile(`^\{case_matters=(true|false)\}`)
	orderMatters = regexp.MustCompile(`^\{order_matters=(true|false)\}`)
)

// responseKind describes how one interaction type writes its correct responses and
// learner responses.
type responseKind struct {
	limit    int
	pattern  func(string) error
	response func(string) error
}

var kinds = map[string]responseKind{
	"true-false":   {limit: 1, pattern: trueFalse, response: trueFalse},
	"choice":       {limit: 10, pattern: identifierSet, response: identifierSet},
	"fill-in":      {limit: 10, pattern: prefixed(fillIn, caseMatters, orderMatters), response: fillIn},
	"long-fill-in": {limit: 5, pattern: prefixed(langText(4000), caseMatters), response: langText(4000)},
	"matching":     {limit: 5, pattern: pairs(true), response: pairs(true)},
	"performance":  {limit: 5, pattern: prefixed(pairs(false), orderMatters), response: pairs(false)},
	"sequencing":   {limit: 5, pattern: identifierList, response: identifierList},
	"likert":       {limit: 1, pattern: identifier, response: identifier},
	"numeric":      {limit: 1, pattern: numericRange, response: decimal},
	"other":        {limit: 1, pattern: text(4000), response: text(4000)},
}

// PatternLimit returns how many correct_responses an interaction type accepts.
func PatternLimit(interactionType string) int {
	return kinds[interactionType].limit
}

// CheckPattern validates a correct_responses pattern for an interaction type.
func CheckPattern(interactionType, value string) *domain.Error {
	k, ok := kinds[interactionType]
	if !ok {
		return domain.NewError(domain.KeyTypeMismatch, fmt.Sprintf("unknown interaction type %q", interactionType))
	}
	if err := k.pattern(value); err != nil {
		return domain.NewError(domain.KeyTypeMismatch, err.Error())
	}
	return nil
}

// CheckResponse validates a learner_response for an interaction type.
func CheckResponse(interactionType, value string) *domain.Error {
	k, ok := kinds[interactionType]
	if !ok {
		return domain.NewError(domain.KeyTypeMismatch, fmt.Sprintf("unknown interaction type %q", interactionType))
	}
	if err := k.response(value); err != nil {
		return domain.NewError(domain.KeyTypeMismatch, err.Error())
	}
	return nil
}

// prefixed strips the optional "{name=bool}" flags, in any order, before body.
func prefixed(body func(string) error, flags ...*regexp.Regexp) func(string) error {
	return func(value string) error {
		for stripped := true; stripped; {
			stripped = false
			for _, f := range flags {
				if loc := f.FindStringIndex(value); loc != nil {
					value = value[loc[1]:]
					stripped = true
				}
			}
		}
		return body(value)
	}
}

func trueFalse(value string) error {
	if value != "true" && value != "false" {
		return fmt.Errorf("%q is not true or false", value)
	}
	return nil
}

func identifier(value string) error {
	if !shortID.MatchString(value) {
		return fmt.Errorf("%q is not a short identifier", value)
	}
	return nil
}

func identifierList(value string) error {
	for _, item := range strings.Split(value, DelimList) {
		if err := identifier(item); err != nil {
			return err
		}
	}
	return nil
}

func identifierSet(value string) error {
	if value == "" {
		return nil
	}
	seen := make(map[string]struct{})
	for _, item := range strings.Split(value, DelimList) {
		if err := identifier(item); err != nil {
			return err
		}
		if _, dup := seen[item]; dup {
			return fmt.Errorf("%q is repeated", item)
		}
		seen[item] = struct{}{}
	}
	return nil
}

func pairs(bothRequired bool) func(string) error {
	return func(value string) error {
		for _, item := range strings.Split(value, DelimList) {
			source, target, ok := strings.Cut(item, DelimPair)
			if !ok {
				return fmt.Errorf("%q is missing the %s delimiter", item, DelimPair)
			}
			if bothRequired {
				if err := identifier(source); err != nil {
					return err
				}
				if err := identifier(target); err != nil {
					return err
				}
				continue
			}
			if source == "" && target == "" {
				return fmt.Errorf("%q has an empty step", item)
			}
			if source != "" {
				if err := identifier(source); err != nil {
					return err
				}
			}
			if len(target) > 250 {
				return errors.New("step answer exceeds 250 characters")
			}
		}
		return nil
	}
}

func langText(limit int) func(string) error {
	rule := LangString250
	if limit > 250 {
		rule = LangString4000
	}
	return func(value string) error {
		if err := rule.Check(value); err != nil {
			return errors.New(err.Message)
		}
		return nil
	}
}

func fillIn(value string) error {
	check := langText(250)
	for _, item := range strings.Split(value, DelimList) {
		if err := check(item); err != nil {
			return err
		}
	}
	return nil
}

func text(limit int) func(string) error {
	return func(value string) error {
		if n := len([]rune(value)); n > limit {
			return fmt.Errorf("value has %d characters, limit is %d", n, limit)
		}
		return nil
	}
}

func decimal(value string) error {
	if _, err := strconv.ParseFloat(value, 64); err != nil {
		return fmt.Errorf("%q is not a number", value)
	}
	return nil
}

func numericRange(value string) error {
	lo, hi, ok := strings.Cut(value, DelimRange)
	if !ok {
		return decimal(value)
	}
	if lo != "" {
		if err := decimal(lo); err != nil {
			return err
		}
	}
	if hi != "" {
		if err := decimal(hi); err != nil {
			return err
		}
	}
	if lo != "" && hi != "" {
		l, _ := strconv.ParseFloat(lo, 64)
		h, _ := strconv.ParseFloat(hi, 64)
		if l > h {
			return fmt.Errorf("range minimum %s exceeds maximum %s", lo, hi)
		}
	}
	return nil
}
