package rules

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/aretw0/scorm/pkg/cmi"
	"github.com/aretw0/scorm/pkg/domain"
	"github.com/aretw0/scorm/pkg/ports"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Rule is the configuration of one check.
type Rule struct {
	Name    string `mapstructure:"name" yaml:"name" json:"name"`
	Element string `mapstructure:"element" yaml:"element" json:"element"`
	When    string `mapstructure:"when" yaml:"when,omitempty" json:"when,omitempty"`
	Require string `mapstructure:"require" yaml:"require" json:"require"`
	Error   string `mapstructure:"error" yaml:"error,omitempty" json:"error,omitempty"`
	Message string `mapstructure:"message" yaml:"message,omitempty" json:"message,omitempty"`
}

type compiled struct {
	rule    Rule
	element *regexp.Regexp
	when    *vm.Program
	require *vm.Program
	key     domain.ErrorKey
}

// Set is a compiled rule list. It implements ports.CrossFieldValidator.
type Set struct {
	rules []compiled
}

var _ ports.CrossFieldValidator = (*Set)(nil)

// Compile checks and compiles rules. Rules without an error key report
// GENERAL_SET_FAILURE.
func Compile(rules []Rule) (*Set, error) {
	set := &Set{rules: make([]compiled, 0, len(rules))}
	for i, r := range rules {
		name := r.Name
		if name == "" {
			name = strconv.Itoa(i)
		}
		c, err := compile(r)
		if err != nil {
			return nil, fmt.Errorf("failed to compile rule %s: %w", name, err)
		}
		set.rules = append(set.rules, c)
	}
	return set, nil
}

func compile(r Rule) (compiled, error) {
	c := compiled{rule: r, key: domain.KeyGeneralSetFailure}
	if r.Element == "" || r.Require == "" {
		return c, fmt.Errorf("element and require are mandatory")
	}
	re, err := regexp.Compile("^" + r.Element + "$")
	if err != nil {
		return c, fmt.Errorf("invalid element pattern: %w", err)
	}
	c.element = re
	if r.Error != "" {
		c.key = domain.ErrorKey(strings.ToUpper(r.Error))
	}
	if c.require, err = expr.Compile(r.Require, options()...); err != nil {
		return c, fmt.Errorf("invalid require expression: %w", err)
	}
	if r.When != "" {
		if c.when, err = expr.Compile(r.When, options()...); err != nil {
			return c, fmt.Errorf("invalid when expression: %w", err)
		}
	}
	return c, nil
}

// Len returns the number of rules.
func (s *Set) Len() int { return len(s.rules) }

// ValidateSet runs every rule whose element pattern matches path.
func (s *Set) ValidateSet(tree *cmi.Composite, path, value string) *domain.Error {
	var env map[string]any
	for _, c := range s.rules {
		if !c.element.MatchString(path) {
			continue
		}
		if env == nil {
			env = environment(tree, path, value)
		}
		if c.when != nil {
			ok, err := run(c.when, env)
			if err != nil {
				return domain.NewError(domain.KeyGeneralSetFailure, err.Error())
			}
			if !ok {
				continue
			}
		}
		ok, err := run(c.require, env)
		if err != nil {
			return domain.NewError(domain.KeyGeneralSetFailure, err.Error())
		}
		if !ok {
			msg := c.rule.Message
			if msg == "" {
				msg = fmt.Sprintf("%s fails %s", path, c.rule.Require)
			}
			return domain.NewError(c.key, msg)
		}
	}
	return nil
}

func run(p *vm.Program, env map[string]any) (bool, error) {
	out, err := expr.Run(p, env)
	if err != nil {
		return false, fmt.Errorf("failed to evaluate rule: %w", err)
	}
	ok, _ := out.(bool)
	return ok, nil
}

func options() []expr.Option {
	return []expr.Option{
		expr.Env(environment(nil, "", "")),
		expr.AsBool(),
	}
}

func environment(tree *cmi.Composite, path, value string) map[string]any {
	return map[string]any{
		"path":  path,
		"value": value,
		"item":  itemOf(path),
		"get": func(p string) string {
			if tree == nil {
				return ""
			}
			return cmi.ValueAt(tree, p)
		},
		"isset": func(p string) bool {
			if tree == nil {
				return false
			}
			l, ok := cmi.LeafAt(tree, p)
			return ok && l.Initialized()
		},
		"num": func(s string) float64 {
			n, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return 0
			}
			return n
		},
	}
}

// itemOf returns the path of the innermost collection item containing path.
func itemOf(path string) string {
	segs := strings.Split(path, ".")
	for i := len(segs) - 2; i > 0; i-- {
		if _, err := strconv.Atoi(segs[i]); err == nil {
			return strings.Join(segs[:i+1], ".")
		}
	}
	return ""
}
