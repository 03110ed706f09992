package rules_test

import (
	"testing"

	"github.com/aretw0/scorm"
	"github.com/aretw0/scorm/internal/logging"
	"github.com/aretw0/scorm/pkg/rules"
	"github.com/aretw0/scorm/pkg/variant/scorm12"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompile_Errors(t *testing.T) {
	cases := []struct {
		name string
		rule rules.Rule
		want string
	}{
		{"Missing element", rules.Rule{Require: "true"}, "mandatory"},
		{"Bad pattern", rules.Rule{Element: "cmi.(", Require: "true"}, "invalid element pattern"},
		{"Bad require", rules.Rule{Element: "cmi.x", Require: "value +"}, "invalid require expression"},
		{"Not boolean", rules.Rule{Element: "cmi.x", Require: "value"}, "invalid require expression"},
		{"Bad when", rules.Rule{Element: "cmi.x", Require: "true", When: "nope("}, "invalid when expression"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := rules.Compile([]rules.Rule{tc.rule})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
			assert.Contains(t, err.Error(), "rule 0")
		})
	}
}

func TestSet_WithSession(t *testing.T) {
	set, err := rules.Compile([]rules.Rule{
		{
			Name:    "result-needs-type",
			Element: `cmi\.interactions\.\d+\.result`,
			Require: `isset(item + ".type")`,
			Error:   "dependency_not_established",
		},
		{
			Name:    "raw-below-max",
			Element: `cmi\.core\.score\.raw`,
			When:    `isset("cmi.core.score.max")`,
			Require: `num(value) <= num(get("cmi.core.score.max"))`,
			Error:   "VALUE_OUT_OF_RANGE",
			Message: "raw score exceeds max",
		},
		{
			Name:    "no-shouting",
			Element: `cmi\.suspend_data`,
			Require: `value != upper(value) || value == ""`,
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, set.Len())

	sess, err := scorm.New(scorm12.New(), scorm.WithCrossFieldValidator(set), scorm.WithLogger(logging.NewNop()))
	require.NoError(t, err)
	require.True(t, sess.Initialize())

	steps := []struct {
		path  string
		value string
		code  string
	}{
		{"cmi.core.score.raw", "95", "0"},
		{"cmi.core.score.max", "90", "0"},
		{"cmi.core.score.raw", "95", "407"},
		{"cmi.core.score.raw", "85", "0"},
		{"cmi.interactions.0.id", "q1", "0"},
		{"cmi.interactions.0.result", "correct", "408"},
		{"cmi.interactions.0.type", "choice", "0"},
		{"cmi.interactions.0.result", "correct", "0"},
		{"cmi.suspend_data", "ABC", "101"},
		{"cmi.suspend_data", "abc", "0"},
	}
	for _, s := range steps {
		sess.SetValue(s.path, s.value, true)
		assert.Equal(t, s.code, sess.GetLastError(), s.path+"="+s.value)
	}

	sess.SetValue("cmi.core.score.raw", "99", true)
	assert.Equal(t, "raw score exceeds max", sess.GetDiagnostic(""))
	assert.Equal(t, "85", sess.GetValue("cmi.core.score.raw", true))
}
