package validate_test

import (
	"math"
	"strings"
	"testing"

	"github.com/aretw0/scorm/pkg/domain"
	"github.com/aretw0/scorm/pkg/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keyOf(err *domain.Error) domain.ErrorKey {
	if err == nil {
		return ""
	}
	return err.Key
}

func TestFormat(t *testing.T) {
	rule := validate.Format(`^(?:[01]\d|2[0123]):(?:[012345]\d):(?:[012345]\d)$`)

	assert.Nil(t, rule.Check("23:59:59"))
	assert.Equal(t, domain.KeyTypeMismatch, keyOf(rule.Check("24:00:00")))
	assert.Equal(t, domain.KeyTypeMismatch, keyOf(rule.Check("")))

	t.Run("Empty match is rejected unless optional", func(t *testing.T) {
		exit := validate.Format(`^(time-out|suspend|logout|)$`)
		assert.Equal(t, domain.KeyTypeMismatch, keyOf(exit.Check("")))
		assert.Nil(t, validate.Optional(exit).Check(""))
		assert.Nil(t, exit.Check("suspend"))
	})
}

func TestRange(t *testing.T) {
	score := validate.All(
		validate.Format(`^-?([0-9]{0,3})(\.[0-9]*)?$`),
		validate.MustRange("0#100"),
	)

	assert.Nil(t, score.Check("0"))
	assert.Nil(t, score.Check("100"))
	assert.Nil(t, score.Check("55.5"))
	assert.Equal(t, domain.KeyValueOutOfRange, keyOf(score.Check("101")))
	assert.Equal(t, domain.KeyValueOutOfRange, keyOf(score.Check("-1")))
	assert.Equal(t, domain.KeyTypeMismatch, keyOf(score.Check("abc")), "format runs before range")

	t.Run("Unbounded maximum", func(t *testing.T) {
		r := validate.MustRange("0#*")
		assert.Nil(t, r.Check("1000000"))
		assert.Equal(t, domain.KeyValueOutOfRange, keyOf(r.Check("-0.5")))
	})

	t.Run("Direct bounds", func(t *testing.T) {
		r := validate.Range(-1, math.Inf(1))
		assert.Nil(t, r.Check("-1"))
		assert.Equal(t, domain.KeyTypeMismatch, keyOf(r.Check("NaN")))
	})

	t.Run("Invalid specs", func(t *testing.T) {
		_, err := validate.ParseRange("0-100")
		assert.Error(t, err)
		_, err = validate.ParseRange("a#1")
		assert.Error(t, err)
		_, err = validate.ParseRange("0#b")
		assert.Error(t, err)
		assert.Panics(t, func() { validate.MustRange("x") })
	})
}

func TestMaxLength(t *testing.T) {
	rule := validate.MaxLength(4)
	assert.Nil(t, rule.Check(""))
	assert.Nil(t, rule.Check("ação"), "limit counts characters, not bytes")
	assert.Equal(t, domain.KeyTypeMismatch, keyOf(rule.Check("abcde")))
	assert.Equal(t, domain.KeyTypeMismatch, keyOf(rule.Check(string([]byte{0xff}))))
}

func TestEnum(t *testing.T) {
	rule := validate.Enum("passed", "failed")
	assert.Nil(t, rule.Check("passed"))
	err := rule.Check("Passed")
	require.NotNil(t, err)
	assert.Contains(t, err.Message, "passed|failed")
}

func TestIdentifier(t *testing.T) {
	rule := validate.Identifier(10, false)
	assert.Nil(t, rule.Check("obj-1"))
	assert.Equal(t, domain.KeyTypeMismatch, keyOf(rule.Check("")))
	assert.Equal(t, domain.KeyTypeMismatch, keyOf(rule.Check("has space")))
	assert.Equal(t, domain.KeyTypeMismatch, keyOf(rule.Check(strings.Repeat("a", 11))))
	assert.Nil(t, validate.Identifier(10, true).Check("has space"))
}

func TestLangString(t *testing.T) {
	rule := validate.LangString(5)
	assert.Nil(t, rule.Check("hello"))
	assert.Nil(t, rule.Check("{lang=en-US}hello"), "the delimiter does not count toward the limit")
	assert.Equal(t, domain.KeyTypeMismatch, keyOf(rule.Check("{lang=en}hello!")))
	assert.Equal(t, domain.KeyTypeMismatch, keyOf(rule.Check("{lang=toolong}x")))
	assert.Equal(t, domain.KeyTypeMismatch, keyOf(rule.Check("{lang=en")))

	lang := validate.Language()
	assert.Nil(t, lang.Check(""))
	assert.Nil(t, lang.Check("pt-BR"))
	assert.NotNil(t, lang.Check("english"))
}
