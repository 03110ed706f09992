package runtime_test

import (
	"testing"

	"github.com/aretw0/scorm/internal/runtime"
	"github.com/aretw0/scorm/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestBus(t *testing.T) {
	bus := runtime.NewBus(map[string]domain.Operation{"LMSSetValue": domain.OpSetValue})

	var order []string
	record := func(tag string) domain.Callback {
		return func(element, value string) { order = append(order, tag+":"+element+"="+value) }
	}

	assert.Equal(t, 2, bus.On("SetValue.cmi.core.score.raw   Commit", record("a")))
	assert.Equal(t, 1, bus.On("LMSSetValue", record("b")))
	assert.Equal(t, 1, bus.On("SetValue.cmi.core.score", record("prefix")))
	assert.Equal(t, 0, bus.On("SetValue", nil))
	assert.Equal(t, 4, bus.Len())

	bus.Notify(domain.OpSetValue, "cmi.core.score.raw", "80")
	assert.Equal(t, []string{"a:cmi.core.score.raw=80", "b:cmi.core.score.raw=80"}, order)

	order = nil
	bus.Notify(domain.OpSetValue, "cmi.core.score.min", "1")
	assert.Equal(t, []string{"b:cmi.core.score.min=1"}, order, "element filters match exactly")

	order = nil
	bus.Notify(domain.OpCommit, "", "")
	assert.Equal(t, []string{"a:="}, order)

	t.Run("Clear", func(t *testing.T) {
		assert.Equal(t, 1, bus.Clear("LMSSetValue"))
		assert.Equal(t, 0, bus.Clear("SetValue.cmi.nothing"))
		assert.Equal(t, 3, bus.Len())

		order = nil
		bus.Notify(domain.OpSetValue, "cmi.core.score.raw", "90")
		assert.Equal(t, []string{"a:cmi.core.score.raw=90"}, order)
	})
}
