package registry_test

import (
	"testing"

	"github.com/aretw0/scorm/internal/testutils"
	"github.com/aretw0/scorm/pkg/domain"
	"github.com/aretw0/scorm/pkg/ports"
	"github.com/aretw0/scorm/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	r := registry.Default()
	assert.Equal(t, []string{"aicc", "scorm12", "scorm2004"}, r.Names())

	for _, name := range r.Names() {
		v, err := r.Lookup(name)
		require.NoError(t, err)
		assert.Equal(t, name, v.Name())
	}
}

func TestLookup_Unknown(t *testing.T) {
	_, err := registry.NewRegistry().Lookup("scorm3")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownVariant)
	assert.Contains(t, err.Error(), "scorm3")
}

func TestRegister_Overwrites(t *testing.T) {
	r := registry.Default()
	r.Register("scorm12", func() ports.Variant { return testutils.NewToyVariant() })

	v, err := r.Lookup("scorm12")
	require.NoError(t, err)
	assert.Equal(t, "toy", v.Name())
}
