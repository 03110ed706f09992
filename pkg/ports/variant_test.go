package ports_test

import (
	"context"
	"testing"

	"github.com/aretw0/scorm/pkg/domain"
	"github.com/aretw0/scorm/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type partialVariant struct {
	ports.UnimplementedVariant
}

func (partialVariant) Name() string { return "partial" }

func TestUnimplementedVariant(t *testing.T) {
	var v ports.Variant = partialVariant{}

	assert.Equal(t, "partial", v.Name())
	assert.Nil(t, v.ValidateSet(nil, "cmi.x", "1"))
	assert.Nil(t, v.Aliases())

	assert.PanicsWithValue(t, ports.ErrUnimplementedHook, func() { v.NewTree() })
	assert.PanicsWithValue(t, ports.ErrUnimplementedHook, func() { v.Errors() })
	assert.PanicsWithValue(t, ports.ErrUnimplementedHook, func() { v.Finalize(nil, ports.FinalizeContext{}) })
}

func TestTransportFunc(t *testing.T) {
	var got domain.CommitRequest
	var tr ports.Transport = ports.TransportFunc(func(_ context.Context, req domain.CommitRequest) (domain.CommitResult, error) {
		got = req
		return domain.CommitResult{Success: true}, nil
	})

	res, err := tr.Send(context.Background(), domain.CommitRequest{SessionID: "s1", Destination: "mem://"})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "s1", got.SessionID)
}
