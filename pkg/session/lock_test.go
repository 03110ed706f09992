package session

import (
	"context"
	"testing"

	"github.com/aretw0/scorm/pkg/registry"
	"github.com/aretw0/scorm/pkg/variant/scorm12"
)

func TestManager_LockLifecycle(t *testing.T) {
	mgr := NewManager(registry.Default())
	ctx := context.Background()
	count := 1000

	for i := 0; i < count; i++ {
		s, err := mgr.Create(ctx, scorm12.Name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := mgr.Call(ctx, s.ID(), "LMSInitialize", ""); err != nil {
			t.Fatal(err)
		}
		if err := mgr.Remove(ctx, s.ID()); err != nil {
			t.Fatal(err)
		}
	}

	if lockCount := len(mgr.locks); lockCount != 0 {
		t.Errorf("Memory Leak Detected: %d locks remaining in memory after Remove", lockCount)
	}
	if n := len(mgr.sessions); n != 0 {
		t.Errorf("%d sessions still hosted after Remove", n)
	}
}
