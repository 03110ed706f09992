package middleware

import "github.com/aretw0/scorm/pkg/ports"

// Middleware allows wrapping a CommitStore to add behavior.
type Middleware func(ports.CommitStore) ports.CommitStore

// Chain wraps store so the first middleware is the outermost.
func Chain(store ports.CommitStore, mws ...Middleware) ports.CommitStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
