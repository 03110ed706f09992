package ports

import (
	"context"

	"github.com/aretw0/scorm/pkg/domain"
)

// Transport delivers a rendered commit. A returned error is a transport fault and is
// reported as a general commit failure; a result with Success false carries the
// receiver's own error code.
type Transport interface {
	Send(ctx context.Context, req domain.CommitRequest) (domain.CommitResult, error)
}

// TransportFunc adapts a function into a Transport.
type TransportFunc func(ctx context.Context, req domain.CommitRequest) (domain.CommitResult, error)

// Send calls f.
func (f TransportFunc) Send(ctx context.Context, req domain.CommitRequest) (domain.CommitResult, error) {
	return f(ctx, req)
}
