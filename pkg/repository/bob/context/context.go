package context

import (
	"context"

	"github.com/stephenafamo/bob"
)

type executorKey struct{}

// NewContext returns a context carrying the executor of a running transaction.
func NewContext(ctx context.Context, executor bob.Executor) context.Context {
	return context.WithValue(ctx, executorKey{}, executor)
}

func FromContext(ctx context.Context) bob.Executor {
	if ctx == nil {
		return nil
	}
	if executor, ok := ctx.Value(executorKey{}).(bob.Executor); ok {
		return executor
	}
	return nil
}

// Executor returns the executor of ctx, fallback otherwise.
func Executor(ctx context.Context, fallback bob.Executor) bob.Executor {
	if executor := FromContext(ctx); executor != nil {
		return executor
	}
	return fallback
}
