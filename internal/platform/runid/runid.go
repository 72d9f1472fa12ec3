package runid

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey struct{}

// New returns a random identifier for one invocation.
func New() string {
	return uuid.NewString()
}

func WithContext(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}
