package resource

import (
	"context"
	"errors"
	"fmt"

	"github.com/cuemby/whale/pkg/log"
)

// Removable is a resource that can be removed with docker
type Removable interface {
	Remove(ctx context.Context, force bool) error
}

// WithScope hands r to fn and force-removes r when fn returns, whether it
// returned an error, succeeded or panicked. A removal error is joined to
// fn's error; a panic is re-raised after removal.
func WithScope[T Removable](ctx context.Context, r T, fn func(T) error) (err error) {
	defer func() {
		recovered := recover()

		if rmErr := r.Remove(ctx, true); rmErr != nil {
			if recovered != nil {
				logger := log.WithComponent("scope")
				logger.Error().Err(rmErr).Msg("Failed to remove scoped resource after panic")
			}
			err = errors.Join(err, fmt.Errorf("failed to remove scoped resource: %w", rmErr))
		}

		if recovered != nil {
			panic(recovered)
		}
	}()

	return fn(r)
}
