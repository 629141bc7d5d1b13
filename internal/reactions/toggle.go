// Package reactions implements the like and subscription toggles.
//
// A toggle is read-then-write. Two concurrent toggles can both read "absent";
// the store's unique index then rejects the second insert, which is taken as
// a signal that the relation now exists and is retried as a delete.
package reactions

import (
	"context"
	"errors"

	"github.com/anonto42/vidtube/backend/internal/apperrors"
	"github.com/anonto42/vidtube/backend/internal/repositories"
)

const maxToggleAttempts = 3

// relation is one (actor, target) edge that can be toggled
type relation interface {
	exists(ctx context.Context) (bool, error)
	create(ctx context.Context) error
	remove(ctx context.Context) (bool, error)
}

// toggle flips r and returns whether the relation exists afterwards
func toggle(ctx context.Context, r relation) (bool, error) {
	for attempt := 0; attempt < maxToggleAttempts; attempt++ {
		present, err := r.exists(ctx)
		if err != nil {
			return false, apperrors.Internal("failed to read current state", err)
		}

		if !present {
			err := r.create(ctx)
			if err == nil {
				return true, nil
			}
			if errors.Is(err, repositories.ErrConflict) {
				continue
			}
			return false, apperrors.Internal("failed to save", err)
		}

		removed, err := r.remove(ctx)
		if err != nil {
			return false, apperrors.Internal("failed to remove", err)
		}
		if removed {
			return false, nil
		}
		// removed by a concurrent toggle between the read and the delete
	}
	return false, apperrors.Conflict("concurrent update, please retry")
}
