package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const DefaultMaxRetries = 3

/*
WithRetry runs a read‑mutate‑update loop with optimistic locking.
mutate receives a fresh copy on every attempt; returning an error aborts
the loop without writing.
*/
func WithRetry(
	ctx context.Context,
	s Store,
	collection string,
	id uuid.UUID,
	maxRetries int,
	mutate func(*Document) error,
) (*Document, error) {
	for attempt := 0; attempt < maxRetries; attempt++ {
		current, err := s.Get(ctx, collection, id)
		if err != nil {
			return nil, err
		}
		if current == nil {
			return nil, errors.WithStack(ErrNotFound)
		}

		oldVersion := current.RowVersion

		if err := mutate(current); err != nil {
			return nil, err
		}

		ok, err := s.UpdateIfVersion(ctx, current, oldVersion)
		if err != nil {
			return nil, err
		}
		if ok {
			return current, nil
		}
		// someone else updated first – retry
	}
	return nil, errors.Wrapf(ErrConflict, "too much contention updating %s %q", collection, id)
}
