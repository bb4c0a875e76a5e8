package jobs

import (
	"context"

	"cartaporte-backend/internal/shipment"
)

// Update carries the mutable columns for a transition. Nil fields are left
// untouched.
type Update struct {
	Data         *shipment.ShipmentData
	IssuanceID   *string
	IssuanceUUID *string
	ErrorMessage *string
}

// Repo is the persistence boundary for jobs.
//
// Transition is a compare-and-set: it moves the job from exactly the given
// status to the next one, applying the update atomically, and returns
// ErrConflict when the job is no longer in the expected status. That check
// is what keeps two concurrent extract or emit requests from both running.
type Repo interface {
	Create(ctx context.Context, job *Job) error
	Get(ctx context.Context, id string) (*Job, error)
	List(ctx context.Context) ([]*Job, error)
	Transition(ctx context.Context, id string, from, to Status, upd Update) (*Job, error)
}
