package jobs

import (
	"errors"
	"fmt"
)

// ErrNotFound means no job exists with the requested ID.
var ErrNotFound = errors.New("job not found")

// ErrConflict means a transition lost the compare-and-set race: another
// request moved the job first. The caller should re-read the job.
var ErrConflict = errors.New("job was modified concurrently")

// TransitionError rejects a move the state machine does not define. Repos
// refuse it before touching storage, so an illegal pair can never persist no
// matter what a call site asks for.
type TransitionError struct {
	From Status
	To   Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("illegal transition %s -> %s", e.From, e.To)
}

// StateError rejects an operation against a job in the wrong state, for
// example extracting twice or emitting before review.
type StateError struct {
	JobID  string
	Status Status
	Op     string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("cannot %s job %s in status %s", e.Op, e.JobID, e.Status)
}

// ValidationError rejects bad input on a review edit or ready check.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}
