package jobs

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo keeps jobs in memory. Used when no DATABASE_URL is configured,
// which is how local development runs.
type MemoryRepo struct {
	mu   sync.Mutex
	jobs map[string]*Job
}

// NewMemoryRepo creates an empty in-memory repo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{jobs: make(map[string]*Job)}
}

// Create stores a new job.
func (r *MemoryRepo) Create(ctx context.Context, job *Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	job.CreatedAt = now
	job.UpdatedAt = now
	r.jobs[job.ID] = copyJob(job)
	return nil
}

func copyJob(job *Job) *Job {
	cp := *job
	if job.Data != nil {
		d := job.Data.Clone()
		cp.Data = &d
	}
	return &cp
}

// Get fetches one job by ID.
func (r *MemoryRepo) Get(ctx context.Context, id string) (*Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyJob(job), nil
}

// List returns all jobs, newest first.
func (r *MemoryRepo) List(ctx context.Context) ([]*Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Job, 0, len(r.jobs))
	for _, job := range r.jobs {
		out = append(out, copyJob(job))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Transition performs the compare-and-set move under the repo lock. Moves
// the state machine does not define are refused before the job is touched.
func (r *MemoryRepo) Transition(ctx context.Context, id string, from, to Status, upd Update) (*Job, error) {
	if !from.CanTransition(to) {
		return nil, &TransitionError{From: from, To: to}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok {
		return nil, ErrNotFound
	}
	if job.Status != from {
		return nil, ErrConflict
	}

	job.Status = to
	job.UpdatedAt = time.Now().UTC()
	if upd.Data != nil {
		d := upd.Data.Clone()
		job.Data = &d
	}
	if upd.IssuanceID != nil {
		job.IssuanceID = *upd.IssuanceID
	}
	if upd.IssuanceUUID != nil {
		job.IssuanceUUID = *upd.IssuanceUUID
	}
	if upd.ErrorMessage != nil {
		job.ErrorMessage = *upd.ErrorMessage
	}

	return copyJob(job), nil
}
