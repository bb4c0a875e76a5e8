package jobs

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryRepoTransition(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	if err := repo.Create(ctx, &Job{ID: "job-1", Status: StatusReceived}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	job, err := repo.Transition(ctx, "job-1", StatusReceived, StatusExtracting, Update{})
	if err != nil {
		t.Fatalf("Transition: %v", err)
	}
	if job.Status != StatusExtracting {
		t.Errorf("status = %s", job.Status)
	}
}

func TestMemoryRepoTransitionConflict(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	if err := repo.Create(ctx, &Job{ID: "job-1", Status: StatusExtracting}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err := repo.Transition(ctx, "job-1", StatusReceived, StatusExtracting, Update{})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
}

func TestMemoryRepoTransitionRejectsIllegalMove(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	if err := repo.Create(ctx, &Job{ID: "job-1", Status: StatusIssued}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err := repo.Transition(ctx, "job-1", StatusIssued, StatusExtracting, Update{})
	var tErr *TransitionError
	if !errors.As(err, &tErr) {
		t.Fatalf("err = %v, want TransitionError", err)
	}

	// The job must be untouched after the refusal.
	job, err := repo.Get(ctx, "job-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if job.Status != StatusIssued {
		t.Errorf("status = %s, want ISSUED", job.Status)
	}
}
