package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"cartaporte-backend/internal/cartaporte"
	"cartaporte-backend/internal/invoicing"
	"cartaporte-backend/internal/shared/metrics"
	"cartaporte-backend/internal/shared/telemetry"
	"cartaporte-backend/internal/shipment"
)

// defaultOwner is the single actor until auth lands.
const defaultOwner = "User"

// Extractor produces a shipment model from a stored document. On failure it
// still returns a usable (empty) model alongside the error.
type Extractor interface {
	Extract(ctx context.Context, storagePath, fileType string) (shipment.ShipmentData, error)
}

// FieldUpdate is one review edit.
type FieldUpdate struct {
	Path  string          `json:"path"`
	Value json.RawMessage `json:"value"`
}

// Service drives jobs through the pipeline.
type Service struct {
	repo            Repo
	extractor       Extractor
	issuer          invoicing.Client
	expeditionPlace string
}

// NewService wires the pipeline dependencies.
func NewService(repo Repo, extractor Extractor, issuer invoicing.Client, expeditionPlace string) *Service {
	return &Service{
		repo:            repo,
		extractor:       extractor,
		issuer:          issuer,
		expeditionPlace: expeditionPlace,
	}
}

// CreateFromUpload registers a stored document as a new RECEIVED job.
func (s *Service) CreateFromUpload(ctx context.Context, storagePath, fileType string) (*Job, error) {
	job := &Job{
		ID:          uuid.NewString(),
		Status:      StatusReceived,
		Owner:       defaultOwner,
		StoragePath: storagePath,
		FileType:    fileType,
	}
	if err := s.repo.Create(ctx, job); err != nil {
		return nil, err
	}
	telemetry.Info("job created", map[string]any{"jobId": job.ID, "fileType": fileType})
	return job, nil
}

// Get returns one job.
func (s *Service) Get(ctx context.Context, id string) (*Job, error) {
	return s.repo.Get(ctx, id)
}

// List returns all jobs, newest first.
func (s *Service) List(ctx context.Context) ([]*Job, error) {
	return s.repo.List(ctx)
}

// Extract runs the extraction pipeline for a RECEIVED job. The initial
// compare-and-set into EXTRACTING makes a second concurrent call lose cleanly
// instead of running the model twice. A failed extraction parks the job in
// FAILED with the empty model persisted, so the document can still be
// captured manually on a fresh upload.
func (s *Service) Extract(ctx context.Context, id string) (*Job, error) {
	job, err := s.claim(ctx, id, StatusReceived, StatusExtracting, "extract")
	if err != nil {
		return nil, err
	}

	metrics.IncExtractionStarted()
	start := time.Now()
	data, extractErr := s.extractor.Extract(ctx, job.StoragePath, job.FileType)
	metrics.ObserveExtractionDurationMs(float64(time.Since(start).Milliseconds()))

	if extractErr != nil {
		metrics.IncExtractionFailed()
		msg := extractErr.Error()
		failed, err := s.repo.Transition(ctx, id, StatusExtracting, StatusFailed, Update{
			Data:         &data,
			ErrorMessage: &msg,
		})
		if err != nil {
			return nil, err
		}
		telemetry.Error("extraction failed", map[string]any{
			"jobId":            id,
			"statusTransition": string(StatusExtracting) + "->" + string(StatusFailed),
			"error":            msg,
		})
		return failed, nil
	}

	metrics.IncExtractionCompleted()
	done, err := s.repo.Transition(ctx, id, StatusExtracting, StatusNeedsReview, Update{Data: &data})
	if err != nil {
		return nil, err
	}
	telemetry.Info("extraction completed", map[string]any{
		"jobId":            id,
		"statusTransition": string(StatusExtracting) + "->" + string(StatusNeedsReview),
		"durationMs":       time.Since(start).Milliseconds(),
	})
	return done, nil
}

// UpdateFields applies review edits while the job is under review. The batch
// is atomic: one bad path rejects the whole request and nothing persists.
// Edited sections get confidence 1.0: a human looked at them.
func (s *Service) UpdateFields(ctx context.Context, id string, updates []FieldUpdate) (*Job, error) {
	if len(updates) == 0 {
		return nil, &ValidationError{Reason: "no updates given"}
	}

	job, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if job.Status != StatusNeedsReview {
		return nil, &StateError{JobID: id, Status: job.Status, Op: "edit"}
	}
	if job.Data == nil {
		return nil, &ValidationError{Reason: "job has no extracted data"}
	}

	data := job.Data.Clone()
	if data.Confidence == nil {
		data.Confidence = make(map[string]float64, len(shipment.ReviewSections))
	}
	for _, u := range updates {
		if err := data.SetField(u.Path, u.Value); err != nil {
			return nil, &ValidationError{Reason: err.Error()}
		}
		if section := shipment.SectionOf(u.Path); section != "" {
			data.Confidence[section] = 1.0
		}
	}

	updated, err := s.repo.Transition(ctx, id, StatusNeedsReview, StatusNeedsReview, Update{Data: &data})
	if err != nil {
		return nil, err
	}
	telemetry.Info("fields updated", map[string]any{"jobId": id, "updates": len(updates)})
	return updated, nil
}

// MarkReady moves a reviewed job to READY after checking that the totals
// still agree with the line items. Totals go to the invoice verbatim, so
// this is the last gate before they are signed.
func (s *Service) MarkReady(ctx context.Context, id string) (*Job, error) {
	job, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if job.Status != StatusNeedsReview {
		return nil, &StateError{JobID: id, Status: job.Status, Op: "mark ready"}
	}
	if job.Data == nil {
		return nil, &ValidationError{Reason: "job has no extracted data"}
	}
	if err := job.Data.CheckTotals(); err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}

	ready, err := s.repo.Transition(ctx, id, StatusNeedsReview, StatusReady, Update{})
	if err != nil {
		return nil, err
	}
	telemetry.Info("job ready", map[string]any{
		"jobId":            id,
		"statusTransition": string(StatusNeedsReview) + "->" + string(StatusReady),
	})
	return ready, nil
}

// Emit transforms the reviewed model and stamps it with the provider. The
// claim into ISSUING serializes concurrent emit requests; a provider failure
// parks the job in FAILED with the provider's message.
func (s *Service) Emit(ctx context.Context, id string) (*Job, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status != StatusReady {
		return nil, &StateError{JobID: id, Status: current.Status, Op: "emit"}
	}
	// Model presence is part of the precondition; checked before claiming
	// so a bad job never gets stuck in ISSUING.
	if current.Data == nil {
		return nil, &ValidationError{Reason: "job has no extracted data"}
	}

	job, err := s.repo.Transition(ctx, id, StatusReady, StatusIssuing, Update{})
	if err != nil {
		return nil, err
	}

	metrics.IncEmissionStarted()
	start := time.Now()
	doc := cartaporte.Transform(*job.Data, s.expeditionPlace)
	iss, issueErr := s.issuer.Issue(ctx, doc)
	metrics.ObserveEmissionDurationMs(float64(time.Since(start).Milliseconds()))

	if issueErr != nil {
		metrics.IncEmissionFailed()
		msg := issueErr.Error()
		failed, err := s.repo.Transition(ctx, id, StatusIssuing, StatusFailed, Update{ErrorMessage: &msg})
		if err != nil {
			return nil, err
		}
		telemetry.Error("emission failed", map[string]any{
			"jobId":            id,
			"statusTransition": string(StatusIssuing) + "->" + string(StatusFailed),
			"error":            msg,
		})
		return failed, nil
	}

	metrics.IncEmissionCompleted()
	issued, err := s.repo.Transition(ctx, id, StatusIssuing, StatusIssued, Update{
		IssuanceID:   &iss.ID,
		IssuanceUUID: &iss.UUID,
	})
	if err != nil {
		return nil, err
	}
	telemetry.Info("emission completed", map[string]any{
		"jobId":            id,
		"statusTransition": string(StatusIssuing) + "->" + string(StatusIssued),
		"uuid":             iss.UUID,
	})
	return issued, nil
}

// Download fetches an issued invoice artifact. kind is "pdf" or "xml".
func (s *Service) Download(ctx context.Context, id, kind string) ([]byte, string, error) {
	job, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if job.Status != StatusIssued {
		return nil, "", &StateError{JobID: id, Status: job.Status, Op: "download"}
	}

	switch kind {
	case "pdf":
		data, err := s.issuer.DownloadPDF(ctx, job.IssuanceID)
		return data, "application/pdf", err
	case "xml":
		data, err := s.issuer.DownloadXML(ctx, job.IssuanceID)
		return data, "application/xml", err
	}
	return nil, "", &ValidationError{Reason: fmt.Sprintf("unknown artifact kind %q", kind)}
}

// claim does the guarded entry into a work state. A wrong-state job gets a
// StateError naming its actual status; losing the compare-and-set race
// surfaces as ErrConflict.
func (s *Service) claim(ctx context.Context, id string, from, to Status, op string) (*Job, error) {
	job, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if job.Status != from {
		return nil, &StateError{JobID: id, Status: job.Status, Op: op}
	}
	claimed, err := s.repo.Transition(ctx, id, from, to, Update{})
	if err != nil {
		return nil, err
	}
	return claimed, nil
}
