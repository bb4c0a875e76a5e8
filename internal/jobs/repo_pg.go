package jobs

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"cartaporte-backend/internal/shipment"
)

// PGRepo stores jobs in Postgres.
type PGRepo struct {
	db *sql.DB
}

// NewPGRepo creates a Postgres-backed repo.
func NewPGRepo(db *sql.DB) *PGRepo {
	return &PGRepo{db: db}
}

const jobColumns = `id, status, owner, storage_path, file_type, extracted_data, issuance_id, issuance_uuid, error_message, created_at, updated_at`

// Create inserts a new job row.
func (r *PGRepo) Create(ctx context.Context, job *Job) error {
	now := time.Now().UTC()
	job.CreatedAt = now
	job.UpdatedAt = now

	data, err := marshalData(job.Data)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO jobs (id, status, owner, storage_path, file_type, extracted_data, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		job.ID, string(job.Status), job.Owner, job.StoragePath, job.FileType, data, job.CreatedAt, job.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

// Get fetches one job by ID.
func (r *PGRepo) Get(ctx context.Context, id string) (*Job, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id)
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return job, nil
}

// List returns all jobs, newest first.
func (r *PGRepo) List(ctx context.Context) ([]*Job, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+jobColumns+` FROM jobs ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var out []*Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		out = append(out, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return out, nil
}

// Transition performs the compare-and-set move. Legality is checked against
// the state machine before any SQL runs; the WHERE clause on the current
// status then makes concurrent transitions race safely: exactly one UPDATE
// matches, the rest see zero rows and report ErrConflict.
func (r *PGRepo) Transition(ctx context.Context, id string, from, to Status, upd Update) (*Job, error) {
	if !from.CanTransition(to) {
		return nil, &TransitionError{From: from, To: to}
	}

	sets := []string{"status = $3", "updated_at = $4"}
	args := []any{id, string(from), string(to), time.Now().UTC()}

	if upd.Data != nil {
		data, err := marshalData(upd.Data)
		if err != nil {
			return nil, err
		}
		args = append(args, data)
		sets = append(sets, "extracted_data = $"+strconv.Itoa(len(args)))
	}
	if upd.IssuanceID != nil {
		args = append(args, *upd.IssuanceID)
		sets = append(sets, "issuance_id = $"+strconv.Itoa(len(args)))
	}
	if upd.IssuanceUUID != nil {
		args = append(args, *upd.IssuanceUUID)
		sets = append(sets, "issuance_uuid = $"+strconv.Itoa(len(args)))
	}
	if upd.ErrorMessage != nil {
		args = append(args, *upd.ErrorMessage)
		sets = append(sets, "error_message = $"+strconv.Itoa(len(args)))
	}

	query := `UPDATE jobs SET ` + strings.Join(sets, ", ") +
		` WHERE id = $1 AND status = $2 RETURNING ` + jobColumns

	row := r.db.QueryRowContext(ctx, query, args...)
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		if _, getErr := r.Get(ctx, id); errors.Is(getErr, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, ErrConflict
	}
	if err != nil {
		return nil, fmt.Errorf("transition job: %w", err)
	}
	return job, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*Job, error) {
	var (
		job          Job
		status       string
		data         sql.NullString
		issuanceID   sql.NullString
		issuanceUUID sql.NullString
		errorMessage sql.NullString
	)
	err := row.Scan(
		&job.ID, &status, &job.Owner, &job.StoragePath, &job.FileType,
		&data, &issuanceID, &issuanceUUID, &errorMessage,
		&job.CreatedAt, &job.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	job.Status = Status(status)
	job.IssuanceID = issuanceID.String
	job.IssuanceUUID = issuanceUUID.String
	job.ErrorMessage = errorMessage.String

	if data.Valid && data.String != "" {
		var d shipment.ShipmentData
		if err := json.Unmarshal([]byte(data.String), &d); err != nil {
			return nil, fmt.Errorf("decode extracted data: %w", err)
		}
		job.Data = &d
	}
	return &job, nil
}

func marshalData(d *shipment.ShipmentData) (any, error) {
	if d == nil {
		return nil, nil
	}
	raw, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("encode extracted data: %w", err)
	}
	return string(raw), nil
}
