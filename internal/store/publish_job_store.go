package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"crewplan-backend/internal/models"
	"crewplan-backend/internal/services"
)

// PublishJobStore is the sqlx-backed publish job persistence
type PublishJobStore struct {
	db *sqlx.DB
}

// NewPublishJobStore creates a PublishJobStore
func NewPublishJobStore(db *sqlx.DB) *PublishJobStore {
	return &PublishJobStore{db: db}
}

const publishJobColumns = `id, week_start_date, source_schedule_id, status,
	completed_at, error_message, created_by, created_at, updated_at`

// Filter returns jobs matching the non-zero criteria, newest first
func (s *PublishJobStore) Filter(ctx context.Context, f services.PublishJobFilter) ([]models.PublishJob, error) {
	query := `SELECT ` + publishJobColumns + ` FROM publish_jobs`
	var clauses []string
	var args []interface{}

	if f.SourceScheduleID != "" {
		args = append(args, f.SourceScheduleID)
		clauses = append(clauses, fmt.Sprintf("source_schedule_id = $%d", len(args)))
	}
	if len(f.Statuses) > 0 {
		statuses := make([]string, 0, len(f.Statuses))
		for _, st := range f.Statuses {
			statuses = append(statuses, string(st))
		}
		args = append(args, pq.Array(statuses))
		clauses = append(clauses, fmt.Sprintf("status = ANY($%d)", len(args)))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at DESC"

	jobs := []models.PublishJob{}
	if err := s.db.SelectContext(ctx, &jobs, query, args...); err != nil {
		return nil, fmt.Errorf("filtering publish jobs: %w", err)
	}
	return jobs, nil
}

// Get returns one job by id
func (s *PublishJobStore) Get(ctx context.Context, id string) (*models.PublishJob, error) {
	var job models.PublishJob
	err := s.db.GetContext(ctx, &job,
		`SELECT `+publishJobColumns+` FROM publish_jobs WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, services.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting publish job %s: %w", id, err)
	}
	return &job, nil
}

// Create inserts a job row
func (s *PublishJobStore) Create(ctx context.Context, job *models.PublishJob) (*models.PublishJob, error) {
	query := `INSERT INTO publish_jobs (` + publishJobColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + publishJobColumns

	var created models.PublishJob
	err := s.db.GetContext(ctx, &created, query,
		job.ID,
		job.WeekStartDate,
		job.SourceScheduleID,
		job.Status,
		job.CompletedAt,
		job.ErrorMessage,
		job.CreatedBy,
		job.CreatedAt,
		job.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("creating publish job: %w", err)
	}
	return &created, nil
}

// Update overwrites a job row
func (s *PublishJobStore) Update(ctx context.Context, id string, job *models.PublishJob) (*models.PublishJob, error) {
	query := `UPDATE publish_jobs
		SET status = $1, completed_at = $2, error_message = $3, updated_at = $4
		WHERE id = $5
		RETURNING ` + publishJobColumns

	var updated models.PublishJob
	err := s.db.GetContext(ctx, &updated, query,
		job.Status,
		job.CompletedAt,
		job.ErrorMessage,
		job.UpdatedAt,
		id,
	)
	if err == sql.ErrNoRows {
		return nil, services.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("updating publish job %s: %w", id, err)
	}
	return &updated, nil
}
