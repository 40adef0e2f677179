package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"crewplan-backend/internal/models"
	"crewplan-backend/internal/services"
)

// ShiftStore is the sqlx-backed shift persistence
type ShiftStore struct {
	db *sqlx.DB
}

// NewShiftStore creates a ShiftStore
func NewShiftStore(db *sqlx.DB) *ShiftStore {
	return &ShiftStore{db: db}
}

const shiftColumns = `id, schedule_id, date, start_time, end_time, hours, positions,
	employee_id, actual_start_time, actual_end_time, variance_reason, created_at, updated_at`

// Filter returns shifts matching the non-zero criteria, ordered by date and start time
func (s *ShiftStore) Filter(ctx context.Context, f services.ShiftFilter) ([]models.Shift, error) {
	query := `SELECT ` + shiftColumns + ` FROM shifts`
	var clauses []string
	var args []interface{}

	if f.ScheduleID != "" {
		args = append(args, f.ScheduleID)
		clauses = append(clauses, fmt.Sprintf("schedule_id = $%d", len(args)))
	}
	if f.EmployeeID != "" {
		args = append(args, f.EmployeeID)
		clauses = append(clauses, fmt.Sprintf("employee_id = $%d", len(args)))
	}
	if f.Date != "" {
		args = append(args, f.Date)
		clauses = append(clauses, fmt.Sprintf("date = $%d", len(args)))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY date, start_time, id"

	shifts := []models.Shift{}
	if err := s.db.SelectContext(ctx, &shifts, query, args...); err != nil {
		return nil, fmt.Errorf("filtering shifts: %w", err)
	}
	return shifts, nil
}

// Create inserts a shift. Temporary draft identities are replaced with a
// fresh uuid; the returned row carries the persisted id.
func (s *ShiftStore) Create(ctx context.Context, shift *models.Shift) (*models.Shift, error) {
	id := shift.ID
	if id == "" || services.IsTempID(id) {
		id = uuid.New().String()
	}

	query := `INSERT INTO shifts (` + shiftColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING ` + shiftColumns

	var created models.Shift
	err := s.db.GetContext(ctx, &created, query,
		id,
		shift.ScheduleID,
		shift.Date,
		shift.StartTime,
		shift.EndTime,
		shift.Hours,
		pq.Array([]string(shift.Positions)),
		shift.EmployeeID,
		shift.ActualStartTime,
		shift.ActualEndTime,
		shift.VarianceReason,
		shift.CreatedAt,
		shift.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("creating shift: %w", err)
	}
	return &created, nil
}

// Update overwrites a shift row
func (s *ShiftStore) Update(ctx context.Context, id string, shift *models.Shift) (*models.Shift, error) {
	query := `UPDATE shifts
		SET date = $1, start_time = $2, end_time = $3, hours = $4, positions = $5,
			employee_id = $6, actual_start_time = $7, actual_end_time = $8,
			variance_reason = $9, updated_at = $10
		WHERE id = $11
		RETURNING ` + shiftColumns

	var updated models.Shift
	err := s.db.GetContext(ctx, &updated, query,
		shift.Date,
		shift.StartTime,
		shift.EndTime,
		shift.Hours,
		pq.Array([]string(shift.Positions)),
		shift.EmployeeID,
		shift.ActualStartTime,
		shift.ActualEndTime,
		shift.VarianceReason,
		shift.UpdatedAt,
		id,
	)
	if err == sql.ErrNoRows {
		return nil, services.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("updating shift %s: %w", id, err)
	}
	return &updated, nil
}

// Delete removes a shift. A missing row maps to services.ErrNotFound so
// callers can treat it as an already-satisfied precondition.
func (s *ShiftStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM shifts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting shift %s: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return services.ErrNotFound
	}
	return nil
}

// BulkCreate inserts a batch of shifts inside one transaction
func (s *ShiftStore) BulkCreate(ctx context.Context, shifts []models.Shift) ([]models.Shift, error) {
	if len(shifts) == 0 {
		return []models.Shift{}, nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("starting bulk insert: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO shifts (` + shiftColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING ` + shiftColumns

	created := make([]models.Shift, 0, len(shifts))
	for _, shift := range shifts {
		var row models.Shift
		err := tx.GetContext(ctx, &row, query,
			shift.ID,
			shift.ScheduleID,
			shift.Date,
			shift.StartTime,
			shift.EndTime,
			shift.Hours,
			pq.Array([]string(shift.Positions)),
			shift.EmployeeID,
			shift.ActualStartTime,
			shift.ActualEndTime,
			shift.VarianceReason,
			shift.CreatedAt,
			shift.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("bulk inserting shift: %w", err)
		}
		created = append(created, row)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing bulk insert: %w", err)
	}
	return created, nil
}
