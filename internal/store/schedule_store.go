package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"crewplan-backend/internal/models"
	"crewplan-backend/internal/services"
)

// ScheduleStore is the sqlx-backed weekly schedule persistence
type ScheduleStore struct {
	db *sqlx.DB
}

// NewScheduleStore creates a ScheduleStore
func NewScheduleStore(db *sqlx.DB) *ScheduleStore {
	return &ScheduleStore{db: db}
}

const scheduleColumns = `id, week_start_date, schedule_type, name, version_number,
	is_published, published_at, is_starred, total_labor_cost, labor_percentage,
	total_projected_sales, sales_per_labor_hour, created_by, created_at, updated_at`

// Filter returns schedules matching the non-zero criteria, newest version first
func (s *ScheduleStore) Filter(ctx context.Context, f services.ScheduleFilter) ([]models.WeeklySchedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM weekly_schedules`
	var clauses []string
	var args []interface{}

	if f.WeekStartDate != "" {
		args = append(args, f.WeekStartDate)
		clauses = append(clauses, fmt.Sprintf("week_start_date = $%d", len(args)))
	}
	if f.ScheduleType != "" {
		args = append(args, f.ScheduleType)
		clauses = append(clauses, fmt.Sprintf("schedule_type = $%d", len(args)))
	}
	if f.CreatedBy != "" {
		args = append(args, f.CreatedBy)
		clauses = append(clauses, fmt.Sprintf("created_by = $%d", len(args)))
	}
	if f.Published != nil {
		args = append(args, *f.Published)
		clauses = append(clauses, fmt.Sprintf("is_published = $%d", len(args)))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY week_start_date DESC, version_number DESC, created_at DESC"

	schedules := []models.WeeklySchedule{}
	if err := s.db.SelectContext(ctx, &schedules, query, args...); err != nil {
		return nil, fmt.Errorf("filtering schedules: %w", err)
	}
	return schedules, nil
}

// Get returns one schedule by id
func (s *ScheduleStore) Get(ctx context.Context, id string) (*models.WeeklySchedule, error) {
	var schedule models.WeeklySchedule
	err := s.db.GetContext(ctx, &schedule,
		`SELECT `+scheduleColumns+` FROM weekly_schedules WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, services.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting schedule %s: %w", id, err)
	}
	return &schedule, nil
}

// Create inserts a schedule row
func (s *ScheduleStore) Create(ctx context.Context, schedule *models.WeeklySchedule) (*models.WeeklySchedule, error) {
	query := `INSERT INTO weekly_schedules (` + scheduleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING ` + scheduleColumns

	var created models.WeeklySchedule
	err := s.db.GetContext(ctx, &created, query,
		schedule.ID,
		schedule.WeekStartDate,
		schedule.ScheduleType,
		schedule.Name,
		schedule.VersionNumber,
		schedule.IsPublished,
		schedule.PublishedAt,
		schedule.IsStarred,
		schedule.TotalLaborCost,
		schedule.LaborPercentage,
		schedule.TotalProjectedSales,
		schedule.SalesPerLaborHour,
		schedule.CreatedBy,
		schedule.CreatedAt,
		schedule.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("creating schedule: %w", err)
	}
	return &created, nil
}

// Update overwrites a schedule row
func (s *ScheduleStore) Update(ctx context.Context, id string, schedule *models.WeeklySchedule) (*models.WeeklySchedule, error) {
	query := `UPDATE weekly_schedules
		SET name = $1, version_number = $2, is_published = $3, published_at = $4,
			is_starred = $5, total_labor_cost = $6, labor_percentage = $7,
			total_projected_sales = $8, sales_per_labor_hour = $9, updated_at = $10
		WHERE id = $11
		RETURNING ` + scheduleColumns

	var updated models.WeeklySchedule
	err := s.db.GetContext(ctx, &updated, query,
		schedule.Name,
		schedule.VersionNumber,
		schedule.IsPublished,
		schedule.PublishedAt,
		schedule.IsStarred,
		schedule.TotalLaborCost,
		schedule.LaborPercentage,
		schedule.TotalProjectedSales,
		schedule.SalesPerLaborHour,
		schedule.UpdatedAt,
		id,
	)
	if err == sql.ErrNoRows {
		return nil, services.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("updating schedule %s: %w", id, err)
	}
	return &updated, nil
}

// Delete removes a schedule row
func (s *ScheduleStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM weekly_schedules WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting schedule %s: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return services.ErrNotFound
	}
	return nil
}
