package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"crewplan-backend/internal/models"
)

// ProjectionStore is the read side of sales projections the scheduling
// engines need. Upserts live in the projection handlers.
type ProjectionStore struct {
	db *sqlx.DB
}

// NewProjectionStore creates a ProjectionStore
func NewProjectionStore(db *sqlx.DB) *ProjectionStore {
	return &ProjectionStore{db: db}
}

// Filter returns the week's projections ordered by day
func (s *ProjectionStore) Filter(ctx context.Context, weekStartDate string) ([]models.SalesProjection, error) {
	projections := []models.SalesProjection{}
	err := s.db.SelectContext(ctx, &projections,
		`SELECT id, week_start_date, day_of_week, breakfast_sales, lunch_sales,
			dinner_sales, late_night_sales, actual_am_sales, actual_pm_sales,
			created_at, updated_at
		FROM sales_projections
		WHERE week_start_date = $1
		ORDER BY day_of_week`, weekStartDate)
	if err != nil {
		return nil, fmt.Errorf("filtering projections for %s: %w", weekStartDate, err)
	}
	return projections, nil
}
