package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"crewplan-backend/internal/models"
	"crewplan-backend/internal/services"
)

// EmployeeStore is the read side of employees the scheduling engines need.
// Full CRUD lives in the employee handlers.
type EmployeeStore struct {
	db *sqlx.DB
}

// NewEmployeeStore creates an EmployeeStore
func NewEmployeeStore(db *sqlx.DB) *EmployeeStore {
	return &EmployeeStore{db: db}
}

const employeeColumns = `id, name, pay_type, hourly_rate, positions, is_active,
	min_hours, max_hours, min_days, max_days, created_at, updated_at`

// Filter returns employees, optionally restricted to active ones
func (s *EmployeeStore) Filter(ctx context.Context, activeOnly bool) ([]models.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees`
	if activeOnly {
		query += ` WHERE is_active = true`
	}
	query += ` ORDER BY name`

	employees := []models.Employee{}
	if err := s.db.SelectContext(ctx, &employees, query); err != nil {
		return nil, fmt.Errorf("filtering employees: %w", err)
	}
	return employees, nil
}

// Get returns one employee by id
func (s *EmployeeStore) Get(ctx context.Context, id string) (*models.Employee, error) {
	var employee models.Employee
	err := s.db.GetContext(ctx, &employee,
		`SELECT `+employeeColumns+` FROM employees WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, services.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting employee %s: %w", id, err)
	}
	return &employee, nil
}
