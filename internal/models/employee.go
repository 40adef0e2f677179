package models

import "github.com/lib/pq"

// PayType represents how an employee is compensated
type PayType string

const (
	PayTypeHourly PayType = "hourly"
	PayTypeSalary PayType = "salary"
)

// Employee represents a restaurant worker that can be assigned to shifts
type Employee struct {
	ID         string         `json:"id" db:"id"`
	Name       string         `json:"name" db:"name"`
	PayType    PayType        `json:"pay_type" db:"pay_type"`
	HourlyRate float64        `json:"hourly_rate" db:"hourly_rate"`
	Positions  pq.StringArray `json:"positions" db:"positions"`
	IsActive   bool           `json:"is_active" db:"is_active"`
	MinHours   *float64       `json:"min_hours" db:"min_hours"`
	MaxHours   *float64       `json:"max_hours" db:"max_hours"`
	MinDays    *int           `json:"min_days" db:"min_days"`
	MaxDays    *int           `json:"max_days" db:"max_days"`
	CreatedAt  int64          `json:"created_at" db:"created_at"`
	UpdatedAt  int64          `json:"updated_at" db:"updated_at"`
}

// HoldsPosition returns true if the employee is trained for the given position
func (e *Employee) HoldsPosition(position string) bool {
	for _, p := range e.Positions {
		if p == position {
			return true
		}
	}
	return false
}

// IsHourly returns true for hourly-paid employees (the only ones that accrue labor cost)
func (e *Employee) IsHourly() bool {
	return e.PayType == PayTypeHourly
}
