package models

import "github.com/lib/pq"

// Shift represents a single scheduled block of work within a weekly schedule.
// Times are "HH:MM" clock strings, Date is "YYYY-MM-DD". Hours is derived from
// start/end and must be kept consistent on every edit.
type Shift struct {
	ID              string         `json:"id" db:"id"`
	ScheduleID      string         `json:"schedule_id" db:"schedule_id"`
	Date            string         `json:"date" db:"date"`
	StartTime       string         `json:"start_time" db:"start_time"`
	EndTime         string         `json:"end_time" db:"end_time"`
	Hours           float64        `json:"hours" db:"hours"`
	Positions       pq.StringArray `json:"positions" db:"positions"`
	EmployeeID      *string        `json:"employee_id" db:"employee_id"`
	ActualStartTime *string        `json:"actual_start_time" db:"actual_start_time"`
	ActualEndTime   *string        `json:"actual_end_time" db:"actual_end_time"`
	VarianceReason  *string        `json:"variance_reason" db:"variance_reason"`
	CreatedAt       int64          `json:"created_at" db:"created_at"`
	UpdatedAt       int64          `json:"updated_at" db:"updated_at"`
}

// IsAssigned returns true if an employee has been placed on the shift
func (s *Shift) IsAssigned() bool {
	return s.EmployeeID != nil && *s.EmployeeID != ""
}

// AssignedTo returns true if the shift is assigned to the given employee
func (s *Shift) AssignedTo(employeeID string) bool {
	return s.EmployeeID != nil && *s.EmployeeID == employeeID
}
