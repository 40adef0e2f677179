package models

// Availability is one employee's working window for one weekday.
// DayOfWeek uses 0=Sunday..6=Saturday. A missing record means unavailable.
type Availability struct {
	ID          string `json:"id" db:"id"`
	EmployeeID  string `json:"employee_id" db:"employee_id"`
	DayOfWeek   int    `json:"day_of_week" db:"day_of_week"`
	IsAvailable bool   `json:"is_available" db:"is_available"`
	StartTime   string `json:"start_time" db:"start_time"`
	EndTime     string `json:"end_time" db:"end_time"`
	CreatedAt   int64  `json:"created_at" db:"created_at"`
	UpdatedAt   int64  `json:"updated_at" db:"updated_at"`
}

// TimeOffStatus is the review state of a time-off request
type TimeOffStatus string

const (
	TimeOffPending  TimeOffStatus = "pending"
	TimeOffApproved TimeOffStatus = "approved"
	TimeOffDenied   TimeOffStatus = "denied"
)

// TimeOffRequest covers a date range with an optional time window.
// Only approved requests affect conflict evaluation.
type TimeOffRequest struct {
	ID         string        `json:"id" db:"id"`
	EmployeeID string        `json:"employee_id" db:"employee_id"`
	StartDate  string        `json:"start_date" db:"start_date"`
	EndDate    string        `json:"end_date" db:"end_date"`
	IsAllDay   bool          `json:"is_all_day" db:"is_all_day"`
	StartTime  *string       `json:"start_time" db:"start_time"`
	EndTime    *string       `json:"end_time" db:"end_time"`
	Reason     *string       `json:"reason" db:"reason"`
	Status     TimeOffStatus `json:"status" db:"status"`
	CreatedAt  int64         `json:"created_at" db:"created_at"`
	UpdatedAt  int64         `json:"updated_at" db:"updated_at"`
}

// CoversDate returns true if the request's date range includes the given
// "YYYY-MM-DD" date. Lexicographic comparison is safe for ISO dates.
func (t *TimeOffRequest) CoversDate(date string) bool {
	return t.StartDate <= date && date <= t.EndDate
}
