package models

// ScheduleType distinguishes a staffing-agnostic performa plan from a full
// schedule with employees assigned
type ScheduleType string

const (
	ScheduleTypePerforma     ScheduleType = "performa"
	ScheduleTypeFullSchedule ScheduleType = "full_schedule"
)

// WeeklySchedule is one week's labor plan. Exactly one unpublished draft may
// exist per (week_start_date, schedule_type, created_by); published rows are
// immutable and monotonically versioned starting at 1.
type WeeklySchedule struct {
	ID                  string       `json:"id" db:"id"`
	WeekStartDate       string       `json:"week_start_date" db:"week_start_date"`
	ScheduleType        ScheduleType `json:"schedule_type" db:"schedule_type"`
	Name                string       `json:"name" db:"name"`
	VersionNumber       int          `json:"version_number" db:"version_number"`
	IsPublished         bool         `json:"is_published" db:"is_published"`
	PublishedAt         *int64       `json:"published_at" db:"published_at"`
	IsStarred           bool         `json:"is_starred" db:"is_starred"`
	TotalLaborCost      float64      `json:"total_labor_cost" db:"total_labor_cost"`
	LaborPercentage     float64      `json:"labor_percentage" db:"labor_percentage"`
	TotalProjectedSales float64      `json:"total_projected_sales" db:"total_projected_sales"`
	SalesPerLaborHour   float64      `json:"sales_per_labor_hour" db:"sales_per_labor_hour"`
	CreatedBy           string       `json:"created_by" db:"created_by"`
	CreatedAt           int64        `json:"created_at" db:"created_at"`
	UpdatedAt           int64        `json:"updated_at" db:"updated_at"`
}

// PublishJobStatus tracks the lifecycle of an asynchronous publish job
type PublishJobStatus string

const (
	PublishJobPending    PublishJobStatus = "pending"
	PublishJobInProgress PublishJobStatus = "in_progress"
	PublishJobCompleted  PublishJobStatus = "completed"
	PublishJobFailed     PublishJobStatus = "failed"
)

// PublishJob is a single-use record for a background publish. Transitions are
// forward only: pending -> in_progress -> completed|failed.
type PublishJob struct {
	ID               string           `json:"id" db:"id"`
	WeekStartDate    string           `json:"week_start_date" db:"week_start_date"`
	SourceScheduleID string           `json:"source_schedule_id" db:"source_schedule_id"`
	Status           PublishJobStatus `json:"status" db:"status"`
	CompletedAt      *int64           `json:"completed_at" db:"completed_at"`
	ErrorMessage     *string          `json:"error_message" db:"error_message"`
	CreatedBy        string           `json:"created_by" db:"created_by"`
	CreatedAt        int64            `json:"created_at" db:"created_at"`
	UpdatedAt        int64            `json:"updated_at" db:"updated_at"`
}

// IsTerminal returns true once the job can no longer change state
func (j *PublishJob) IsTerminal() bool {
	return j.Status == PublishJobCompleted || j.Status == PublishJobFailed
}
