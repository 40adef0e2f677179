package services

import (
	"context"
	"time"

	"crewplan-backend/internal/models"
)

// The engines talk to persistence through these narrow store interfaces so the
// draft/publish logic can be exercised against fakes. The sqlx-backed
// implementations live in internal/store.

// ShiftFilter narrows a shift query. Zero fields are ignored.
type ShiftFilter struct {
	ScheduleID string
	EmployeeID string
	Date       string
}

// ShiftStore persists shifts
type ShiftStore interface {
	Filter(ctx context.Context, f ShiftFilter) ([]models.Shift, error)
	Create(ctx context.Context, shift *models.Shift) (*models.Shift, error)
	Update(ctx context.Context, id string, shift *models.Shift) (*models.Shift, error)
	Delete(ctx context.Context, id string) error
	BulkCreate(ctx context.Context, shifts []models.Shift) ([]models.Shift, error)
}

// ScheduleFilter narrows a weekly schedule query. Published is a tri-state.
type ScheduleFilter struct {
	WeekStartDate string
	ScheduleType  models.ScheduleType
	CreatedBy     string
	Published     *bool
}

// ScheduleStore persists weekly schedule headers
type ScheduleStore interface {
	Filter(ctx context.Context, f ScheduleFilter) ([]models.WeeklySchedule, error)
	Get(ctx context.Context, id string) (*models.WeeklySchedule, error)
	Create(ctx context.Context, schedule *models.WeeklySchedule) (*models.WeeklySchedule, error)
	Update(ctx context.Context, id string, schedule *models.WeeklySchedule) (*models.WeeklySchedule, error)
	Delete(ctx context.Context, id string) error
}

// PublishJobFilter narrows a publish job query
type PublishJobFilter struct {
	SourceScheduleID string
	Statuses         []models.PublishJobStatus
}

// PublishJobStore persists publish job records
type PublishJobStore interface {
	Filter(ctx context.Context, f PublishJobFilter) ([]models.PublishJob, error)
	Get(ctx context.Context, id string) (*models.PublishJob, error)
	Create(ctx context.Context, job *models.PublishJob) (*models.PublishJob, error)
	Update(ctx context.Context, id string, job *models.PublishJob) (*models.PublishJob, error)
}

// EmployeeStore reads employees for assignment checks and cost math
type EmployeeStore interface {
	Filter(ctx context.Context, activeOnly bool) ([]models.Employee, error)
	Get(ctx context.Context, id string) (*models.Employee, error)
}

// ProjectionStore reads sales projections for summary math
type ProjectionStore interface {
	Filter(ctx context.Context, weekStartDate string) ([]models.SalesProjection, error)
}

// Clock provides the current time; tests substitute a stub
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

// NewClock returns the wall clock
func NewClock() Clock { return realClock{} }
