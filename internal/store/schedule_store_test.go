package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crewplan-backend/internal/models"
	"crewplan-backend/internal/services"
)

var scheduleRowColumns = []string{
	"id", "week_start_date", "schedule_type", "name", "version_number",
	"is_published", "published_at", "is_starred", "total_labor_cost",
	"labor_percentage", "total_projected_sales", "sales_per_labor_hour",
	"created_by", "created_at", "updated_at",
}

func scheduleRow(id string, version int, published bool) []driver.Value {
	return []driver.Value{
		id, "2025-03-10", "full_schedule", "Week of 2025-03-10", version,
		published, nil, false, 480.0, 12.5, 3840.0, 96.0,
		"manager-1", int64(1741600000), int64(1741600000),
	}
}

func TestScheduleStoreGet(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewScheduleStore(db)

	mock.ExpectQuery(`FROM weekly_schedules WHERE id = \$1`).
		WithArgs("sched-1").
		WillReturnRows(sqlmock.NewRows(scheduleRowColumns).AddRow(scheduleRow("sched-1", 0, false)...))

	schedule, err := s.Get(context.Background(), "sched-1")
	require.NoError(t, err)
	assert.Equal(t, "sched-1", schedule.ID)
	assert.Equal(t, models.ScheduleTypeFullSchedule, schedule.ScheduleType)
	assert.False(t, schedule.IsPublished)
	assert.InDelta(t, 480.0, schedule.TotalLaborCost, 1e-9)
}

func TestScheduleStoreGetNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewScheduleStore(db)

	mock.ExpectQuery(`FROM weekly_schedules WHERE id = \$1`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := s.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestScheduleStoreFilter(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewScheduleStore(db)

	mock.ExpectQuery(`FROM weekly_schedules WHERE week_start_date = \$1 AND schedule_type = \$2 AND is_published = \$3 ORDER BY week_start_date DESC, version_number DESC, created_at DESC`).
		WithArgs("2025-03-10", models.ScheduleTypeFullSchedule, true).
		WillReturnRows(sqlmock.NewRows(scheduleRowColumns).
			AddRow(scheduleRow("v2", 2, true)...).
			AddRow(scheduleRow("v1", 1, true)...))

	published := true
	schedules, err := s.Filter(context.Background(), services.ScheduleFilter{
		WeekStartDate: "2025-03-10",
		ScheduleType:  models.ScheduleTypeFullSchedule,
		Published:     &published,
	})
	require.NoError(t, err)
	require.Len(t, schedules, 2)
	assert.Equal(t, 2, schedules[0].VersionNumber)
}

func TestScheduleStoreUpdateNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewScheduleStore(db)

	mock.ExpectQuery(`UPDATE weekly_schedules`).
		WillReturnError(sql.ErrNoRows)

	_, err := s.Update(context.Background(), "missing", &models.WeeklySchedule{})
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestScheduleStoreDeleteNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewScheduleStore(db)

	mock.ExpectExec(`DELETE FROM weekly_schedules WHERE id = \$1`).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, s.Delete(context.Background(), "missing"), services.ErrNotFound)
}
