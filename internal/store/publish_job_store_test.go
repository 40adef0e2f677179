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

var publishJobRowColumns = []string{
	"id", "week_start_date", "source_schedule_id", "status",
	"completed_at", "error_message", "created_by", "created_at", "updated_at",
}

func publishJobRow(id, status string) []driver.Value {
	return []driver.Value{
		id, "2025-03-10", "sched-1", status,
		nil, nil, "manager-1", int64(1741600000), int64(1741600000),
	}
}

func TestPublishJobStoreFilterByStatuses(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPublishJobStore(db)

	mock.ExpectQuery(`FROM publish_jobs WHERE source_schedule_id = \$1 AND status = ANY\(\$2\) ORDER BY created_at DESC`).
		WithArgs("sched-1", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(publishJobRowColumns).AddRow(publishJobRow("job-1", "pending")...))

	jobs, err := s.Filter(context.Background(), services.PublishJobFilter{
		SourceScheduleID: "sched-1",
		Statuses:         []models.PublishJobStatus{models.PublishJobPending, models.PublishJobInProgress},
	})
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, models.PublishJobPending, jobs[0].Status)
}

func TestPublishJobStoreGetNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPublishJobStore(db)

	mock.ExpectQuery(`FROM publish_jobs WHERE id = \$1`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := s.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestPublishJobStoreUpdate(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPublishJobStore(db)

	completedAt := int64(1741600500)
	mock.ExpectQuery(`UPDATE publish_jobs`).
		WithArgs("completed", completedAt, nil, int64(1741600500), "job-1").
		WillReturnRows(sqlmock.NewRows(publishJobRowColumns).AddRow(
			"job-1", "2025-03-10", "sched-1", "completed",
			completedAt, nil, "manager-1", int64(1741600000), completedAt,
		))

	updated, err := s.Update(context.Background(), "job-1", &models.PublishJob{
		Status:      models.PublishJobCompleted,
		CompletedAt: &completedAt,
		UpdatedAt:   1741600500,
	})
	require.NoError(t, err)
	assert.Equal(t, models.PublishJobCompleted, updated.Status)
	require.NotNil(t, updated.CompletedAt)
	assert.Equal(t, completedAt, *updated.CompletedAt)
}
