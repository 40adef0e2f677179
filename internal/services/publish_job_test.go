package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crewplan-backend/internal/models"
)

type stubPublisher struct {
	published *models.WeeklySchedule
	err       error
	calls     int
}

func (p *stubPublisher) Publish(ctx context.Context, draftScheduleID string) (*models.WeeklySchedule, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return p.published, nil
}

type stubPush struct {
	userIDs []string
	err     error
}

func (p *stubPush) SendSchedulePublished(ctx context.Context, userID string, schedule *models.WeeklySchedule) error {
	p.userIDs = append(p.userIDs, userID)
	return p.err
}

func newTestTracker(jobs *fakePublishJobStore, schedules *fakeScheduleStore, publisher Publisher, notifier Notifier, push PushSender) *PublishJobTracker {
	tracker := NewPublishJobTracker(jobs, schedules, publisher, testClock(), notifier, push)
	// Run the worker synchronously so tests observe terminal state on return
	tracker.trigger = func(jobID string) error {
		tracker.run(jobID)
		return nil
	}
	return tracker
}

func TestSubmitCompletes(t *testing.T) {
	ctx := context.Background()
	jobs := newFakePublishJobStore()
	schedules := newFakeScheduleStore()
	schedules.put(*draftSchedule("draft-1"))

	publishedAt := testClock().Now().Unix()
	publisher := &stubPublisher{published: &models.WeeklySchedule{
		ID: "snap-1", WeekStartDate: testDate, VersionNumber: 1,
		IsPublished: true, PublishedAt: &publishedAt,
	}}
	notifier := &fakeNotifier{}
	push := &stubPush{}
	tracker := newTestTracker(jobs, schedules, publisher, notifier, push)

	job, err := tracker.Submit(ctx, "draft-1", "manager-1")
	require.NoError(t, err)
	assert.Equal(t, 1, publisher.calls)

	final, err := tracker.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PublishJobCompleted, final.Status)
	require.NotNil(t, final.CompletedAt)
	assert.Equal(t, testClock().Now().Unix(), *final.CompletedAt)
	assert.Nil(t, final.ErrorMessage)

	// in_progress, completed, and the published schedule itself
	assert.Equal(t, []string{"publish_job_update", "publish_job_update", "schedule_published"}, notifier.eventTypes())
	assert.Equal(t, []string{"manager-1"}, push.userIDs)
}

func TestSubmitPublishFailure(t *testing.T) {
	ctx := context.Background()
	jobs := newFakePublishJobStore()
	schedules := newFakeScheduleStore()
	schedules.put(*draftSchedule("draft-1"))

	publisher := &stubPublisher{err: errors.New("snapshot write failed")}
	notifier := &fakeNotifier{}
	tracker := newTestTracker(jobs, schedules, publisher, notifier, nil)

	job, err := tracker.Submit(ctx, "draft-1", "manager-1")
	require.NoError(t, err)

	final, err := tracker.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PublishJobFailed, final.Status)
	require.NotNil(t, final.ErrorMessage)
	assert.Equal(t, "snapshot write failed", *final.ErrorMessage)
	assert.Nil(t, final.CompletedAt)

	// No schedule_published broadcast on failure
	assert.Equal(t, []string{"publish_job_update", "publish_job_update"}, notifier.eventTypes())
}

func TestSubmitTriggerFailure(t *testing.T) {
	ctx := context.Background()
	jobs := newFakePublishJobStore()
	schedules := newFakeScheduleStore()
	schedules.put(*draftSchedule("draft-1"))

	tracker := newTestTracker(jobs, schedules, &stubPublisher{}, nil, nil)
	tracker.trigger = func(jobID string) error {
		return errors.New("worker pool exhausted")
	}

	// The job is returned failed rather than via an error so the client can
	// inspect the terminal state
	job, err := tracker.Submit(ctx, "draft-1", "manager-1")
	require.NoError(t, err)
	assert.Equal(t, models.PublishJobFailed, job.Status)
	require.NotNil(t, job.ErrorMessage)
	assert.Equal(t, "worker pool exhausted", *job.ErrorMessage)

	saved, err := tracker.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PublishJobFailed, saved.Status)
}

func TestSubmitRefusesConcurrentPublish(t *testing.T) {
	ctx := context.Background()
	jobs := newFakePublishJobStore()
	schedules := newFakeScheduleStore()
	schedules.put(*draftSchedule("draft-1"))

	tracker := newTestTracker(jobs, schedules, &stubPublisher{}, nil, nil)
	// Leave the first job pending forever
	tracker.trigger = func(jobID string) error { return nil }

	_, err := tracker.Submit(ctx, "draft-1", "manager-1")
	require.NoError(t, err)

	_, err = tracker.Submit(ctx, "draft-1", "manager-1")
	assert.ErrorIs(t, err, ErrPublishInProgress)

	// A different draft is unaffected
	schedules.put(*draftSchedule("draft-2"))
	_, err = tracker.Submit(ctx, "draft-2", "manager-1")
	assert.NoError(t, err)
}

func TestSubmitValidation(t *testing.T) {
	ctx := context.Background()
	jobs := newFakePublishJobStore()
	schedules := newFakeScheduleStore()
	snapshot := draftSchedule("snap-1")
	snapshot.IsPublished = true
	schedules.put(*snapshot)

	tracker := newTestTracker(jobs, schedules, &stubPublisher{}, nil, nil)

	_, err := tracker.Submit(ctx, "missing", "manager-1")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = tracker.Submit(ctx, "snap-1", "manager-1")
	assert.ErrorIs(t, err, ErrScheduleNotDraft)
}

func TestWatchStreamsUntilTerminal(t *testing.T) {
	ctx := context.Background()
	jobs := newFakePublishJobStore()

	job, err := jobs.Create(ctx, &models.PublishJob{
		ID: "job-1", WeekStartDate: testDate,
		SourceScheduleID: "draft-1", Status: models.PublishJobPending,
	})
	require.NoError(t, err)

	tracker := newTestTracker(jobs, newFakeScheduleStore(), &stubPublisher{}, nil, nil)
	tracker.pollInterval = time.Millisecond

	t.Run("already terminal job delivers one snapshot and closes", func(t *testing.T) {
		done := *job
		done.Status = models.PublishJobCompleted
		_, err := jobs.Update(ctx, job.ID, &done)
		require.NoError(t, err)

		updates := tracker.Watch(ctx, job.ID)
		snapshot, ok := <-updates
		require.True(t, ok)
		assert.Equal(t, models.PublishJobCompleted, snapshot.Status)

		_, ok = <-updates
		assert.False(t, ok)
	})

	t.Run("polls until the job turns terminal", func(t *testing.T) {
		pending := *job
		pending.Status = models.PublishJobInProgress
		_, err := jobs.Update(ctx, job.ID, &pending)
		require.NoError(t, err)

		updates := tracker.Watch(ctx, job.ID)
		go func() {
			time.Sleep(5 * time.Millisecond)
			done := *job
			done.Status = models.PublishJobCompleted
			_, _ = jobs.Update(context.Background(), job.ID, &done)
		}()

		// The stream closes only after the watcher saw the terminal state
		for range updates {
		}
	})
}

func TestWatchStopsOnCancel(t *testing.T) {
	jobs := newFakePublishJobStore()
	_, err := jobs.Create(context.Background(), &models.PublishJob{
		ID: "job-1", SourceScheduleID: "draft-1", Status: models.PublishJobPending,
	})
	require.NoError(t, err)

	tracker := newTestTracker(jobs, newFakeScheduleStore(), &stubPublisher{}, nil, nil)
	tracker.pollInterval = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	updates := tracker.Watch(ctx, "job-1")
	cancel()

	// The channel closes instead of streaming forever
	for range updates {
	}
}
