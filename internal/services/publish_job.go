package services

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"crewplan-backend/internal/models"
)

// Publisher is the slice of PublicationManager the job tracker needs
type Publisher interface {
	Publish(ctx context.Context, draftScheduleID string) (*models.WeeklySchedule, error)
}

// Notifier pushes realtime events to connected clients by role
type Notifier interface {
	BroadcastToRole(role string, data interface{})
}

// PushSender delivers an out-of-band notification once a publish completes
type PushSender interface {
	SendSchedulePublished(ctx context.Context, userID string, schedule *models.WeeklySchedule) error
}

const defaultPollInterval = 2 * time.Second

// PublishJobTracker runs publishes as asynchronous background jobs so long
// publish work never blocks a request. Jobs move forward only:
// pending -> in_progress -> completed|failed.
type PublishJobTracker struct {
	jobs      PublishJobStore
	schedules ScheduleStore
	publisher Publisher
	clock     Clock

	notifier Notifier
	push     PushSender

	pollInterval time.Duration

	// trigger hands a pending job to the background worker. Swappable in
	// tests; a trigger failure is surfaced as a failed job, distinct from
	// the worker itself reporting failure.
	trigger func(jobID string) error
}

// NewPublishJobTracker wires a tracker. notifier and push may be nil.
func NewPublishJobTracker(
	jobs PublishJobStore,
	schedules ScheduleStore,
	publisher Publisher,
	clock Clock,
	notifier Notifier,
	push PushSender,
) *PublishJobTracker {
	if clock == nil {
		clock = realClock{}
	}
	t := &PublishJobTracker{
		jobs:         jobs,
		schedules:    schedules,
		publisher:    publisher,
		clock:        clock,
		notifier:     notifier,
		push:         push,
		pollInterval: defaultPollInterval,
	}
	t.trigger = func(jobID string) error {
		go t.run(jobID)
		return nil
	}
	return t
}

// Submit creates a publish job for a draft and fires the background worker.
// A second publish is refused while a job for the same draft is non-terminal.
func (t *PublishJobTracker) Submit(ctx context.Context, draftScheduleID, createdBy string) (*models.PublishJob, error) {
	draft, err := t.schedules.Get(ctx, draftScheduleID)
	if err != nil {
		return nil, err
	}
	if draft.IsPublished {
		return nil, ErrScheduleNotDraft
	}

	open, err := t.jobs.Filter(ctx, PublishJobFilter{
		SourceScheduleID: draftScheduleID,
		Statuses:         []models.PublishJobStatus{models.PublishJobPending, models.PublishJobInProgress},
	})
	if err != nil {
		return nil, err
	}
	if len(open) > 0 {
		return nil, ErrPublishInProgress
	}

	now := t.clock.Now().Unix()
	job, err := t.jobs.Create(ctx, &models.PublishJob{
		ID:               uuid.New().String(),
		WeekStartDate:    draft.WeekStartDate,
		SourceScheduleID: draftScheduleID,
		Status:           models.PublishJobPending,
		CreatedBy:        createdBy,
		CreatedAt:        now,
		UpdatedAt:        now,
	})
	if err != nil {
		return nil, err
	}
	log.Printf("🚀 Publish job %s submitted for draft %s", job.ID, draftScheduleID)

	if err := t.trigger(job.ID); err != nil {
		// The worker never saw the job; fail it here so the client is not
		// left watching a pending job forever
		log.Printf("❌ Publish job %s trigger failed: %v", job.ID, err)
		msg := err.Error()
		job.Status = models.PublishJobFailed
		job.ErrorMessage = &msg
		job.UpdatedAt = t.clock.Now().Unix()
		if _, uerr := t.jobs.Update(ctx, job.ID, job); uerr != nil {
			log.Printf("⚠️ Publish job %s: failed-state save also failed: %v", job.ID, uerr)
		}
		t.broadcast(job)
		return job, nil
	}
	return job, nil
}

// Get returns the current state of a publish job
func (t *PublishJobTracker) Get(ctx context.Context, jobID string) (*models.PublishJob, error) {
	return t.jobs.Get(ctx, jobID)
}

// Watch polls a job on a fixed interval and streams snapshots until the job
// reaches a terminal state or the context is cancelled. The ticker is always
// stopped; nothing leaks.
func (t *PublishJobTracker) Watch(ctx context.Context, jobID string) <-chan models.PublishJob {
	updates := make(chan models.PublishJob, 1)
	go func() {
		defer close(updates)
		ticker := time.NewTicker(t.pollInterval)
		defer ticker.Stop()
		for {
			job, err := t.jobs.Get(ctx, jobID)
			if err != nil {
				log.Printf("⚠️ Publish job %s poll failed: %v", jobID, err)
				return
			}
			select {
			case updates <- *job:
			default:
			}
			if job.IsTerminal() {
				return
			}
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
	return updates
}

// run is the background worker: mark in_progress, publish, record the outcome
func (t *PublishJobTracker) run(jobID string) {
	ctx := context.Background()

	job, err := t.jobs.Get(ctx, jobID)
	if err != nil {
		log.Printf("❌ Publish job %s vanished before start: %v", jobID, err)
		return
	}

	job.Status = models.PublishJobInProgress
	job.UpdatedAt = t.clock.Now().Unix()
	if job, err = t.jobs.Update(ctx, jobID, job); err != nil {
		log.Printf("❌ Publish job %s: could not mark in_progress: %v", jobID, err)
		return
	}
	t.broadcast(job)

	published, pubErr := t.publisher.Publish(ctx, job.SourceScheduleID)

	done := t.clock.Now().Unix()
	job.UpdatedAt = done
	if pubErr != nil {
		log.Printf("❌ Publish job %s failed: %v", jobID, pubErr)
		msg := pubErr.Error()
		job.Status = models.PublishJobFailed
		job.ErrorMessage = &msg
	} else {
		job.Status = models.PublishJobCompleted
		job.CompletedAt = &done
	}
	if job, err = t.jobs.Update(ctx, jobID, job); err != nil {
		log.Printf("❌ Publish job %s: could not save terminal state: %v", jobID, err)
		return
	}
	t.broadcast(job)

	if pubErr == nil {
		log.Printf("✅ Publish job %s completed (schedule %s v%d)", jobID, published.ID, published.VersionNumber)
		if t.notifier != nil {
			t.notifier.BroadcastToRole("manager", map[string]interface{}{
				"type": "schedule_published",
				"data": published,
			})
		}
		if t.push != nil {
			if err := t.push.SendSchedulePublished(ctx, job.CreatedBy, published); err != nil {
				// Push delivery is best effort
				log.Printf("⚠️ Publish job %s: push notification failed: %v", jobID, err)
			}
		}
	}
}

func (t *PublishJobTracker) broadcast(job *models.PublishJob) {
	if t.notifier == nil {
		return
	}
	t.notifier.BroadcastToRole("manager", map[string]interface{}{
		"type": "publish_job_update",
		"data": job,
	})
}
