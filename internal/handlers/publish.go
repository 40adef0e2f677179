package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"crewplan-backend/internal/middleware"
	"crewplan-backend/internal/services"
	"crewplan-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
)

// PublishSchedule submits an asynchronous publish job for a draft
func PublishSchedule(tracker *services.PublishJobTracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scheduleID := chi.URLParam(r, "id")
		log.Printf("📥 REQUEST: POST /api/schedules/%s/publish", scheduleID)

		user, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		job, err := tracker.Submit(r.Context(), scheduleID, user.UserID)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrNotFound):
				utils.RespondError(w, http.StatusNotFound, "Schedule not found")
			case errors.Is(err, services.ErrScheduleNotDraft):
				utils.RespondError(w, http.StatusBadRequest, "Only drafts can be published")
			case errors.Is(err, services.ErrPublishInProgress):
				utils.RespondError(w, http.StatusConflict, "A publish is already in progress for this draft")
			default:
				log.Printf("❌ Publish submit failed for %s: %v", scheduleID, err)
				utils.RespondError(w, http.StatusInternalServerError, "Failed to start publish")
			}
			return
		}

		utils.RespondSuccess(w, http.StatusAccepted, job)
	}
}

// GetPublishJob returns the current state of a publish job
func GetPublishJob(tracker *services.PublishJobTracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID := chi.URLParam(r, "id")

		job, err := tracker.Get(r.Context(), jobID)
		if err != nil {
			if errors.Is(err, services.ErrNotFound) {
				utils.RespondError(w, http.StatusNotFound, "Publish job not found")
				return
			}
			log.Printf("❌ Failed to fetch publish job %s: %v", jobID, err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch publish job")
			return
		}

		utils.RespondSuccess(w, http.StatusOK, job)
	}
}

// CopySchedule replaces a draft's shifts with copies from another schedule,
// shifted by week_offset days. The target draft's reconciler is evicted so the
// next request reloads the copied shifts.
func CopySchedule(publisher *services.PublicationManager, drafts *services.DraftManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		draftID := chi.URLParam(r, "id")
		sourceID := chi.URLParam(r, "sourceID")
		log.Printf("📥 REQUEST: POST /api/schedules/%s/copy-from/%s", draftID, sourceID)

		weekOffset := 0
		if raw := r.URL.Query().Get("week_offset"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				utils.RespondError(w, http.StatusBadRequest, "week_offset must be an integer")
				return
			}
			weekOffset = n
		}

		// Drain pending edits before overwriting, then drop the stale in-memory draft
		if reconciler, err := drafts.ForSchedule(r.Context(), draftID); err == nil {
			if _, err := reconciler.ReconcileAll(r.Context()); err != nil {
				log.Printf("⚠️ Pre-copy reconcile failed for %s: %v", draftID, err)
			}
		}
		drafts.Evict(draftID)

		shifts, err := publisher.CopyInto(r.Context(), draftID, sourceID, weekOffset)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrNotFound):
				utils.RespondError(w, http.StatusNotFound, "Schedule not found")
			case errors.Is(err, services.ErrScheduleNotDraft):
				utils.RespondError(w, http.StatusBadRequest, "Copy target must be a draft")
			case errors.Is(err, services.ErrScheduleNotPublished):
				utils.RespondError(w, http.StatusBadRequest, "Copy source must be a published schedule")
			default:
				log.Printf("❌ Copy failed for %s: %v", draftID, err)
				utils.RespondError(w, http.StatusInternalServerError, "Failed to copy schedule")
			}
			return
		}

		log.Printf("✅ Copied %d shifts into draft %s", len(shifts), draftID)
		utils.RespondSuccess(w, http.StatusOK, shifts)
	}
}
