package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"crewplan-backend/internal/services"
	"crewplan-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
)

type AddShiftRequest struct {
	Date      string   `json:"date"`
	StartTime string   `json:"start_time"`
	EndTime   string   `json:"end_time"`
	Positions []string `json:"positions"`
}

// AddShift adds a placeholder shift to a draft schedule
func AddShift(drafts *services.DraftManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scheduleID := chi.URLParam(r, "id")
		log.Printf("📥 REQUEST: POST /api/schedules/%s/shifts", scheduleID)

		var req AddShiftRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.Date == "" || req.StartTime == "" || req.EndTime == "" {
			utils.RespondError(w, http.StatusBadRequest, "date, start_time, and end_time are required")
			return
		}

		reconciler, err := drafts.ForSchedule(r.Context(), scheduleID)
		if err != nil {
			respondDraftError(w, scheduleID, err)
			return
		}

		shift, err := reconciler.AddShift(req.Date, req.StartTime, req.EndTime, req.Positions)
		if err != nil {
			respondDraftError(w, scheduleID, err)
			return
		}

		log.Printf("✅ Shift added to draft %s: %s %s-%s", scheduleID, shift.Date, shift.StartTime, shift.EndTime)
		utils.RespondSuccess(w, http.StatusCreated, shift)
	}
}

// UpdateShift applies field edits to a draft shift. The body is a map of
// field name to value; each edit is applied in turn and the first bad field
// rejects the request.
func UpdateShift(drafts *services.DraftManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scheduleID := chi.URLParam(r, "id")
		shiftID := chi.URLParam(r, "shiftID")

		var fields map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if len(fields) == 0 {
			utils.RespondError(w, http.StatusBadRequest, "No fields to update")
			return
		}

		reconciler, err := drafts.ForSchedule(r.Context(), scheduleID)
		if err != nil {
			respondDraftError(w, scheduleID, err)
			return
		}

		var shift interface{}
		for field, value := range fields {
			updated, err := reconciler.ChangeField(shiftID, field, value)
			if err != nil {
				if errors.Is(err, services.ErrShiftNotInDraft) {
					utils.RespondError(w, http.StatusNotFound, "Shift not found in draft")
					return
				}
				utils.RespondError(w, http.StatusBadRequest, err.Error())
				return
			}
			shift = updated
		}

		utils.RespondSuccess(w, http.StatusOK, shift)
	}
}

// DeleteShift removes a shift from a draft schedule
func DeleteShift(drafts *services.DraftManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scheduleID := chi.URLParam(r, "id")
		shiftID := chi.URLParam(r, "shiftID")
		log.Printf("📥 REQUEST: DELETE /api/schedules/%s/shifts/%s", scheduleID, shiftID)

		reconciler, err := drafts.ForSchedule(r.Context(), scheduleID)
		if err != nil {
			respondDraftError(w, scheduleID, err)
			return
		}

		if err := reconciler.RemoveShift(shiftID); err != nil {
			if errors.Is(err, services.ErrShiftNotInDraft) {
				utils.RespondError(w, http.StatusNotFound, "Shift not found in draft")
				return
			}
			respondDraftError(w, scheduleID, err)
			return
		}

		utils.RespondSuccess(w, http.StatusOK, map[string]string{"id": shiftID})
	}
}

// ReconcileSchedule forces a full diff-and-save of the draft against storage
func ReconcileSchedule(drafts *services.DraftManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scheduleID := chi.URLParam(r, "id")
		log.Printf("📥 REQUEST: POST /api/schedules/%s/reconcile", scheduleID)

		reconciler, err := drafts.ForSchedule(r.Context(), scheduleID)
		if err != nil {
			respondDraftError(w, scheduleID, err)
			return
		}

		result, err := reconciler.ReconcileAll(r.Context())
		if err != nil {
			log.Printf("❌ Reconcile failed for %s: %v", scheduleID, err)
			utils.RespondError(w, http.StatusInternalServerError, "Reconcile failed")
			return
		}

		log.Printf("✅ Draft %s reconciled: %d creates, %d updates, %d deletes",
			scheduleID, result.Creates, result.Updates, result.Deletes)
		utils.RespondSuccess(w, http.StatusOK, result)
	}
}

func respondDraftError(w http.ResponseWriter, scheduleID string, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.RespondError(w, http.StatusNotFound, "Schedule not found")
	case errors.Is(err, services.ErrScheduleNotDraft):
		utils.RespondError(w, http.StatusBadRequest, "Schedule is published and cannot be edited")
	case errors.Is(err, services.ErrReconcilerClosed):
		utils.RespondError(w, http.StatusConflict, "Draft is closed")
	default:
		log.Printf("❌ Draft %s error: %v", scheduleID, err)
		utils.RespondError(w, http.StatusInternalServerError, "Draft operation failed")
	}
}
