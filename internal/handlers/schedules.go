package handlers

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"crewplan-backend/internal/middleware"
	"crewplan-backend/internal/models"
	"crewplan-backend/internal/services"
	"crewplan-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
)

// GetSchedules lists schedules with optional week/type/published filters
func GetSchedules(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := `SELECT * FROM weekly_schedules WHERE 1=1`
		args := []interface{}{}

		if week := r.URL.Query().Get("week_start_date"); week != "" {
			args = append(args, week)
			query += fmt.Sprintf(" AND week_start_date = $%d", len(args))
		}
		if scheduleType := r.URL.Query().Get("type"); scheduleType != "" {
			args = append(args, scheduleType)
			query += fmt.Sprintf(" AND schedule_type = $%d", len(args))
		}
		if published := r.URL.Query().Get("published"); published != "" {
			args = append(args, published == "true")
			query += fmt.Sprintf(" AND is_published = $%d", len(args))
		}
		query += ` ORDER BY week_start_date DESC, version_number DESC`

		schedules := []models.WeeklySchedule{}
		if err := db.Select(&schedules, query, args...); err != nil {
			log.Printf("❌ Failed to fetch schedules: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch schedules")
			return
		}

		utils.RespondSuccess(w, http.StatusOK, schedules)
	}
}

// GetSchedule returns one schedule with its shifts. Draft shifts come from the
// live reconciler so unsaved edits are visible; published shifts come straight
// from storage.
func GetSchedule(db *sqlx.DB, drafts *services.DraftManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var schedule models.WeeklySchedule
		if err := db.Get(&schedule, `SELECT * FROM weekly_schedules WHERE id = $1`, id); err != nil {
			if err == sql.ErrNoRows {
				utils.RespondError(w, http.StatusNotFound, "Schedule not found")
				return
			}
			log.Printf("❌ Failed to fetch schedule %s: %v", id, err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch schedule")
			return
		}

		var shifts []models.Shift
		if schedule.IsPublished {
			shifts = []models.Shift{}
			err := db.Select(&shifts, `
				SELECT * FROM shifts WHERE schedule_id = $1 ORDER BY date, start_time
			`, id)
			if err != nil {
				log.Printf("❌ Failed to fetch shifts for %s: %v", id, err)
				utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch shifts")
				return
			}
		} else {
			reconciler, err := drafts.ForSchedule(r.Context(), id)
			if err != nil {
				log.Printf("❌ Failed to open draft %s: %v", id, err)
				utils.RespondError(w, http.StatusInternalServerError, "Failed to open draft")
				return
			}
			shifts = reconciler.Shifts()
		}

		utils.RespondSuccess(w, http.StatusOK, map[string]interface{}{
			"schedule": schedule,
			"shifts":   shifts,
		})
	}
}

type CreateDraftRequest struct {
	WeekStartDate string `json:"week_start_date"`
	ScheduleType  string `json:"schedule_type"`
}

// CreateDraft returns the week's draft schedule, creating it on first use
func CreateDraft(db *sqlx.DB, drafts *services.DraftManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Println("📥 REQUEST: POST /api/schedules - Open week draft")

		user, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var req CreateDraftRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.WeekStartDate == "" {
			utils.RespondError(w, http.StatusBadRequest, "week_start_date is required")
			return
		}
		scheduleType := models.ScheduleType(req.ScheduleType)
		if scheduleType != models.ScheduleTypePerforma && scheduleType != models.ScheduleTypeFullSchedule {
			utils.RespondError(w, http.StatusBadRequest, "schedule_type must be 'performa' or 'full_schedule'")
			return
		}

		reconciler, err := drafts.ForWeek(r.Context(), req.WeekStartDate, scheduleType, user.UserID)
		if err != nil {
			log.Printf("❌ Failed to open week draft: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to open week draft")
			return
		}

		var schedule models.WeeklySchedule
		if err := db.Get(&schedule, `SELECT * FROM weekly_schedules WHERE id = $1`, reconciler.ScheduleID()); err != nil {
			log.Printf("❌ Failed to fetch draft header: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch draft")
			return
		}

		utils.RespondSuccess(w, http.StatusOK, map[string]interface{}{
			"schedule": schedule,
			"shifts":   reconciler.Shifts(),
		})
	}
}

// UpdateSchedule renames or stars a schedule. Works for drafts and published
// versions alike; starring is the only edit a published version accepts.
func UpdateSchedule(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		log.Printf("📥 REQUEST: PATCH /api/schedules/%s", id)

		var req struct {
			Name      *string `json:"name"`
			IsStarred *bool   `json:"is_starred"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		var schedule models.WeeklySchedule
		if err := db.Get(&schedule, `SELECT * FROM weekly_schedules WHERE id = $1`, id); err != nil {
			if err == sql.ErrNoRows {
				utils.RespondError(w, http.StatusNotFound, "Schedule not found")
				return
			}
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch schedule")
			return
		}

		if schedule.IsPublished && req.Name != nil {
			utils.RespondError(w, http.StatusBadRequest, "Published schedules cannot be renamed")
			return
		}
		if req.Name != nil {
			schedule.Name = *req.Name
		}
		if req.IsStarred != nil {
			schedule.IsStarred = *req.IsStarred
		}
		schedule.UpdatedAt = time.Now().Unix()

		_, err := db.Exec(`
			UPDATE weekly_schedules SET name = $1, is_starred = $2, updated_at = $3 WHERE id = $4
		`, schedule.Name, schedule.IsStarred, schedule.UpdatedAt, id)
		if err != nil {
			log.Printf("❌ Database error: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to update schedule")
			return
		}

		log.Printf("✅ Schedule updated: %s", id)
		utils.RespondSuccess(w, http.StatusOK, schedule)
	}
}
