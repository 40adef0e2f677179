package handlers

import (
	"database/sql"
	"log"
	"net/http"
	"strconv"

	"crewplan-backend/internal/models"
	"crewplan-backend/internal/services"
	"crewplan-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
)

// GetLaborSummary computes the AM/PM/total labor metrics for a schedule
// against the week's sales projections
func GetLaborSummary(db *sqlx.DB, drafts *services.DraftManager, settings services.Settings) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scheduleID := chi.URLParam(r, "id")

		var schedule models.WeeklySchedule
		if err := db.Get(&schedule, `SELECT * FROM weekly_schedules WHERE id = $1`, scheduleID); err != nil {
			if err == sql.ErrNoRows {
				utils.RespondError(w, http.StatusNotFound, "Schedule not found")
				return
			}
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch schedule")
			return
		}

		shifts, err := scheduleShifts(r, db, drafts, &schedule)
		if err != nil {
			log.Printf("❌ Failed to load shifts for %s: %v", scheduleID, err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to load shifts")
			return
		}

		employees := []models.Employee{}
		if err := db.Select(&employees, `SELECT * FROM employees`); err != nil {
			log.Printf("❌ Failed to fetch employees: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch employees")
			return
		}

		projections := []models.SalesProjection{}
		err = db.Select(&projections, `
			SELECT * FROM sales_projections WHERE week_start_date = $1
		`, schedule.WeekStartDate)
		if err != nil {
			log.Printf("❌ Failed to fetch projections: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch projections")
			return
		}

		sales := services.SalesSplit{}
		for _, p := range projections {
			sales.AM += p.AMSales()
			sales.PM += p.PMSales()
		}

		summary := services.ComputeLaborSummary(shifts, employees, sales, settings)

		// Flag audited shifts whose variance still needs an explanation
		needsReason := []string{}
		for _, shift := range shifts {
			if services.NeedsVarianceReason(shift) && shift.VarianceReason == nil {
				needsReason = append(needsReason, shift.ID)
			}
		}

		utils.RespondSuccess(w, http.StatusOK, map[string]interface{}{
			"summary":                summary,
			"shifts_needing_reason":  needsReason,
		})
	}
}

// GetShiftSuggestions ranks the employees who can legally fill a draft shift
func GetShiftSuggestions(db *sqlx.DB, drafts *services.DraftManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scheduleID := chi.URLParam(r, "id")
		shiftID := chi.URLParam(r, "shiftID")

		var schedule models.WeeklySchedule
		if err := db.Get(&schedule, `SELECT * FROM weekly_schedules WHERE id = $1`, scheduleID); err != nil {
			if err == sql.ErrNoRows {
				utils.RespondError(w, http.StatusNotFound, "Schedule not found")
				return
			}
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch schedule")
			return
		}

		shifts, err := scheduleShifts(r, db, drafts, &schedule)
		if err != nil {
			log.Printf("❌ Failed to load shifts for %s: %v", scheduleID, err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to load shifts")
			return
		}

		var target *models.Shift
		for i := range shifts {
			if shifts[i].ID == shiftID {
				target = &shifts[i]
				break
			}
		}
		if target == nil {
			utils.RespondError(w, http.StatusNotFound, "Shift not found")
			return
		}

		employees := []models.Employee{}
		if err := db.Select(&employees, `SELECT * FROM employees WHERE is_active = true ORDER BY name`); err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch employees")
			return
		}

		availability := []models.Availability{}
		if err := db.Select(&availability, `SELECT * FROM availability`); err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch availability")
			return
		}

		timeOff := []models.TimeOffRequest{}
		err = db.Select(&timeOff, `
			SELECT * FROM time_off_requests WHERE status = 'approved' AND end_date >= $1
		`, schedule.WeekStartDate)
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch time off")
			return
		}

		limit := 10
		if raw := r.URL.Query().Get("limit"); raw != "" {
			if n, err := strconv.Atoi(raw); err == nil {
				limit = n
			}
		}

		suggestions := services.SuggestEmployees(*target, employees, availability, timeOff, shifts, limit)
		utils.RespondSuccess(w, http.StatusOK, suggestions)
	}
}

// scheduleShifts loads a schedule's shifts from the live draft when unpublished,
// or from storage for published versions
func scheduleShifts(r *http.Request, db *sqlx.DB, drafts *services.DraftManager, schedule *models.WeeklySchedule) ([]models.Shift, error) {
	if !schedule.IsPublished {
		reconciler, err := drafts.ForSchedule(r.Context(), schedule.ID)
		if err != nil {
			return nil, err
		}
		return reconciler.Shifts(), nil
	}
	shifts := []models.Shift{}
	err := db.Select(&shifts, `
		SELECT * FROM shifts WHERE schedule_id = $1 ORDER BY date, start_time
	`, schedule.ID)
	return shifts, err
}
