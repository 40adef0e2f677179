package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"crewplan-backend/internal/models"
	"crewplan-backend/pkg/utils"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// GetProjections returns a week's sales projections
func GetProjections(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		weekStartDate := r.URL.Query().Get("week_start_date")
		if weekStartDate == "" {
			utils.RespondError(w, http.StatusBadRequest, "week_start_date is required")
			return
		}

		projections := []models.SalesProjection{}
		err := db.Select(&projections, `
			SELECT * FROM sales_projections WHERE week_start_date = $1 ORDER BY day_of_week
		`, weekStartDate)
		if err != nil {
			log.Printf("❌ Failed to fetch projections: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch projections")
			return
		}

		utils.RespondSuccess(w, http.StatusOK, projections)
	}
}

type UpsertProjectionRequest struct {
	WeekStartDate  string   `json:"week_start_date"`
	DayOfWeek      int      `json:"day_of_week"`
	BreakfastSales float64  `json:"breakfast_sales"`
	LunchSales     float64  `json:"lunch_sales"`
	DinnerSales    float64  `json:"dinner_sales"`
	LateNightSales float64  `json:"late_night_sales"`
	ActualAMSales  *float64 `json:"actual_am_sales"`
	ActualPMSales  *float64 `json:"actual_pm_sales"`
}

// UpsertProjection creates or updates one day's sales projection
func UpsertProjection(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Println("📥 REQUEST: PUT /api/projections - Upsert sales projection")

		var req UpsertProjectionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.WeekStartDate == "" {
			utils.RespondError(w, http.StatusBadRequest, "week_start_date is required")
			return
		}
		if req.DayOfWeek < 0 || req.DayOfWeek > 6 {
			utils.RespondError(w, http.StatusBadRequest, "day_of_week must be between 0 and 6")
			return
		}

		now := time.Now().Unix()
		var projection models.SalesProjection
		err := db.Get(&projection, `
			INSERT INTO sales_projections (id, week_start_date, day_of_week, breakfast_sales,
				lunch_sales, dinner_sales, late_night_sales, actual_am_sales, actual_pm_sales,
				created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			ON CONFLICT (week_start_date, day_of_week)
			DO UPDATE SET
				breakfast_sales = EXCLUDED.breakfast_sales,
				lunch_sales = EXCLUDED.lunch_sales,
				dinner_sales = EXCLUDED.dinner_sales,
				late_night_sales = EXCLUDED.late_night_sales,
				actual_am_sales = EXCLUDED.actual_am_sales,
				actual_pm_sales = EXCLUDED.actual_pm_sales,
				updated_at = EXCLUDED.updated_at
			RETURNING *
		`, uuid.New().String(), req.WeekStartDate, req.DayOfWeek, req.BreakfastSales,
			req.LunchSales, req.DinnerSales, req.LateNightSales,
			req.ActualAMSales, req.ActualPMSales, now, now)
		if err != nil {
			log.Printf("❌ Database error: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to save projection")
			return
		}

		log.Printf("✅ Projection saved: week %s day %d", req.WeekStartDate, req.DayOfWeek)
		utils.RespondSuccess(w, http.StatusOK, projection)
	}
}
