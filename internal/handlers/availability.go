package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"crewplan-backend/internal/models"
	"crewplan-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// GetEmployeeAvailability returns all weekday windows for one employee
func GetEmployeeAvailability(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		employeeID := chi.URLParam(r, "id")

		availability := []models.Availability{}
		err := db.Select(&availability, `
			SELECT * FROM availability WHERE employee_id = $1 ORDER BY day_of_week
		`, employeeID)
		if err != nil {
			log.Printf("❌ Failed to fetch availability for %s: %v", employeeID, err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch availability")
			return
		}

		utils.RespondSuccess(w, http.StatusOK, availability)
	}
}

// SetEmployeeAvailability replaces an employee's full weekly availability
func SetEmployeeAvailability(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		employeeID := chi.URLParam(r, "id")
		log.Printf("📥 REQUEST: PUT /api/employees/%s/availability", employeeID)

		var req []struct {
			DayOfWeek   int    `json:"day_of_week"`
			IsAvailable bool   `json:"is_available"`
			StartTime   string `json:"start_time"`
			EndTime     string `json:"end_time"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		for _, day := range req {
			if day.DayOfWeek < 0 || day.DayOfWeek > 6 {
				utils.RespondError(w, http.StatusBadRequest, "day_of_week must be between 0 and 6")
				return
			}
		}

		tx, err := db.Beginx()
		if err != nil {
			log.Printf("❌ Failed to start transaction: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to update availability")
			return
		}
		defer tx.Rollback()

		if _, err := tx.Exec(`DELETE FROM availability WHERE employee_id = $1`, employeeID); err != nil {
			log.Printf("❌ Failed to clear availability: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to update availability")
			return
		}

		now := time.Now().Unix()
		saved := []models.Availability{}
		for _, day := range req {
			record := models.Availability{
				ID:          uuid.New().String(),
				EmployeeID:  employeeID,
				DayOfWeek:   day.DayOfWeek,
				IsAvailable: day.IsAvailable,
				StartTime:   day.StartTime,
				EndTime:     day.EndTime,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			_, err := tx.Exec(`
				INSERT INTO availability (id, employee_id, day_of_week, is_available, start_time, end_time, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			`, record.ID, record.EmployeeID, record.DayOfWeek, record.IsAvailable,
				record.StartTime, record.EndTime, record.CreatedAt, record.UpdatedAt)
			if err != nil {
				log.Printf("❌ Failed to insert availability: %v", err)
				utils.RespondError(w, http.StatusInternalServerError, "Failed to update availability")
				return
			}
			saved = append(saved, record)
		}

		if err := tx.Commit(); err != nil {
			log.Printf("❌ Failed to commit availability: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to update availability")
			return
		}

		log.Printf("✅ Availability updated for employee %s (%d days)", employeeID, len(saved))
		utils.RespondSuccess(w, http.StatusOK, saved)
	}
}

type CreateTimeOffRequest struct {
	EmployeeID string  `json:"employee_id"`
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date"`
	IsAllDay   *bool   `json:"is_all_day"`
	StartTime  *string `json:"start_time"`
	EndTime    *string `json:"end_time"`
	Reason     *string `json:"reason"`
}

// GetTimeOffRequests returns time-off requests, optionally filtered by status
func GetTimeOffRequests(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := `SELECT * FROM time_off_requests`
		args := []interface{}{}
		if status := r.URL.Query().Get("status"); status != "" {
			query += ` WHERE status = $1`
			args = append(args, status)
		}
		query += ` ORDER BY start_date DESC`

		requests := []models.TimeOffRequest{}
		if err := db.Select(&requests, query, args...); err != nil {
			log.Printf("❌ Failed to fetch time-off requests: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch time-off requests")
			return
		}

		utils.RespondSuccess(w, http.StatusOK, requests)
	}
}

// CreateTimeOffRequest creates a pending time-off request
func CreateTimeOff(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Println("📥 REQUEST: POST /api/time-off - Create time-off request")

		var req CreateTimeOffRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.EmployeeID == "" || req.StartDate == "" || req.EndDate == "" {
			utils.RespondError(w, http.StatusBadRequest, "employee_id, start_date, and end_date are required")
			return
		}
		if req.StartDate > req.EndDate {
			utils.RespondError(w, http.StatusBadRequest, "start_date must not be after end_date")
			return
		}

		isAllDay := true
		if req.IsAllDay != nil {
			isAllDay = *req.IsAllDay
		}

		now := time.Now().Unix()
		request := models.TimeOffRequest{
			ID:         uuid.New().String(),
			EmployeeID: req.EmployeeID,
			StartDate:  req.StartDate,
			EndDate:    req.EndDate,
			IsAllDay:   isAllDay,
			StartTime:  req.StartTime,
			EndTime:    req.EndTime,
			Reason:     req.Reason,
			Status:     models.TimeOffPending,
			CreatedAt:  now,
			UpdatedAt:  now,
		}

		_, err := db.Exec(`
			INSERT INTO time_off_requests (id, employee_id, start_date, end_date, is_all_day,
				start_time, end_time, reason, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		`, request.ID, request.EmployeeID, request.StartDate, request.EndDate, request.IsAllDay,
			request.StartTime, request.EndTime, request.Reason, request.Status,
			request.CreatedAt, request.UpdatedAt)
		if err != nil {
			log.Printf("❌ Database error: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to create time-off request")
			return
		}

		log.Printf("✅ Time-off request created: %s (%s to %s)", request.ID, request.StartDate, request.EndDate)
		utils.RespondSuccess(w, http.StatusCreated, request)
	}
}

// UpdateTimeOffStatus approves or denies a pending request
func UpdateTimeOffStatus(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		log.Printf("📥 REQUEST: PATCH /api/time-off/%s/status", id)

		var req struct {
			Status string `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.Status != string(models.TimeOffApproved) && req.Status != string(models.TimeOffDenied) {
			utils.RespondError(w, http.StatusBadRequest, "Status must be 'approved' or 'denied'")
			return
		}

		result, err := db.Exec(`
			UPDATE time_off_requests SET status = $1, updated_at = $2 WHERE id = $3
		`, req.Status, time.Now().Unix(), id)
		if err != nil {
			log.Printf("❌ Database error: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to update time-off request")
			return
		}
		rows, _ := result.RowsAffected()
		if rows == 0 {
			utils.RespondError(w, http.StatusNotFound, "Time-off request not found")
			return
		}

		log.Printf("✅ Time-off request %s marked %s", id, req.Status)
		utils.RespondSuccess(w, http.StatusOK, map[string]string{"id": id, "status": req.Status})
	}
}
