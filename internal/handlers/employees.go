package handlers

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"crewplan-backend/internal/models"
	"crewplan-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type CreateEmployeeRequest struct {
	Name       string   `json:"name"`
	PayType    string   `json:"pay_type"`
	HourlyRate float64  `json:"hourly_rate"`
	Positions  []string `json:"positions"`
	MinHours   *float64 `json:"min_hours"`
	MaxHours   *float64 `json:"max_hours"`
	MinDays    *int     `json:"min_days"`
	MaxDays    *int     `json:"max_days"`
}

// GetEmployees returns all employees, optionally only active ones
func GetEmployees(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := `SELECT * FROM employees`
		if r.URL.Query().Get("active") == "true" {
			query += ` WHERE is_active = true`
		}
		query += ` ORDER BY name`

		employees := []models.Employee{}
		if err := db.Select(&employees, query); err != nil {
			log.Printf("❌ Failed to fetch employees: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch employees")
			return
		}

		utils.RespondSuccess(w, http.StatusOK, employees)
	}
}

// GetEmployee returns one employee by id
func GetEmployee(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var employee models.Employee
		if err := db.Get(&employee, `SELECT * FROM employees WHERE id = $1`, id); err != nil {
			if err == sql.ErrNoRows {
				utils.RespondError(w, http.StatusNotFound, "Employee not found")
				return
			}
			log.Printf("❌ Failed to fetch employee %s: %v", id, err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch employee")
			return
		}

		utils.RespondSuccess(w, http.StatusOK, employee)
	}
}

// CreateEmployee creates a new employee
func CreateEmployee(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Println("📥 REQUEST: POST /api/employees - Create employee")

		var req CreateEmployeeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("❌ Invalid request body: %v", err)
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if req.Name == "" {
			utils.RespondError(w, http.StatusBadRequest, "Name is required")
			return
		}
		if req.PayType != string(models.PayTypeHourly) && req.PayType != string(models.PayTypeSalary) {
			utils.RespondError(w, http.StatusBadRequest, "Pay type must be 'hourly' or 'salary'")
			return
		}

		now := time.Now().Unix()
		employee := models.Employee{
			ID:         uuid.New().String(),
			Name:       req.Name,
			PayType:    models.PayType(req.PayType),
			HourlyRate: req.HourlyRate,
			Positions:  req.Positions,
			IsActive:   true,
			MinHours:   req.MinHours,
			MaxHours:   req.MaxHours,
			MinDays:    req.MinDays,
			MaxDays:    req.MaxDays,
			CreatedAt:  now,
			UpdatedAt:  now,
		}

		_, err := db.Exec(`
			INSERT INTO employees (id, name, pay_type, hourly_rate, positions, is_active,
				min_hours, max_hours, min_days, max_days, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		`, employee.ID, employee.Name, employee.PayType, employee.HourlyRate,
			pq.Array([]string(employee.Positions)), employee.IsActive,
			employee.MinHours, employee.MaxHours, employee.MinDays, employee.MaxDays,
			employee.CreatedAt, employee.UpdatedAt)
		if err != nil {
			log.Printf("❌ Database error: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to create employee")
			return
		}

		log.Printf("✅ Employee created: %s (%s)", employee.Name, employee.ID)
		utils.RespondSuccess(w, http.StatusCreated, employee)
	}
}

// UpdateEmployee updates an employee's fields
func UpdateEmployee(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		log.Printf("📥 REQUEST: PUT /api/employees/%s - Update employee", id)

		var req struct {
			Name       *string  `json:"name"`
			PayType    *string  `json:"pay_type"`
			HourlyRate *float64 `json:"hourly_rate"`
			Positions  []string `json:"positions"`
			IsActive   *bool    `json:"is_active"`
			MinHours   *float64 `json:"min_hours"`
			MaxHours   *float64 `json:"max_hours"`
			MinDays    *int     `json:"min_days"`
			MaxDays    *int     `json:"max_days"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		var employee models.Employee
		if err := db.Get(&employee, `SELECT * FROM employees WHERE id = $1`, id); err != nil {
			if err == sql.ErrNoRows {
				utils.RespondError(w, http.StatusNotFound, "Employee not found")
				return
			}
			log.Printf("❌ Failed to fetch employee %s: %v", id, err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch employee")
			return
		}

		if req.Name != nil {
			employee.Name = *req.Name
		}
		if req.PayType != nil {
			employee.PayType = models.PayType(*req.PayType)
		}
		if req.HourlyRate != nil {
			employee.HourlyRate = *req.HourlyRate
		}
		if req.Positions != nil {
			employee.Positions = req.Positions
		}
		if req.IsActive != nil {
			employee.IsActive = *req.IsActive
		}
		if req.MinHours != nil {
			employee.MinHours = req.MinHours
		}
		if req.MaxHours != nil {
			employee.MaxHours = req.MaxHours
		}
		if req.MinDays != nil {
			employee.MinDays = req.MinDays
		}
		if req.MaxDays != nil {
			employee.MaxDays = req.MaxDays
		}
		employee.UpdatedAt = time.Now().Unix()

		_, err := db.Exec(`
			UPDATE employees
			SET name = $1, pay_type = $2, hourly_rate = $3, positions = $4, is_active = $5,
				min_hours = $6, max_hours = $7, min_days = $8, max_days = $9, updated_at = $10
			WHERE id = $11
		`, employee.Name, employee.PayType, employee.HourlyRate,
			pq.Array([]string(employee.Positions)), employee.IsActive,
			employee.MinHours, employee.MaxHours, employee.MinDays, employee.MaxDays,
			employee.UpdatedAt, id)
		if err != nil {
			log.Printf("❌ Database error: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to update employee")
			return
		}

		log.Printf("✅ Employee updated: %s", id)
		utils.RespondSuccess(w, http.StatusOK, employee)
	}
}

// DeactivateEmployee soft-deletes an employee. Historical shifts keep their
// assignment; future suggestions exclude the employee.
func DeactivateEmployee(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		log.Printf("📥 REQUEST: DELETE /api/employees/%s - Deactivate employee", id)

		result, err := db.Exec(`
			UPDATE employees SET is_active = false, updated_at = $1 WHERE id = $2
		`, time.Now().Unix(), id)
		if err != nil {
			log.Printf("❌ Database error: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to deactivate employee")
			return
		}
		rows, _ := result.RowsAffected()
		if rows == 0 {
			utils.RespondError(w, http.StatusNotFound, "Employee not found")
			return
		}

		log.Printf("✅ Employee deactivated: %s", id)
		utils.RespondSuccess(w, http.StatusOK, map[string]string{"id": id})
	}
}
