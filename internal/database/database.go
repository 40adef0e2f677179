package database

import (
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

func Connect(dbURL string) (*sqlx.DB, error) {
	log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	log.Println("🔌 DATABASE CONNECTION ATTEMPT")
	log.Printf("   📍 Database URL length: %d characters", len(dbURL))
	log.Printf("   📍 URL prefix: %s...", dbURL[:min(30, len(dbURL))])
	log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")

	db, err := sqlx.Connect("postgres", dbURL)
	if err != nil {
		log.Printf("❌ DATABASE CONNECTION FAILED: %v", err)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		log.Printf("❌ DATABASE PING FAILED: %v", err)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("✅ DATABASE CONNECTION SUCCESSFUL")
	return db, nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func Migrate(db *sqlx.DB) error {
	migrations := []string{
		// Create users table
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			name TEXT NOT NULL,
			role TEXT NOT NULL CHECK(role IN ('manager', 'admin')),
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
		)`,

		// Create employees table
		`CREATE TABLE IF NOT EXISTS employees (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			pay_type TEXT NOT NULL CHECK(pay_type IN ('hourly', 'salary')),
			hourly_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
			positions TEXT[] NOT NULL DEFAULT '{}',
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			min_hours DOUBLE PRECISION,
			max_hours DOUBLE PRECISION,
			min_days INT,
			max_days INT,
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
		)`,

		// Create availability table (one row per employee per weekday)
		`CREATE TABLE IF NOT EXISTS availability (
			id TEXT PRIMARY KEY,
			employee_id TEXT NOT NULL,
			day_of_week INT NOT NULL CHECK(day_of_week BETWEEN 0 AND 6),
			is_available BOOLEAN NOT NULL DEFAULT TRUE,
			start_time TEXT NOT NULL DEFAULT '00:00',
			end_time TEXT NOT NULL DEFAULT '24:00',
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			UNIQUE (employee_id, day_of_week),
			FOREIGN KEY (employee_id) REFERENCES employees(id) ON DELETE CASCADE
		)`,

		// Create time_off_requests table
		`CREATE TABLE IF NOT EXISTS time_off_requests (
			id TEXT PRIMARY KEY,
			employee_id TEXT NOT NULL,
			start_date TEXT NOT NULL,
			end_date TEXT NOT NULL,
			is_all_day BOOLEAN NOT NULL DEFAULT TRUE,
			start_time TEXT,
			end_time TEXT,
			reason TEXT,
			status TEXT NOT NULL DEFAULT 'pending' CHECK(status IN ('pending', 'approved', 'denied')),
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			FOREIGN KEY (employee_id) REFERENCES employees(id) ON DELETE CASCADE,
			CHECK (start_date <= end_date)
		)`,

		// Create sales_projections table
		`CREATE TABLE IF NOT EXISTS sales_projections (
			id TEXT PRIMARY KEY,
			week_start_date TEXT NOT NULL,
			day_of_week INT NOT NULL CHECK(day_of_week BETWEEN 0 AND 6),
			breakfast_sales DOUBLE PRECISION NOT NULL DEFAULT 0,
			lunch_sales DOUBLE PRECISION NOT NULL DEFAULT 0,
			dinner_sales DOUBLE PRECISION NOT NULL DEFAULT 0,
			late_night_sales DOUBLE PRECISION NOT NULL DEFAULT 0,
			actual_am_sales DOUBLE PRECISION,
			actual_pm_sales DOUBLE PRECISION,
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			UNIQUE (week_start_date, day_of_week)
		)`,

		// Create weekly_schedules table
		`CREATE TABLE IF NOT EXISTS weekly_schedules (
			id TEXT PRIMARY KEY,
			week_start_date TEXT NOT NULL,
			schedule_type TEXT NOT NULL CHECK(schedule_type IN ('performa', 'full_schedule')),
			name TEXT NOT NULL,
			version_number INT NOT NULL DEFAULT 0,
			is_published BOOLEAN NOT NULL DEFAULT FALSE,
			published_at BIGINT,
			is_starred BOOLEAN NOT NULL DEFAULT FALSE,
			total_labor_cost DOUBLE PRECISION NOT NULL DEFAULT 0,
			labor_percentage DOUBLE PRECISION NOT NULL DEFAULT 0,
			total_projected_sales DOUBLE PRECISION NOT NULL DEFAULT 0,
			sales_per_labor_hour DOUBLE PRECISION NOT NULL DEFAULT 0,
			created_by TEXT NOT NULL,
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			FOREIGN KEY (created_by) REFERENCES users(id) ON DELETE CASCADE
		)`,

		// Create shifts table
		`CREATE TABLE IF NOT EXISTS shifts (
			id TEXT PRIMARY KEY,
			schedule_id TEXT NOT NULL,
			date TEXT NOT NULL,
			start_time TEXT NOT NULL,
			end_time TEXT NOT NULL,
			hours DOUBLE PRECISION NOT NULL DEFAULT 0,
			positions TEXT[] NOT NULL DEFAULT '{}',
			employee_id TEXT,
			actual_start_time TEXT,
			actual_end_time TEXT,
			variance_reason TEXT,
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			FOREIGN KEY (schedule_id) REFERENCES weekly_schedules(id) ON DELETE CASCADE,
			FOREIGN KEY (employee_id) REFERENCES employees(id) ON DELETE SET NULL
		)`,

		// Create publish_jobs table
		`CREATE TABLE IF NOT EXISTS publish_jobs (
			id TEXT PRIMARY KEY,
			week_start_date TEXT NOT NULL,
			source_schedule_id TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending' CHECK(status IN ('pending', 'in_progress', 'completed', 'failed')),
			completed_at BIGINT,
			error_message TEXT,
			created_by TEXT NOT NULL,
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			FOREIGN KEY (source_schedule_id) REFERENCES weekly_schedules(id) ON DELETE CASCADE,
			FOREIGN KEY (created_by) REFERENCES users(id) ON DELETE CASCADE
		)`,

		// Create FCM tokens table
		`CREATE TABLE IF NOT EXISTS fcm_tokens (
			id SERIAL PRIMARY KEY,
			user_id TEXT NOT NULL,
			token TEXT NOT NULL UNIQUE,
			device_type TEXT NOT NULL CHECK(device_type IN ('ios', 'android')),
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
		)`,

		// Create indexes
		`CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)`,
		`CREATE INDEX IF NOT EXISTS idx_employees_is_active ON employees(is_active)`,
		`CREATE INDEX IF NOT EXISTS idx_availability_employee_id ON availability(employee_id)`,
		`CREATE INDEX IF NOT EXISTS idx_time_off_employee_id ON time_off_requests(employee_id)`,
		`CREATE INDEX IF NOT EXISTS idx_time_off_status ON time_off_requests(status)`,
		`CREATE INDEX IF NOT EXISTS idx_time_off_dates ON time_off_requests(start_date, end_date)`,
		`CREATE INDEX IF NOT EXISTS idx_sales_projections_week ON sales_projections(week_start_date)`,
		`CREATE INDEX IF NOT EXISTS idx_weekly_schedules_week ON weekly_schedules(week_start_date)`,
		`CREATE INDEX IF NOT EXISTS idx_weekly_schedules_week_type ON weekly_schedules(week_start_date, schedule_type)`,
		`CREATE INDEX IF NOT EXISTS idx_weekly_schedules_published ON weekly_schedules(is_published)`,
		`CREATE INDEX IF NOT EXISTS idx_shifts_schedule_id ON shifts(schedule_id)`,
		`CREATE INDEX IF NOT EXISTS idx_shifts_employee_id ON shifts(employee_id)`,
		`CREATE INDEX IF NOT EXISTS idx_shifts_date ON shifts(date)`,
		`CREATE INDEX IF NOT EXISTS idx_publish_jobs_source ON publish_jobs(source_schedule_id)`,
		`CREATE INDEX IF NOT EXISTS idx_publish_jobs_status ON publish_jobs(status)`,
		`CREATE INDEX IF NOT EXISTS idx_fcm_tokens_user_id ON fcm_tokens(user_id)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_fcm_tokens_token ON fcm_tokens(token)`,

		// At most one unpublished draft per (week, type, owner)
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_weekly_schedules_one_draft
			ON weekly_schedules(week_start_date, schedule_type, created_by)
			WHERE is_published = FALSE`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	log.Println("✓ Database migrations completed")
	return nil
}
