package database

import (
	"log"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

func SeedUsers(db *sqlx.DB) error {
	// Check if users already exist
	var count int
	if err := db.Get(&count, "SELECT COUNT(*) FROM users"); err != nil {
		return err
	}

	if count > 0 {
		log.Println("✓ Users already seeded, skipping...")
		return nil
	}

	log.Println("🌱 Seeding test users...")

	managerPassword, err := bcrypt.GenerateFromPassword([]byte("manager123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	adminPassword, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	users := []map[string]interface{}{
		{
			"id":       uuid.New().String(),
			"email":    "manager@crewplan.com",
			"password": string(managerPassword),
			"name":     "Maria Manager",
			"role":     "manager",
		},
		{
			"id":       uuid.New().String(),
			"email":    "admin@crewplan.com",
			"password": string(adminPassword),
			"name":     "Admin User",
			"role":     "admin",
		},
	}

	for _, user := range users {
		query := `
			INSERT INTO users (id, email, password, name, role)
			VALUES (:id, :email, :password, :name, :role)
		`
		if _, err := db.NamedExec(query, user); err != nil {
			return err
		}
		log.Printf("  ✓ Created user: %s (%s)", user["email"], user["role"])
	}

	log.Println("✓ Successfully seeded test users")
	log.Println("  📧 Manager: manager@crewplan.com / manager123")
	log.Println("  📧 Admin:   admin@crewplan.com / admin123")
	return nil
}

func SeedEmployees(db *sqlx.DB) error {
	// Check if employees already exist
	var count int
	if err := db.Get(&count, "SELECT COUNT(*) FROM employees"); err != nil {
		return err
	}

	if count > 0 {
		log.Println("✓ Employees already seeded, skipping...")
		return nil
	}

	log.Println("🌱 Seeding sample employees...")

	employees := []struct {
		name      string
		payType   string
		rate      float64
		positions []string
	}{
		{"Alex Rivera", "hourly", 18.50, []string{"Cook", "Prep"}},
		{"Jordan Lee", "hourly", 16.00, []string{"Server"}},
		{"Sam Chen", "hourly", 17.25, []string{"Server", "Host"}},
		{"Taylor Brooks", "hourly", 19.00, []string{"Cook"}},
		{"Casey Morgan", "hourly", 15.50, []string{"Team Member"}},
		{"Riley Nguyen", "salary", 0, []string{"Shift Lead", "Team Member"}},
	}

	for _, emp := range employees {
		id := uuid.New().String()
		_, err := db.Exec(`
			INSERT INTO employees (id, name, pay_type, hourly_rate, positions, is_active)
			VALUES ($1, $2, $3, $4, $5, TRUE)
		`, id, emp.name, emp.payType, emp.rate, pq.Array(emp.positions))
		if err != nil {
			return err
		}

		// Default availability: open all week
		for day := 0; day <= 6; day++ {
			_, err := db.Exec(`
				INSERT INTO availability (id, employee_id, day_of_week, is_available, start_time, end_time)
				VALUES ($1, $2, $3, TRUE, '00:00', '24:00')
			`, uuid.New().String(), id, day)
			if err != nil {
				return err
			}
		}
		log.Printf("  ✓ Created employee: %s (%s)", emp.name, emp.payType)
	}

	log.Println("✓ Successfully seeded sample employees")
	return nil
}
