package main

import (
	"log"
	"net/http"
	"os"

	"crewplan-backend/internal/database"
	"crewplan-backend/internal/handlers"
	"crewplan-backend/internal/middleware"
	"crewplan-backend/internal/services"
	"crewplan-backend/internal/store"
	"crewplan-backend/internal/websocket"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
)

func main() {
	log.Println("═══════════════════════════════════════════════════════════════════")
	log.Println("🚀 CREWPLAN BACKEND SERVER STARTING")
	log.Println("═══════════════════════════════════════════════════════════════════")

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  Warning: .env file not found, using environment variables from system")
	} else {
		log.Println("✅ .env file loaded successfully")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	db, err := database.Connect(dbURL)
	if err != nil {
		log.Fatalf("❌ Database connection failed: %v", err)
	}
	defer db.Close()

	log.Println("🔄 Running database migrations...")
	if err := database.Migrate(db); err != nil {
		log.Fatalf("❌ Database migrations failed: %v", err)
	}

	log.Println("🌱 Seeding database with initial data...")
	if err := database.SeedUsers(db); err != nil {
		log.Fatalf("❌ User seeding failed: %v", err)
	}
	if err := database.SeedEmployees(db); err != nil {
		log.Fatalf("❌ Employee seeding failed: %v", err)
	}

	// Initialize Firebase Cloud Messaging
	// Supports both file path and base64-encoded credentials (for cloud deployments)
	var fcmService *services.FCMService
	if fcmCredsBase64 := os.Getenv("FIREBASE_CREDENTIALS_BASE64"); fcmCredsBase64 != "" {
		fcmService, err = services.NewFCMServiceFromBase64(fcmCredsBase64, db)
		if err != nil {
			log.Printf("⚠️  Failed to initialize FCM from base64: %v (push notifications disabled)", err)
			fcmService = nil
		} else {
			log.Println("✅ Firebase Cloud Messaging initialized from base64 credentials")
		}
	} else {
		fcmCredentialsFile := os.Getenv("FIREBASE_CREDENTIALS_FILE")
		if fcmCredentialsFile == "" {
			fcmCredentialsFile = "./firebase-service-account.json"
		}
		fcmService, err = services.NewFCMService(fcmCredentialsFile, db)
		if err != nil {
			log.Printf("⚠️  Failed to initialize FCM from file: %v (push notifications disabled)", err)
			fcmService = nil
		} else {
			log.Println("✅ Firebase Cloud Messaging initialized from file")
		}
	}

	// Initialize WebSocket hub
	wsHub := websocket.NewHub()
	go wsHub.Run()
	log.Println("✅ WebSocket hub started")

	// Wire scheduling engines
	settings := services.LoadSettings()
	clock := services.NewClock()

	shiftStore := store.NewShiftStore(db)
	scheduleStore := store.NewScheduleStore(db)
	publishJobStore := store.NewPublishJobStore(db)
	employeeStore := store.NewEmployeeStore(db)
	projectionStore := store.NewProjectionStore(db)

	draftManager := services.NewDraftManager(shiftStore, scheduleStore, employeeStore, projectionStore, clock, settings)
	defer draftManager.CloseAll()

	publicationManager := services.NewPublicationManager(shiftStore, scheduleStore, employeeStore, clock, settings)

	var push services.PushSender
	if fcmService != nil {
		push = fcmService
	}
	publishTracker := services.NewPublishJobTracker(publishJobStore, scheduleStore, publicationManager, clock, wsHub, push)
	log.Println("✅ Scheduling engines wired")

	// Create router
	r := chi.NewRouter()

	// Middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Authentication routes (no auth required)
	r.Post("/api/auth/login", handlers.Login(db))

	// WebSocket endpoint (authentication handled in handler via query param)
	r.Get("/ws", websocket.HandleWebSocket(wsHub))

	// API routes (require authentication + manager role)
	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth)
			r.Use(middleware.RequireRole("manager"))

			// Employees
			r.Get("/employees", handlers.GetEmployees(db))
			r.Post("/employees", handlers.CreateEmployee(db))
			r.Get("/employees/{id}", handlers.GetEmployee(db))
			r.Put("/employees/{id}", handlers.UpdateEmployee(db))
			r.Delete("/employees/{id}", handlers.DeactivateEmployee(db))
			r.Get("/employees/{id}/availability", handlers.GetEmployeeAvailability(db))
			r.Put("/employees/{id}/availability", handlers.SetEmployeeAvailability(db))

			// Time off
			r.Get("/time-off", handlers.GetTimeOffRequests(db))
			r.Post("/time-off", handlers.CreateTimeOff(db))
			r.Patch("/time-off/{id}/status", handlers.UpdateTimeOffStatus(db))

			// Sales projections
			r.Get("/projections", handlers.GetProjections(db))
			r.Put("/projections", handlers.UpsertProjection(db))

			// Schedules and drafts
			r.Get("/schedules", handlers.GetSchedules(db))
			r.Post("/schedules", handlers.CreateDraft(db, draftManager))
			r.Get("/schedules/{id}", handlers.GetSchedule(db, draftManager))
			r.Patch("/schedules/{id}", handlers.UpdateSchedule(db))

			// Draft shift editing
			r.Post("/schedules/{id}/shifts", handlers.AddShift(draftManager))
			r.Patch("/schedules/{id}/shifts/{shiftID}", handlers.UpdateShift(draftManager))
			r.Delete("/schedules/{id}/shifts/{shiftID}", handlers.DeleteShift(draftManager))
			r.Post("/schedules/{id}/reconcile", handlers.ReconcileSchedule(draftManager))

			// Labor metrics and assignment suggestions
			r.Get("/schedules/{id}/labor-summary", handlers.GetLaborSummary(db, draftManager, settings))
			r.Get("/schedules/{id}/shifts/{shiftID}/suggestions", handlers.GetShiftSuggestions(db, draftManager))

			// Publication
			r.Post("/schedules/{id}/publish", handlers.PublishSchedule(publishTracker))
			r.Post("/schedules/{id}/copy-from/{sourceID}", handlers.CopySchedule(publicationManager, draftManager))
			r.Get("/publish-jobs/{id}", handlers.GetPublishJob(publishTracker))

			// FCM token registration
			r.Post("/fcm-token", handlers.RegisterFCMToken(db))
		})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
		log.Printf("⚠️  PORT not set, using default: %s", port)
	}

	log.Println("═══════════════════════════════════════════════════════════════════")
	log.Println("✅ ALL INITIALIZATION COMPLETE")
	log.Printf("🚀 Server starting on http://localhost:%s", port)
	log.Println("═══════════════════════════════════════════════════════════════════")

	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatalf("❌ Server failed to start: %v", err)
	}
}
