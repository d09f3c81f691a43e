package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	"timebestilling/internal/api"
	"timebestilling/internal/auth"
	"timebestilling/internal/repository"
	"timebestilling/internal/schedule"
	"timebestilling/internal/service"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
)

func main() {
	godotenv.Load()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL not set")
	}
	database, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	if err := database.Ping(); err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}

	loc, err := time.LoadLocation("Europe/Oslo")
	if err != nil {
		loc = time.FixedZone("CET", 1*60*60) // fallback CET
	}
	cfg := schedule.Config{
		Location:       loc,
		Week:           schedule.DefaultWeek(),
		MinLeadMinutes: 30,
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid schedule config: %v", err)
	}

	notificationLog := service.NewNotificationLog(200)
	notifier := service.NewNotifyService(notificationLog, loc)

	bookingRepo := repository.NewBookingRepository(database, loc)
	adminAuthRepo := repository.NewAdminAuthRepository(database)

	bookingSvc := service.NewBookingService(bookingRepo, notifier, cfg)
	adminAuthSvc := service.NewAdminAuthService(adminAuthRepo)
	jobSvc := service.NewJobService(bookingRepo, loc)

	bookingHandler := api.NewBookingHandler(bookingSvc, bookingRepo)
	adminHandler := api.NewAdminHandler(bookingRepo, notificationLog)
	adminAuthHandler := api.NewAdminAuthHandler(adminAuthSvc)

	r := mux.NewRouter()

	// Public endpoints
	r.HandleFunc("/api/availability", bookingHandler.GetAvailability).Methods("GET")
	r.HandleFunc("/api/bookings", bookingHandler.CreateBooking).Methods("POST")
	r.HandleFunc("/api/bookings/{code}", bookingHandler.GetBooking).Methods("GET")
	r.HandleFunc("/api/services", bookingHandler.GetServices).Methods("GET")
	r.HandleFunc("/admin/login", adminAuthHandler.Login).Methods("POST")

	// Admin endpoints (protected)
	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(auth.AdminAuthMiddleware)
	admin.HandleFunc("/bookings", adminHandler.ListBookings).Methods("GET")
	admin.HandleFunc("/notifications", adminHandler.ListNotifications).Methods("GET")
	admin.HandleFunc("/users", adminAuthHandler.CreateAdmin).Methods("POST")

	// Daily operator summary at 07:00 local time.
	c := cron.New(cron.WithLocation(loc))
	c.AddFunc("0 7 * * *", func() {
		if err := jobSvc.SendDailySummary(); err != nil {
			log.Printf("Cron Job error: %v", err)
		}
	})
	c.Start()

	corsHandler := handlers.CORS(
		handlers.AllowedOrigins([]string{os.Getenv("CORS_ORIGIN")}),
		handlers.AllowedMethods([]string{"GET", "POST", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Server running on port %s", port)
	log.Fatal(http.ListenAndServe(":"+port, handlers.LoggingHandler(os.Stdout, corsHandler(r))))
}
