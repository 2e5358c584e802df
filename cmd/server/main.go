package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"

	"prenotazioni/internal/agent"
	"prenotazioni/internal/api"
	"prenotazioni/internal/auth"
	"prenotazioni/internal/repository"
	"prenotazioni/internal/service"
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

	restaurantID := 1
	if raw := os.Getenv("RESTAURANT_ID"); raw != "" {
		restaurantID, err = strconv.Atoi(raw)
		if err != nil {
			log.Fatalf("Invalid RESTAURANT_ID: %v", err)
		}
	}
	restaurantName := os.Getenv("RESTAURANT_NAME")
	if restaurantName == "" {
		restaurantName = "La Tavola"
	}

	restaurantRepo := repository.NewRestaurantRepository(database)
	customerRepo := repository.NewCustomerRepository(database)
	bookingRepo := repository.NewBookingRepository(database)
	callLogRepo := repository.NewCallLogRepository(database)
	menuRepo := repository.NewMenuRepository(database)
	jobRepo := repository.NewJobRepository(database)
	adminAuthRepo := repository.NewAdminAuthRepository(database)

	availabilitySvc := service.NewAvailabilityService(restaurantRepo, bookingRepo)
	bookingSvc := service.NewBookingService(customerRepo, bookingRepo, availabilitySvc)
	notifySvc := service.NewNotifyService(restaurantName, callLogRepo, os.Getenv("TWILIO_VOICE_URL"))
	bookingSvc.Notifier = notifySvc
	menuSvc := service.NewMenuService(menuRepo, restaurantID)
	restaurantSvc := service.NewRestaurantService(restaurantRepo, restaurantID)
	jobSvc := service.NewJobService(jobRepo)
	adminAuthSvc := service.NewAdminAuthService(adminAuthRepo)

	if seeded, err := menuSvc.SeedSampleMenu(context.Background()); err != nil {
		log.Printf("Menu seeding failed: %v", err)
	} else if seeded > 0 {
		log.Printf("Seeded %d sample menu items", seeded)
	}

	tools := agent.NewToolbox(bookingSvc, availabilitySvc, menuSvc, restaurantSvc, restaurantID)

	bookingHandler := api.NewBookingHandler(bookingSvc, availabilitySvc, restaurantID)
	agentHandler := api.NewAgentHandler(callLogRepo, notifySvc)
	infoHandler := api.NewInfoHandler(menuSvc, restaurantSvc, tools)
	adminHandler := api.NewAdminHandler(bookingSvc, bookingRepo, restaurantRepo, restaurantID)
	adminAuthHandler := api.NewAdminAuthHandler(adminAuthSvc)

	r := mux.NewRouter()

	// Public endpoints
	r.HandleFunc("/health", infoHandler.Health).Methods("GET")
	r.HandleFunc("/agent/start-call", agentHandler.StartCall).Methods("POST")
	r.HandleFunc("/agent/end-call", agentHandler.EndCall).Methods("POST")
	r.HandleFunc("/agent/outbound-call", agentHandler.OutboundCall).Methods("POST")
	r.HandleFunc("/bookings", bookingHandler.CreateBooking).Methods("POST")
	r.HandleFunc("/bookings/check-availability", bookingHandler.CheckAvailability).Methods("POST")
	r.HandleFunc("/bookings/{code}", bookingHandler.GetBooking).Methods("GET")
	r.HandleFunc("/bookings/{code}/cancel", bookingHandler.CancelBooking).Methods("PUT")
	r.HandleFunc("/menu/search", infoHandler.SearchMenu).Methods("POST")
	r.HandleFunc("/restaurant/info", infoHandler.RestaurantInfo).Methods("GET")
	r.HandleFunc("/special-requests", infoHandler.SpecialRequest).Methods("POST")
	r.HandleFunc("/customers/{phone}", bookingHandler.GetCustomer).Methods("GET")
	r.HandleFunc("/admin/login", adminAuthHandler.Login).Methods("POST")

	// Admin endpoints (protected)
	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(auth.AdminAuthMiddleware)
	admin.HandleFunc("/bookings", adminHandler.ListBookings).Methods("GET")
	admin.HandleFunc("/bookings/{id}/status", adminHandler.UpdateBookingStatus).Methods("PUT")
	admin.HandleFunc("/restaurant", adminHandler.UpdateRestaurant).Methods("PUT")
	admin.HandleFunc("/register", adminAuthHandler.CreateAdmin).Methods("POST")
	admin.HandleFunc("/analytics/calls", agentHandler.CallAnalytics).Methods("GET")

	c := cron.New()
	if _, err := c.AddFunc("*/15 * * * *", func() {
		ctx := context.Background()
		if err := jobSvc.SweepBookingStatuses(ctx); err != nil {
			log.Printf("%v", err)
		}
		if err := jobSvc.CloseStaleCalls(ctx); err != nil {
			log.Printf("%v", err)
		}
	}); err != nil {
		log.Fatalf("Failed to schedule booking sweep: %v", err)
	}
	c.Start()
	defer c.Stop()

	corsHandler := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Server running on port %s", port)
	log.Fatal(http.ListenAndServe(":"+port, corsHandler(r)))
}
