// @title Booking Demo API
// @version 1.0
// @description Demo booking service used as the system under test for the QA automation suite
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@example.com

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
// @description API Key for protected endpoints

package main

import (
	"context"
	"html/template"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/gti/booking-qa/docs"
	"github.com/gti/booking-qa/internal/config"
	"github.com/gti/booking-qa/internal/database"
	"github.com/gti/booking-qa/internal/handler"
	"github.com/gti/booking-qa/internal/middleware"
	"github.com/gti/booking-qa/internal/repository"
	"github.com/gti/booking-qa/internal/service"
)

func main() {
	// Load configuration
	cfg := config.LoadServer()

	// Connect to database
	ctx := context.Background()
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.RunMigrations(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed data
	if err := db.SeedData(ctx); err != nil {
		log.Fatalf("Failed to seed data: %v", err)
	}

	// Initialize repositories
	bookingRepo := repository.NewBookingRepository(db.Pool)
	userRepo := repository.NewUserRepository(db.Pool)

	// Initialize services
	webhookService := service.NewWebhookService(cfg.WebhookDestinationURL)
	bookingService := service.NewBookingService(bookingRepo, webhookService)
	authService := service.NewAuthService(userRepo)

	// Drop sessions that expired while the service was down
	if err := authService.CleanExpiredSessions(ctx); err != nil {
		log.Printf("Failed to clean expired sessions: %v", err)
	}

	// Load templates
	templates, err := loadTemplates()
	if err != nil {
		log.Fatalf("Failed to load templates: %v", err)
	}

	// Initialize handlers
	webHandler := handler.NewWebHandler(bookingService, templates)
	apiHandler := handler.NewAPIHandler(bookingService)
	authHandler := handler.NewAuthHandler(authService, templates)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())

	// Optional session auth for all routes (sets user context if logged in)
	e.Use(middleware.SessionAuthOptional(authService))

	// Health check
	e.GET("/health", apiHandler.Health)

	// Public routes
	e.GET("/", webHandler.Index)
	e.GET("/login", authHandler.LoginPage)

	// Auth routes (public)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout)

	// HTMX partials for the bookings page
	e.GET("/partials/bookings", webHandler.GetBookingRows)
	e.GET("/partials/bookings/:id", webHandler.GetBookingDetails)

	// Protected API routes (require X-API-Key)
	apiProtected := e.Group("/api")
	apiProtected.Use(middleware.APIKeyAuth(cfg.APIKey))
	apiProtected.GET("/bookings", apiHandler.ListBookings)
	apiProtected.POST("/bookings", apiHandler.CreateBooking)
	apiProtected.GET("/bookings/:id", apiHandler.GetBooking)
	apiProtected.PUT("/bookings/:id", apiHandler.UpdateBooking)
	apiProtected.PATCH("/bookings/:id", apiHandler.PatchBooking)
	apiProtected.DELETE("/bookings/:id", apiHandler.DeleteBooking)

	// Static files (if needed)
	e.Static("/static", "static")

	// Swagger API documentation
	e.GET("/api/doc/*", echoSwagger.WrapHandler)

	// Start server in goroutine
	go func() {
		addr := ":" + cfg.Port
		log.Printf("Starting server on %s", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}

func loadTemplates() (*template.Template, error) {
	// Custom template functions
	funcMap := template.FuncMap{
		"formatDate": func(t time.Time) string {
			return t.Format("2006-01-02")
		},
		"formatDateTime": func(t time.Time) string {
			return t.Format("Jan 2, 2006 3:04 PM")
		},
	}

	templates, err := template.New("").Funcs(funcMap).ParseGlob("templates/*.html")
	if err != nil {
		return nil, err
	}

	templates, err = templates.ParseGlob("templates/partials/*.html")
	if err != nil {
		return nil, err
	}

	return templates, nil
}
