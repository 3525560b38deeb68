package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samarpan-samaj/community-backend/internal/config"
	"github.com/samarpan-samaj/community-backend/internal/handlers"
	"github.com/samarpan-samaj/community-backend/internal/middleware"
	"github.com/samarpan-samaj/community-backend/internal/repository"
	"github.com/samarpan-samaj/community-backend/internal/services"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func Run() {
	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Setup logger
	setupLogger(cfg.Log.Level)

	if cfg.Payment.SharedSecret == "" {
		log.Warn().Msg("Payment gateway not configured, all callbacks will be rejected")
	}

	// Connect to database
	db, err := pgxpool.New(context.Background(), cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := db.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Database connection established")

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	eventRepo := repository.NewEventRepository(db)
	galleryRepo := repository.NewGalleryRepository(db)

	// Initialize services
	mediaStore, err := services.NewS3MediaStore(
		cfg.AWS.Region,
		cfg.AWS.S3Bucket,
		cfg.AWS.AccessKey,
		cfg.AWS.SecretKey,
		cfg.AWS.Endpoint,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create media store")
	}

	verifier := services.NewPaymentVerifier(cfg.Payment.SharedSecret)
	userService := services.NewUserService(userRepo, verifier, cfg.JWT.Secret)
	profileService := services.NewProfileService(profileRepo, mediaStore, verifier, cfg.Cleanup.GracePeriodDays)
	eventService := services.NewEventService(eventRepo)
	galleryService := services.NewGalleryService(galleryRepo, mediaStore)

	// Start cleanup scheduler
	cleanup := services.NewCleanupScheduler(profileService, cfg.Cleanup.CronSpec)
	if err := cleanup.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start cleanup scheduler")
	}

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService)
	profileHandler := handlers.NewProfileHandler(profileService, userService)
	adminHandler := handlers.NewAdminHandler(profileService, userService)
	eventHandler := handlers.NewEventHandler(eventService)
	galleryHandler := handlers.NewGalleryHandler(galleryService)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(corsMiddleware)

	// Routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Post("/users", userHandler.Register)
		r.Post("/login", userHandler.Login)
		r.Get("/events", eventHandler.List)
		r.Get("/events/{event_id}", eventHandler.Get)
		r.Get("/gallery", galleryHandler.ListAlbums)
		r.Get("/gallery/{album_id}", galleryHandler.GetAlbum)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(userService))

			r.Get("/me", userHandler.Me)
			r.Post("/membership/callback", userHandler.PurchaseMembership)

			r.Post("/profiles", profileHandler.Create)
			r.Get("/profiles", profileHandler.List)
			r.Get("/profiles/mine", profileHandler.ListOwn)
			r.Get("/profiles/{profile_id}", profileHandler.Get)
			r.Patch("/profiles/{profile_id}", profileHandler.Update)
			r.Delete("/profiles/{profile_id}", profileHandler.Delete)
			r.Post("/profiles/{profile_id}/payment", profileHandler.PaymentCallback)
			r.Post("/profiles/{profile_id}/hide", profileHandler.Hide)
			r.Post("/profiles/{profile_id}/unhide", profileHandler.Unhide)
			r.Post("/profiles/{profile_id}/photos", profileHandler.AddPhoto)

			// Admin routes
			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireAdmin)

				r.Get("/profiles/pending", adminHandler.ListPendingProfiles)
				r.Post("/profiles/{profile_id}/approve", adminHandler.ApproveProfile)
				r.Post("/profiles/{profile_id}/reject", adminHandler.RejectProfile)
				r.Post("/profiles/{profile_id}/complete", adminHandler.CompleteProfile)

				r.Get("/users/pending", adminHandler.ListPendingUsers)
				r.Post("/users/{user_id}/approve", adminHandler.ApproveUser)
				r.Post("/users/{user_id}/suspend", adminHandler.SuspendUser)

				r.Post("/events", eventHandler.Create)
				r.Put("/events/{event_id}", eventHandler.Update)
				r.Delete("/events/{event_id}", eventHandler.Delete)

				r.Post("/gallery", galleryHandler.CreateAlbum)
				r.Delete("/gallery/{album_id}", galleryHandler.DeleteAlbum)
				r.Post("/gallery/{album_id}/images", galleryHandler.AddImage)
			})
		})
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	cleanup.Stop()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// setupLogger configures zerolog logger
func setupLogger(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// corsMiddleware handles CORS
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
