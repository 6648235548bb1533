package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pethub/internal/audio"
	"pethub/internal/config"
	"pethub/internal/database"
	"pethub/internal/handlers"
	"pethub/internal/repository"
	"pethub/internal/security"
	"pethub/internal/service"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	// Run migrations
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	speciesRepo := repository.NewSpeciesRepository(db)
	petRepo := repository.NewPetRepository(db)
	interactionRepo := repository.NewInteractionRepository(db)
	conversationRepo := repository.NewConversationRepository(db)
	moodRepo := repository.NewMoodRepository(db)

	// Initialize services
	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL, cfg.EmailDebug)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}

	authService := service.NewAuthService(userRepo, cfg.TokenSigningKey, cfg.TokenDuration)
	petService := service.NewPetService(db, petRepo, speciesRepo, interactionRepo, userRepo, emailService)
	moodService := service.NewMoodService(moodRepo)

	if err := os.MkdirAll(cfg.VoiceAudioPath, 0o755); err != nil {
		log.Fatalf("Failed to create voice audio directory: %v", err)
	}
	speechService := audio.NewSpeechService(cfg.VoiceAudioPath)
	chatService := service.NewChatService(petService, conversationRepo, service.NewCannedResponder(), speechService)

	// Seed the species catalog
	if cfg.SeedCatalog {
		added, err := petService.SeedCatalog()
		if err != nil {
			log.Printf("Warning: Failed to seed species catalog: %v", err)
		} else if added > 0 {
			log.Printf("Seeded %d species into the catalog", added)
		}
	}

	// Initialize handlers
	rateLimiter := security.NewRateLimiter(10, time.Minute)
	middleware := handlers.NewMiddleware(authService, rateLimiter)
	authHandler := handlers.NewAuthHandler(authService, emailService)
	oauthHandler := handlers.NewOAuthHandler(authService, cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.OAuthRedirectBaseURL)
	petHandler := handlers.NewPetHandler(petService)
	chatHandler := handlers.NewChatHandler(chatService)
	moodHandler := handlers.NewMoodHandler(moodService)

	// Setup routes
	mux := http.NewServeMux()

	// Synthesized voice replies
	mux.Handle("GET /audio/", http.StripPrefix("/audio/", http.FileServer(http.Dir(cfg.VoiceAudioPath))))

	// Auth routes
	mux.HandleFunc("POST /api/auth/register", middleware.RateLimit(authHandler.Register))
	mux.HandleFunc("POST /api/auth/login", middleware.RateLimit(authHandler.Login))
	mux.HandleFunc("POST /api/auth/logout", authHandler.Logout)
	mux.HandleFunc("GET /api/auth/me", middleware.RequireAuth(authHandler.Me))
	mux.HandleFunc("GET /auth/google/start", oauthHandler.Start)
	mux.HandleFunc("GET /auth/google/callback", oauthHandler.Callback)

	// Pet lifecycle routes
	mux.HandleFunc("GET /api/pets/catalog", petHandler.Catalog)
	mux.HandleFunc("POST /api/pets/adopt", middleware.RequireAuth(petHandler.Adopt))
	mux.HandleFunc("POST /api/pets/prescribe", middleware.RequireAuth(petHandler.Prescribe))
	mux.HandleFunc("GET /api/pets", middleware.RequireAuth(petHandler.List))
	mux.HandleFunc("GET /api/pets/{id}/state", middleware.RequireAuth(petHandler.State))
	mux.HandleFunc("POST /api/pets/{id}/interactions", middleware.RequireAuth(petHandler.RecordInteraction))
	mux.HandleFunc("GET /api/pets/{id}/interactions", middleware.RequireAuth(petHandler.Interactions))
	mux.HandleFunc("GET /api/pets/{id}/replay", middleware.RequireAuth(petHandler.Replay))
	mux.HandleFunc("GET /api/pets/{id}/memory", middleware.RequireAuth(petHandler.Memory))
	mux.HandleFunc("PUT /api/pets/{id}/memory", middleware.RequireAuth(petHandler.UpdateMemory))
	mux.HandleFunc("DELETE /api/pets/{id}", middleware.RequireAuth(petHandler.Deactivate))

	// Chat routes
	mux.HandleFunc("POST /api/pets/{id}/chat", middleware.RequireAuth(chatHandler.SendMessage))
	mux.HandleFunc("POST /api/pets/{id}/voice", middleware.RequireAuth(chatHandler.SendVoiceMessage))
	mux.HandleFunc("GET /api/pets/{id}/conversation", middleware.RequireAuth(chatHandler.History))

	// Mood routes
	mux.HandleFunc("POST /api/mood", middleware.RequireAuth(moodHandler.Record))
	mux.HandleFunc("GET /api/mood", middleware.RequireAuth(moodHandler.History))

	// Wrap with logging middleware
	handler := handlers.Logging(mux)

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start background token and audio cleanup
	go cleanupExpiredTokens(authService)
	go purgeStaleAudio(speechService)

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Forced shutdown: %v", err)
	}
}

// cleanupExpiredTokens periodically deletes expired auth token records
func cleanupExpiredTokens(authService *service.AuthService) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		if err := authService.CleanupExpiredTokens(); err != nil {
			log.Printf("Failed to cleanup expired tokens: %v", err)
		}
	}
}

// purgeStaleAudio periodically removes synthesized voice replies that
// nobody has requested in a day
func purgeStaleAudio(speechService *audio.SpeechService) {
	ticker := time.NewTicker(6 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		removed, err := speechService.PurgeOlderThan(24 * time.Hour)
		if err != nil {
			log.Printf("Failed to purge audio files: %v", err)
		} else if removed > 0 {
			log.Printf("Purged %d stale audio files", removed)
		}
	}
}
