package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"algomentor/internal/api"
	"algomentor/internal/app/service"
	"algomentor/internal/common/security"
	"algomentor/internal/domain/repository"
	"algomentor/internal/platform/analyzer"
	"algomentor/internal/platform/cache"
	"algomentor/internal/platform/config"
	"algomentor/internal/platform/database"
	"algomentor/internal/platform/judge0"
)

func main() {
	// 1. Load Configuration
	config.Load()
	fmt.Println("Configuration loaded.")

	// 2. Initialize JWT
	security.InitJWT()
	fmt.Println("JWT initialized.")

	// 3. Initialize Database
	database.Connect()
	defer database.Close()
	fmt.Println("Database connected.")

	// 4. Initialize Redis
	cache.ConnectRedis()
	defer cache.CloseRedis()
	fmt.Println("Redis connected.")

	cfg := config.AppConfig

	// 5. Initialize Repositories
	userRepo := repository.NewPgUserRepository(database.DB)
	profileRepo := repository.NewPgUserProfileRepository(database.DB)
	problemRepo := repository.NewPgProblemRepository(database.DB)
	submissionRepo := repository.NewPgSubmissionRepository(database.DB)
	hintRepo := repository.NewPgHintUsageRepository(database.DB)

	// 6. Initialize External Collaborators
	runner := judge0.NewClient(cfg.Judge0BaseURL, cfg.Judge0APIKey,
		cfg.Judge0PollAttempts, cfg.Judge0PollDelayMs, cfg.Judge0TimeoutSec)
	qualityAnalyzer := analyzer.NewOpenAIAnalyzer(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.AnalyzerMaxRetries)
	hintGenerator := analyzer.NewOpenAIHintGenerator(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.AnalyzerMaxRetries)

	// 7. Initialize Services
	profileService := service.NewProfileService(profileRepo, userRepo, cfg.ProfileUpdateRetries)
	authService := service.NewAuthService(userRepo, profileService, database.DB)
	problemService := service.NewProblemService(problemRepo, cache.RDB, cfg.ProblemCacheTTLSeconds, database.DB)
	submissionService := service.NewSubmissionService(submissionRepo, hintRepo, problemService, profileService, runner, qualityAnalyzer)
	hintService := service.NewHintService(hintRepo, problemService, profileService, hintGenerator)

	// 8. Initialize Router & HTTP Server
	router := api.NewRouter(authService, problemService, submissionService, hintService, profileService)

	server := &http.Server{
		Addr:    ":" + cfg.APIPort,
		Handler: router,
		// Write timeout must cover a full synchronous grading round trip.
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 9. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on port %s", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", cfg.APIPort, err)
		}
	}()
	log.Println("Server started successfully.")

	<-stop // Wait for interrupt signal

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Println("Server stopped gracefully.")
}
