package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"topicgen-backend/internal/config"
	"topicgen-backend/internal/database"
	"topicgen-backend/internal/handlers"
	"topicgen-backend/internal/logger"
	"topicgen-backend/internal/middleware"
	"topicgen-backend/internal/repository"
	"topicgen-backend/internal/router"
	"topicgen-backend/internal/services"
)

func main() {
	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()

	log, err := logger.New(cfg.Env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	log.Info("starting topicgen backend", "env", cfg.Env)

	// ──── Step 2: Initialize Gemini Client ────
	gemini, err := services.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiConcurrentReqs, log)
	if err != nil {
		log.Fatal("gemini client initialization failed", "error", err)
	}
	defer gemini.Close()
	log.Info("gemini client initialized", "model", cfg.GeminiModel)

	// ──── Step 3: Build the Generation Pipeline ────
	genCfg := services.GeneratorConfig{
		Temperature:        float32(cfg.GenerationTemperature),
		TopP:               float32(cfg.GenerationTopP),
		MaxOutputTokens:    int32(cfg.GenerationMaxOutputTokens),
		PromptMinKeyPoints: cfg.PromptMinKeyPoints,
	}
	schema := services.NewContentSchema(cfg.SchemaMinKeyPoints)
	generator := services.NewContentGenerator(gemini, schema, genCfg, log)
	contentService := services.NewContentService(generator, log)

	// ──── Step 4: Optional Redis Response Cache ────
	contentHandler := handlers.NewContentHandler(contentService, nil, log)
	if cfg.RedisURL != "" && cfg.ContentCacheTTLMins > 0 {
		redisClient, err := database.NewRedisClient(cfg.RedisURL)
		if err != nil {
			log.Warn("redis unavailable, content cache disabled", "error", err)
		} else {
			defer redisClient.Close()
			cache := repository.NewContentCache(redisClient, time.Duration(cfg.ContentCacheTTLMins)*time.Minute)
			contentHandler = handlers.NewContentHandler(contentService, cache, log)
			log.Info("content cache enabled", "ttl_minutes", cfg.ContentCacheTTLMins)
		}
	}

	// ──── Step 5: Start HTTP Server ────
	generateLimiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute)
	defer generateLimiter.Stop()

	r := router.New(contentHandler, generateLimiter, cfg.FrontendURL)

	// Generation makes up to three model calls, so writes get a long deadline.
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 180 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Info("topicgen backend ready", "addr", "http://localhost:"+cfg.Port, "api", "/api/v1/content/generate")

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatal("server error", "error", err)
	}
}
