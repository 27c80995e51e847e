package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/quillforge/quillforge/src/cache"
	"github.com/quillforge/quillforge/src/config"
	"github.com/quillforge/quillforge/src/handlers"
	"github.com/quillforge/quillforge/src/orchestrator"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Printf("✓ Config loaded")

	responseCache, err := cache.NewResponseCache(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to initialize Redis: %v", err)
	}
	defer responseCache.Close()
	log.Printf("✓ Redis connected (cache TTL %s)", cfg.Redis.CacheTTL)

	registry, err := orchestrator.BuildRegistry(cfg)
	if err != nil {
		log.Fatalf("Failed to build provider registry: %v", err)
	}
	log.Printf("✓ Providers registered: %s", strings.Join(registry.FallbackOrder(), ", "))

	service, err := orchestrator.NewService(registry, responseCache, &cfg.Orchestrator)
	if err != nil {
		log.Fatalf("Failed to initialize orchestration service: %v", err)
	}
	log.Printf("✓ Orchestrator ready (max context %d chars, filter enabled: %v)",
		cfg.Orchestrator.MaxContextLength, cfg.Orchestrator.FilterEnabled)

	gin.SetMode(gin.ReleaseMode)
	r := gin.Default()
	r.Use(gin.Recovery())
	r.Use(corsMiddleware())

	completionHandler := handlers.NewCompletionHandler(service)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", completionHandler.HealthCheck)
		v1.POST("/complete", completionHandler.HandleCompletion)
		v1.GET("/providers/:name/health", completionHandler.HandleProviderHealth)
		v1.GET("/providers/:name/stats", completionHandler.HandleUsageStats)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	log.Printf("🚀 Quillforge engine running on port %s", cfg.Server.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

func corsMiddleware() gin.HandlerFunc {
	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	var allowedOrigins []string

	if allowedOriginsEnv != "" {
		allowedOrigins = strings.Split(allowedOriginsEnv, ",")
		for i := range allowedOrigins {
			allowedOrigins[i] = strings.TrimSpace(allowedOrigins[i])
		}
	} else {
		allowedOrigins = []string{
			"http://localhost:3000",
			"http://localhost:3001",
		}
	}

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		// Requests without an Origin header (curl, health checks) pass through.
		if origin == "" {
			c.Next()
			return
		}

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin {
				allowed = true
				c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
				break
			}
		}

		if !allowed {
			c.AbortWithStatus(403)
			return
		}

		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
