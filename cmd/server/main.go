package main

import (
	"context"                            // context package is needed for Redis operations
	"credit_scoring/internal/api"        // Custom package for API handlers
	"credit_scoring/internal/config"     // Custom package for configuration
	"credit_scoring/internal/credit"     // Credit parameters service
	"credit_scoring/internal/db"         // Database connection and migrations
	"credit_scoring/internal/middleware" // Custom package for middleware
	"credit_scoring/internal/predictor"  // Model artifact and grading
	"credit_scoring/internal/utils"      // Response cache

	"github.com/gin-gonic/gin"                                  // Gin web framework
	"github.com/prometheus/client_golang/prometheus"            // Metrics registry
	"github.com/prometheus/client_golang/prometheus/collectors" // Process and Go runtime collectors
	"github.com/prometheus/client_golang/prometheus/promhttp"   // Metrics exposition handler
	"github.com/redis/go-redis/v9"                              // Redis client
	"github.com/sirupsen/logrus"                                // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if cfg.IsProd {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(level)
	} else {
		logrus.Warnf("unknown log level %q, using info", cfg.LogLevel)
	}

	// Connect to the database and bring the schema up to date
	gdb, err := db.Open(cfg)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}
	if err := db.Migrate(gdb); err != nil {
		logrus.Fatalf("failed to migrate DB: %v", err)
	}

	// Setup Redis client, caching stays off without an address
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr, // Redis server address
			Password: cfg.RedisPass, // Redis password
			DB:       cfg.RedisDB,   // Redis database number
		})
		// Test Redis connection
		if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
			logrus.Fatalf("failed to connect to Redis: %v", err)
		}
	} else {
		logrus.Info("REDIS_ADDR not set, response caching disabled")
	}
	cache := utils.NewCache(redisClient, cfg.CacheTTL)

	// Metrics registry
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	predictorMetrics := predictor.NewMetrics(reg)

	// Model artifact is read lazily on the first prediction
	handle := predictor.NewHandle(cfg.ModelPath, predictorMetrics)
	if _, err := handle.Model(); err != nil {
		logrus.WithFields(logrus.Fields{
			"path":  cfg.ModelPath, // Artifact path
			"error": err.Error(),   // Load failure
		}).Warn("Model artifact not loaded at startup")
	}
	service := credit.NewService(gdb, predictor.New(handle, predictorMetrics), cache)

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	r := api.NewRouter(api.Deps{
		DB:        gdb,                                              // Database handle
		Service:   service,                                          // Credit parameters service
		Handle:    handle,                                           // Model artifact handle
		Cache:     cache,                                            // Response cache
		Metrics:   promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), // Prometheus exposition
		Telemetry: middleware.NewMetrics(reg),                       // Request metrics
	})

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	logrus.Info("Server running on " + cfg.AppPort) // Log server start
	// Start the server on port cfg.AppPort
	if err := r.Run(":" + cfg.AppPort); err != nil {
		logrus.Fatalf("server stopped: %v", err)
	}
}
