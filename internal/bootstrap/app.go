// Package bootstrap handles application initialization and lifecycle for
// the listing-manager service.
package bootstrap

import (
	"fmt"
	"net/http"

	"github.com/imobsite/listing-manager/internal/logger"
)

const version = "dev"

// Start initializes and runs the listing-manager application.
func Start() error {
	// Phase 1: Load config and create logger
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := CreateLogger(cfg, version)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	// Phase 2: Document store client
	store := SetupStore(cfg, log)

	// Phase 3: Optional Redis (image cache + event stream)
	redisClient := SetupRedis(cfg, log)

	// Phase 4: Assemble and run the HTTP server
	router := SetupRouter(cfg, store, redisClient, log)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	log.Info("Starting HTTP server",
		logger.String("host", cfg.Server.Host),
		logger.Int("port", cfg.Server.Port),
	)

	if runErr := server.ListenAndServe(); runErr != nil && runErr != http.ErrServerClosed {
		log.Error("Server error", logger.Error(runErr))
		return fmt.Errorf("server error: %w", runErr)
	}

	log.Info("Server exited")
	return nil
}
