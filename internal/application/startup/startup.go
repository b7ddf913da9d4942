// Package startup prepares the application server
package startup

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/foliostack/foliostack-go/internal/application/container"
	"github.com/foliostack/foliostack-go/internal/infrastructure/database"
	"github.com/foliostack/foliostack-go/internal/infrastructure/observability/logging"
	"github.com/foliostack/foliostack-go/internal/presentation/http/server"
	"github.com/foliostack/foliostack-go/pkg/config"
	"github.com/gin-gonic/gin"
)

// Initialize performs the complete startup sequence
func Initialize() error {
	setupLogging()

	start := time.Now().UTC()

	log.Println("FolioStack starting...")

	// Step 1: Channeled logger
	logger, err := logging.NewChanneledLogger(logging.DefaultLoggerConfig())
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	logger.Startup().Info("Channeled logging initialized")

	// Step 2: Refuse to run without a session secret
	if config.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if config.AdminPassword == "" {
		logger.Startup().Warn("ADMIN_PASSWORD is not set; admin login is disabled")
	} else if !strings.HasPrefix(config.AdminPassword, "$2") {
		logger.Startup().Warn("ADMIN_PASSWORD is not a bcrypt hash; store a hashed credential")
	}

	// Step 3: Store connection
	startDBTime := time.Now()
	db, err := database.New()
	if err != nil {
		return fmt.Errorf("failed to open store connection: %w", err)
	}
	logger.LogStartupPhase("database-connect", time.Since(startDBTime), true)
	logger.Startup().Info("Store connected", "turso", db.UseTurso)

	// Step 4: Schema
	startSchemaTime := time.Now()
	tableCreator := database.NewTableCreator()
	if err := tableCreator.CreateSchema(db.Conn); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	logger.LogStartupPhase("schema", time.Since(startSchemaTime), true)

	// Step 5: Dependency injection container
	appContainer := container.NewContainer(db, logger)
	logger.Startup().Info("Dependency injection container created with singleton services")

	// Step 6: Session event broadcaster
	go appContainer.Broadcaster.Run()
	logger.Startup().Info("Session broadcaster started")

	// Step 7: HTTP server
	port := config.Port
	httpServer := server.New(port, appContainer)
	logger.Startup().Info("HTTP server initialized", "port", port)

	// Step 8: Graceful shutdown wiring
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.System().Info("Starting HTTP server", "address", ":"+port)
		if err := httpServer.Start(); err != nil {
			logger.System().Error("HTTP server failed", "error", err.Error())
		}
	}()

	logger.Startup().Info("Application startup complete",
		"totalDuration", time.Since(start),
		"port", port)

	// Wait for shutdown signal
	<-gracefulShutdown
	logger.Shutdown().Info("Shutdown signal received, starting graceful shutdown...")

	shutdownStart := time.Now()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger.Shutdown().Info("Stopping HTTP server...")
	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Shutdown().Error("Error during server shutdown", "error", err.Error())
	} else {
		logger.Shutdown().Info("HTTP server stopped successfully")
	}

	logger.Shutdown().Info("Closing store connection...")
	if err := db.Close(); err != nil {
		logger.Shutdown().Error("Error closing store connection", "error", err.Error())
	} else {
		logger.Shutdown().Info("Store connection closed successfully")
	}

	logger.Shutdown().Info("Application shutdown complete",
		"totalUptime", time.Since(start),
		"shutdownDuration", time.Since(shutdownStart))

	return nil
}

// setupLogging configures application logging
func setupLogging() {
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	log.SetFlags(log.LstdFlags | log.Lshortfile)
}
