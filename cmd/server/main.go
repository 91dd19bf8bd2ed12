// Package main initializes and starts the AutomotrizJJ sales API server,
// setting up configuration, logging, the database connection,
// repositories, services and handlers.
package main

import (
	"cmp"
	"context"
	"fmt"
	"time"

	nethttp "net/http"

	"github.com/jdaniel1609/aplicacion-web-AutomotrizJJ-2/internal/config"
	"github.com/jdaniel1609/aplicacion-web-AutomotrizJJ-2/internal/db"
	"github.com/jdaniel1609/aplicacion-web-AutomotrizJJ-2/internal/logger"
	"github.com/jdaniel1609/aplicacion-web-AutomotrizJJ-2/internal/repository"
	"github.com/jdaniel1609/aplicacion-web-AutomotrizJJ-2/internal/server/handler/http"
	"github.com/jdaniel1609/aplicacion-web-AutomotrizJJ-2/internal/service"
	"go.uber.org/zap"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line and environment configuration.
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	if options.JWTSecret == "" {
		zapLogger.Fatal("JWT secret is required (flag -s or JWT_SECRET)")
	}

	// Initialize PostgreSQL connection.
	postgresDB, err := db.InitPostgres(options.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}

	// Purge vehicles that have been off the lot for a long time.
	db.StartInactiveVehicleCleaner(context.Background(), postgresDB,
		time.Hour,       // interval
		90*24*time.Hour, // retention: 90 days
		zapLogger,
	)

	// Initialize repositories.
	userRepo := repository.NewPostgresUserRepository(postgresDB)
	salesRepo := repository.NewPostgresSalesRepository(postgresDB)

	// Initialize business-logic services.
	authService := service.NewAuthService(userRepo, options.JWTSecret)
	salesService := service.NewSalesService(salesRepo, userRepo)

	// Create HTTP handlers for auth and sales endpoints.
	authHandler := &http.AuthHandler{AuthService: authService}
	salesHandler := &http.SalesHandler{SalesService: salesService}

	// Build the router with middleware and routes.
	router := http.NewRouter(authHandler, salesHandler, authService, zapLogger)

	server := &nethttp.Server{
		Addr:    options.Addr,
		Handler: router,
	}

	zapLogger.Info("starting HTTP server", zap.String("addr", options.Addr))
	if err := server.ListenAndServe(); err != nil {
		zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
	}
}
