package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog/v2"
	"github.com/joho/godotenv"

	"exostandards/application"
	"exostandards/database"
	"exostandards/exoauth"
	"exostandards/infrastructure/config"
	"exostandards/infrastructure/factories"
	"exostandards/interfaces/web/handlers"
	"exostandards/interfaces/web/presenters"
	"exostandards/logging"
)

func main() {
	// Initialize configuration
	loadEnvironment()
	cfg := config.LoadAppConfigFromEnv()

	// Initialize logging
	logger := initializeLogging(cfg)

	// Initialize database
	db := initializeDatabase(cfg, logger)
	defer db.Close()

	// Build dependencies
	deps := buildDependencies(db, logger, cfg)

	// Setup routes and start server
	router := setupRoutes(deps, cfg)
	startServer(router, cfg, logger)
}

// ApplicationServices holds application services.
type ApplicationServices struct {
	SendReceiveLimit application.SendReceiveLimitService
	Compliance       *application.TenantComplianceService
}

// PresentationLayer groups all presentation components
type PresentationLayer struct {
	StandardPresenter *presenters.StandardPresenter
	StandardHandlers  *handlers.StandardHandlers
}

// Dependencies holds all application dependencies organized by layer
type Dependencies struct {
	// Infrastructure
	DB     *database.Database
	Logger *logging.Logger

	// Application Layer
	Services *ApplicationServices

	// Presentation Layer
	Presentation *PresentationLayer
}

func loadEnvironment() {
	if err := godotenv.Load(); err != nil {
		println("No .env file found, using environment variables")
	} else {
		println("Loaded configuration from .env file")
	}
}

func initializeLogging(cfg *config.AppConfig) *logging.Logger {
	logger := logging.NewLogger(cfg.Logging)
	logging.SetDefault(logger)

	logger.Info("Application starting",
		"version", "1.0.0",
		"log_level", cfg.Logging.Level,
		"log_format", cfg.Logging.Format,
		"db_path", cfg.Database.Path,
	)

	return logger
}

func initializeDatabase(cfg *config.AppConfig, logger *logging.Logger) *database.Database {
	db, err := database.New(*cfg.Database, logger)
	if err != nil {
		logger.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	return db
}

// buildApplicationServices creates application services over the tenant gateways.
func buildApplicationServices(db *database.Database, logger *logging.Logger) *ApplicationServices {
	auth, err := exoauth.FromEnv()
	if err != nil {
		logger.Error("Failed to load Exchange app credentials", "error", err)
		os.Exit(1)
	}

	factory := factories.NewStandardServiceFactory(
		factories.NewRepositoryBundle(db),
		factories.NewTenantGateways(auth),
	)

	return &ApplicationServices{
		SendReceiveLimit: factory.CreateSendReceiveLimitService(),
		Compliance:       factory.CreateTenantComplianceService(),
	}
}

// buildPresentationLayer creates all presenters and handlers
func buildPresentationLayer(services *ApplicationServices, cfg *config.AppConfig) *PresentationLayer {
	standardPresenter := presenters.NewStandardPresenter()
	standardHandlers := handlers.NewStandardHandlers(
		services.SendReceiveLimit,
		services.Compliance,
		standardPresenter,
		cfg.RunTimeout,
	)

	return &PresentationLayer{
		StandardPresenter: standardPresenter,
		StandardHandlers:  standardHandlers,
	}
}

// buildDependencies creates all application dependencies
func buildDependencies(db *database.Database, logger *logging.Logger, cfg *config.AppConfig) *Dependencies {
	services := buildApplicationServices(db, logger)
	presentation := buildPresentationLayer(services, cfg)

	return &Dependencies{
		DB:           db,
		Logger:       logger,
		Services:     services,
		Presentation: presentation,
	}
}

func setupRoutes(deps *Dependencies, cfg *config.AppConfig) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(requestIDToLogger)
	setupHTTPLogging(r, deps, cfg)
	r.Use(middleware.Recoverer)

	// System endpoints
	setupSystemRoutes(r, deps)

	// Standard routes
	deps.Presentation.StandardHandlers.Mount(r)

	return r
}

// requestIDToLogger copies chi's request id under the key the logging package reads.
func requestIDToLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := middleware.GetReqID(r.Context()); id != "" {
			r = r.WithContext(context.WithValue(r.Context(), logging.RequestIDKey, id))
		}
		next.ServeHTTP(w, r)
	})
}

func setupHTTPLogging(r *chi.Mux, deps *Dependencies, cfg *config.AppConfig) {
	if cfg.HTTPLogPath == "" {
		return
	}

	logFile, err := os.OpenFile(cfg.HTTPLogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		deps.Logger.Error("Failed to open HTTP log file", "error", err, "path", cfg.HTTPLogPath)
		return
	}
	// logFile stays open for the server lifetime

	httpLogger := httplog.NewLogger("exostandards", httplog.Options{
		Writer: logFile,
		JSON:   true,
	})
	r.Use(httplog.RequestLogger(httpLogger))

	deps.Logger.Info("HTTP request logging enabled", "path", cfg.HTTPLogPath)
}

func setupSystemRoutes(r *chi.Mux, deps *Dependencies) {
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		stats, err := deps.DB.Health(r.Context())
		if err != nil {
			handlers.WriteError(w, http.StatusServiceUnavailable, err.Error())
			return
		}

		handlers.WriteJSON(w, http.StatusOK, map[string]any{
			"status":   "ok",
			"database": stats,
		})
	})
}

func startServer(router *chi.Mux, cfg *config.AppConfig, logger *logging.Logger) {
	server := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	serverCtx, serverStopCtx := context.WithCancel(context.Background())

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sig
		logger.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(serverCtx, cfg.ShutdownTimeout)
		defer cancel()

		go func() {
			<-shutdownCtx.Done()
			if shutdownCtx.Err() == context.DeadlineExceeded {
				logger.Error("Graceful shutdown timed out, forcing exit")
				os.Exit(1)
			}
		}()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
			os.Exit(1)
		}
		serverStopCtx()
	}()

	logger.Info("Server starting", "address", cfg.HTTPAddr)
	err := server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		logger.Error("Server failed", "error", err)
		os.Exit(1)
	}

	<-serverCtx.Done()
	logger.Info("Server stopped")
}
