package main

import (
	"context"
	"errors"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"staffdesk/internal/capabilities"
	"staffdesk/internal/config"
	"staffdesk/internal/handler"
	"staffdesk/internal/middleware"
	"staffdesk/internal/repository"
	"staffdesk/internal/service"
	"staffdesk/internal/service/agent"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" || cfg.Debug {
		logLevel = slog.LevelDebug
	}

	var logOutput io.Writer = os.Stdout
	if cfg.LogDir != "" {
		logFile, err := config.SetupLogFile(cfg.LogDir, cfg.LogMaxFiles)
		if err != nil {
			log.Fatalf("Failed to setup log file: %v", err)
		}
		defer logFile.Close()
		logOutput = io.MultiWriter(os.Stdout, logFile)
	}

	logger := slog.New(slog.NewJSONHandler(logOutput, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"database_driver", cfg.DatabaseDriver,
		"session_mode", cfg.SessionMode,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := repository.Open(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer closeStore()

	// Initialize capability registry
	capabilityRegistry, err := capabilities.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to initialize capability registry: %v", err)
	}

	// Agent: tools, reasoning client, loop, sessions
	agentServices, err := agent.Setup(cfg, store, capabilityRegistry, logger)
	if err != nil {
		log.Fatalf("Failed to setup agent: %v", err)
	}
	agentService := agentServices.Agent
	employeeService := service.NewEmployeeService(store, agentService, logger)

	// Create handlers
	employeeHandler := handler.NewEmployeeHandler(employeeService, logger)
	agentHandler := handler.NewAgentHandler(agentService, logger)
	modelsHandler := handler.NewModelsHandler(cfg, logger, capabilityRegistry)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", handler.Health)

	// Employee routes
	mux.HandleFunc("GET /api/employees", employeeHandler.ListEmployees)
	mux.HandleFunc("POST /api/employees", employeeHandler.CreateEmployee)
	mux.HandleFunc("GET /api/employees/{id}", employeeHandler.GetEmployee)
	mux.HandleFunc("PATCH /api/employees/{id}", employeeHandler.UpdateEmployee)
	mux.HandleFunc("DELETE /api/employees/{id}", employeeHandler.DeleteEmployee)

	// Agent routes
	mux.HandleFunc("POST /api/chat", agentHandler.Chat)
	mux.HandleFunc("POST /api/chat/events", agentHandler.RecordEvent)
	mux.HandleFunc("GET /api/chat/history", agentHandler.GetHistory)
	mux.HandleFunc("DELETE /api/chat/memory", agentHandler.ResetMemory)

	// Model capabilities routes
	mux.HandleFunc("GET /api/models/capabilities", modelsHandler.GetCapabilities)

	// Build middleware chain
	var h http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → RequestLogger → Session → Routes
	h = middleware.Session(cfg.SessionMode)(h)
	h = middleware.RequestLogger(logger)(h)
	h = middleware.Recovery(logger)(h)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", middleware.SessionIDHeader, middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.SessionIDHeader, middleware.RequestIDHeader},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	// A chat may take several reasoning round trips
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: time.Duration(cfg.AgentMaxRounds+1)*cfg.AITimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("server listening", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return agentServices.Sessions.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
