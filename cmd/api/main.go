package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/brinda-08/Quiz/internal/auth"
	"github.com/brinda-08/Quiz/internal/background"
	"github.com/brinda-08/Quiz/internal/config"
	"github.com/brinda-08/Quiz/internal/database"
	"github.com/brinda-08/Quiz/internal/handlers"
	middlewareCustom "github.com/brinda-08/Quiz/internal/middleware"
	"github.com/brinda-08/Quiz/internal/repositories"
	"github.com/brinda-08/Quiz/internal/routes"
	"github.com/brinda-08/Quiz/internal/services"
	pkgauth "github.com/brinda-08/Quiz/pkg/auth"
	pkghttp "github.com/brinda-08/Quiz/pkg/http"
	pkglogger "github.com/brinda-08/Quiz/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLogLevel(cfg.Server.LogLevel)}))
	slog.SetDefault(logger)
	logger.Info("configuration loaded", slog.String("env", cfg.Server.Env))

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStartup()

	db, err := database.NewConnection(startupCtx, &cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(startupCtx); err != nil {
		logger.Error("failed to apply migrations", slog.Any("error", err))
		os.Exit(1)
	}

	// Repositories
	userRepo := repositories.NewUserRepository(db)
	pendingRepo := repositories.NewPendingAdminRepository(db)
	quizRepo := repositories.NewQuizRepository(db)

	// Security components
	auditLogger := pkglogger.NewAuditLogger(logger)
	tokenManager := auth.NewTokenManager(
		cfg.Auth.JWTSecret,
		cfg.Auth.SessionTokenExpiry,
		cfg.Auth.SuperadminTokenExpiry,
	)
	otpIssuer := auth.NewOTPIssuer(cfg.Auth.OTPExpiry)
	hasher := pkgauth.NewHasher(cfg.Auth.BcryptCost)
	timingDelay := auth.NewTimingDelay(auth.TimingConfig{
		BaseDelayMs:    cfg.Auth.TimingDelayBaseMs,
		RandomDelayMs:  cfg.Auth.TimingDelayRandomMs,
		DelayOnSuccess: cfg.Auth.TimingDelayOnSuccess,
	})

	emailService, err := services.NewAWSSESEmailService(startupCtx, cfg.Email.AWSRegion, cfg.Email.FromAddress, logger)
	if err != nil {
		logger.Error("failed to initialize email service", slog.Any("error", err))
		os.Exit(1)
	}

	// Services
	authService := services.NewAuthService(
		userRepo,
		pendingRepo,
		tokenManager,
		otpIssuer,
		hasher,
		emailService,
		timingDelay,
		services.SuperadminCredentials{
			Username: cfg.Auth.SuperadminUsername,
			Password: cfg.Auth.SuperadminPassword,
		},
		logger,
		auditLogger,
	)
	approvalService := services.NewApprovalService(userRepo, pendingRepo, logger, auditLogger)
	quizService := services.NewQuizService(quizRepo, userRepo, logger, auditLogger)

	otpSweeper := background.NewOTPSweeper(userRepo, logger, cfg.Auth.OTPSweepInterval)
	sweepCtx, sweepCancel := context.WithCancel(context.Background())
	defer sweepCancel()
	go otpSweeper.Start(sweepCtx)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middlewareCustom.SecurityHeaders(middlewareCustom.SecurityHeadersConfig{Env: cfg.Server.Env}))
	router.Use(middlewareCustom.CORS(cfg.Server.AllowedOrigins))
	router.Use(middlewareCustom.SecureLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	routes.RegisterRoutes(router, routes.Handlers{
		Auth:       handlers.NewAuthHandler(authService),
		Superadmin: handlers.NewSuperadminHandler(approvalService),
		Quiz:       handlers.NewQuizHandler(quizService),
	},
		tokenManager,
		middlewareCustom.RateLimitConfig{RequestsPerMinute: cfg.Auth.RateLimitPerMinute},
		middlewareCustom.RateLimitConfig{RequestsPerMinute: cfg.Auth.UserRateLimitPerMinute},
	)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.HealthCheck(ctx); err != nil {
			pkghttp.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy", "database": "down"})
			return
		}
		pkghttp.WriteJSON(w, http.StatusOK, map[string]string{"status": "healthy", "database": "up"})
	})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("starting server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received")
	sweepCancel()
	otpSweeper.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("server stopped gracefully")
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
