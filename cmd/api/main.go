package main

import (
	"context"
	"database/sql"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/netutil"

	"finadvise-backend/internal/ai"
	"finadvise-backend/internal/analytics"
	"finadvise-backend/internal/auth"
	"finadvise-backend/internal/config"
	"finadvise-backend/internal/db"
	"finadvise-backend/internal/metrics"
	"finadvise-backend/internal/server"
	"finadvise-backend/internal/tasks"
	"finadvise-backend/pkg/logging"
)

func main() {
	cfg := config.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Str("model", cfg.OpenAIModel).
		Bool("auth_required", cfg.AuthRequired).
		Msg("starting finadvise API server")

	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database := connectAnalytics(ctx, cfg, logger)
	if database != nil {
		defer database.Close()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	aiMetrics := metrics.NewAIMetrics(reg)

	completer := ai.NewOpenAIClient(ai.OpenAIOptions{
		APIKey:  cfg.OpenAIKey,
		Model:   cfg.OpenAIModel,
		BaseURL: cfg.OpenAIBaseURL,
		Timeout: cfg.OpenAITimeout,
	})
	aiService := ai.NewService(completer, ai.ServiceConfig{
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
	}, aiMetrics, logger)

	recorder := analytics.NewRecorder(database, logger)

	users := auth.NewDirectory(auth.User{
		Username:       cfg.AuthUsername,
		Email:          cfg.AuthEmail,
		FullName:       cfg.AuthFullName,
		Disabled:       cfg.AuthDisabled,
		HashedPassword: cfg.AuthPasswordHash,
	})
	secret := []byte(cfg.JWTSecret)

	handler := server.New(&server.Config{
		Logger:         logger,
		AIHandler:      ai.NewHandler(aiService, recorder, logger),
		TaskHandler:    tasks.NewHandler(tasks.NewGenerator(aiService, cfg.Temperature, logger), recorder, logger),
		AuthHandler:    auth.NewHandler(users, secret, cfg.AccessTokenTTL, logger),
		AuthMiddleware: auth.New(secret),
		AuthRequired:   cfg.AuthRequired,
		AllowedOrigins: cfg.AllowedOrigins,
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		logger.Fatal().Err(err).Str("addr", srv.Addr).Msg("failed to listen")
	}
	if cfg.MaxConnections > 0 {
		ln = netutil.LimitListener(ln, cfg.MaxConnections)
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("API server is running")
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// connectAnalytics returns nil when analytics is disabled or unreachable.
func connectAnalytics(ctx context.Context, cfg *config.Config, logger *logging.Logger) *sql.DB {
	if cfg.DatabaseURL == "" {
		logger.Info().Msg("DATABASE_URL not set, analytics disabled")
		return nil
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Warn().Err(err).Msg("analytics database unavailable, continuing without it")
		return nil
	}
	if err := db.EnsureSchema(ctx, database); err != nil {
		logger.Warn().Err(err).Msg("analytics schema setup failed, continuing without it")
		database.Close()
		return nil
	}

	logger.Info().Msg("connected to analytics database")
	return database
}
