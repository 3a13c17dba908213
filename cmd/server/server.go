package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	gormlogger "gorm.io/gorm/logger"

	"wavesprint/intake-api/internal/config"
	"wavesprint/intake-api/internal/domain/intake"
	"wavesprint/intake-api/internal/domain/lead"
	"wavesprint/intake-api/internal/domain/requirements"
	"wavesprint/intake-api/internal/infrastructure/database"
	"wavesprint/intake-api/internal/infrastructure/inference"
	"wavesprint/intake-api/internal/infrastructure/logger"
	"wavesprint/intake-api/internal/infrastructure/observability"
	"wavesprint/intake-api/internal/infrastructure/repository/intakerepo"
	"wavesprint/intake-api/internal/infrastructure/repository/leadrepo"
	"wavesprint/intake-api/internal/interfaces/httpserver"
	"wavesprint/intake-api/internal/interfaces/httpserver/handlers"
)

// @title WaveSprint Intake API
// @version 1.0
// @description Conversational lead intake and MVP specification service
// @BasePath /
// @securityDefinitions.apikey AdminKeyAuth
// @in header
// @name X-Admin-Key
type Application struct {
	httpServer *httpserver.HttpServer
	cfg        *config.Config
	log        zerolog.Logger
}

func NewApplication(httpServer *httpserver.HttpServer, cfg *config.Config, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		cfg:        cfg,
		log:        log,
	}
}

func (a *Application) Start(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.httpServer.Run(ctx)
	})

	g.Go(func() error {
		return a.runMetricsServer(ctx)
	})

	return g.Wait()
}

func (a *Application) runMetricsServer(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              a.cfg.MetricsAddr(),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info().Str("addr", srv.Addr).Msg("metrics server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown telemetry")
		}
	}()

	db, err := database.Connect(database.Config{
		DatabaseURL: cfg.DatabaseURL,
		MaxIdle:     cfg.DBMaxIdleConns,
		MaxOpen:     cfg.DBMaxOpenConns,
		MaxLifetime: cfg.DBConnLifetime,
		LogLevel:    gormlogger.Warn,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}

	if cfg.AutoMigrate {
		if err := database.AutoMigrate(db); err != nil {
			log.Fatal().Err(err).Msg("migrate database")
		}
	}

	leadRepository := leadrepo.NewRepository(db)
	sessionRepository := intakerepo.NewSessionRepository(db)
	messageRepository := intakerepo.NewMessageRepository(db)
	promptRepository := intakerepo.NewPromptRepository(db)

	leadService := lead.NewService(leadRepository)

	var inferenceClient inference.Client
	var turnStrategy intake.TurnStrategy
	if cfg.LLMConfigured() {
		client := inference.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel, cfg.LLMTimeout)
		inferenceClient = client
		turnStrategy = intake.NewLLMStrategy(client, log)
		log.Info().Str("model", cfg.OpenAIModel).Msg("intake engine running with LLM turn strategy")
	} else {
		turnStrategy = intake.NewRuleStrategy()
		log.Info().Msg("no LLM credential configured, intake engine running with rule-based turn strategy")
	}

	requirementsService := requirements.NewService(inferenceClient, log)
	intakeService := intake.NewService(
		sessionRepository,
		messageRepository,
		promptRepository,
		leadService,
		leadRepository,
		turnStrategy,
		log,
	)

	handlerProvider := handlers.NewProvider(intakeService, requirementsService, leadService, log)
	httpServer := httpserver.New(cfg, log, handlerProvider)

	app := NewApplication(httpServer, cfg, log)
	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
