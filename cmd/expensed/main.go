package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	openai "github.com/sashabaranov/go-openai"

	"github.com/adpablos/expense-tracker-backend/internal/ai"
	"github.com/adpablos/expense-tracker-backend/internal/audio"
	"github.com/adpablos/expense-tracker-backend/internal/common"
	"github.com/adpablos/expense-tracker-backend/internal/export"
	"github.com/adpablos/expense-tracker-backend/internal/notify"
	"github.com/adpablos/expense-tracker-backend/internal/processor"
	"github.com/adpablos/expense-tracker-backend/internal/repository"
	"github.com/adpablos/expense-tracker-backend/internal/server"
	"github.com/adpablos/expense-tracker-backend/internal/services"
	"github.com/adpablos/expense-tracker-backend/internal/tempfile"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := repository.Open(ctx, cfg.Database, logger)
	if err != nil {
		logger.Error("database unavailable", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := repository.RunMigrations(pool, logger); err != nil {
		logger.Error("migrations failed", "error", err)
		os.Exit(1)
	}

	var publisher services.EventPublisher = notify.NopPublisher{}
	if cfg.AMQP.URL != "" {
		amqpPub, err := notify.NewPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange, cfg.AMQP.Queue, logger)
		if err != nil {
			logger.Error("amqp unavailable", "error", err)
			os.Exit(1)
		}
		defer amqpPub.Close()
		publisher = amqpPub
	} else {
		logger.Warn("AMQP_URL not set, expense notifications disabled")
	}

	expenseRepo := repository.NewExpenseRepository(pool, logger)
	categoryRepo := repository.NewCategoryRepository(pool, logger)
	householdRepo := repository.NewHouseholdRepository(pool, logger)

	providerCfg := openai.DefaultConfig(cfg.OpenAI.APIKey)
	providerCfg.HTTPClient = &http.Client{Timeout: cfg.OpenAI.Timeout}
	aiClient := ai.NewClient(openai.NewClientWithConfig(providerCfg), ai.Config{
		Model:              cfg.OpenAI.Model,
		TranscriptionModel: cfg.OpenAI.TranscriptionModel,
		Temperature:        cfg.OpenAI.Temperature,
		MaxAttempts:        cfg.OpenAI.MaxAttempts,
		RetryBaseDelay:     cfg.OpenAI.RetryBaseDelay,
	}, logger)

	taxonomySvc := services.NewTaxonomyService(categoryRepo)
	expenseSvc := services.NewExpenseService(expenseRepo, categoryRepo, publisher, logger)
	exportSvc := export.NewService(expenseRepo, logger)

	tempHandler := tempfile.NewHandler(cfg.Audio.TempDir, logger)
	converter := audio.NewConverter(cfg.Audio.FFmpegPath, cfg.Audio.FFprobePath, logger)

	factory := processor.NewFactory(
		processor.NewImageProcessor(aiClient, taxonomySvc, expenseSvc, logger),
		processor.NewAudioProcessor(tempHandler, converter, aiClient, taxonomySvc, expenseSvc, logger),
	)

	srv := server.New(cfg.Server, factory, expenseSvc, expenseRepo, categoryRepo, householdRepo, exportSvc, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", "error", err)
		}
	}
}
