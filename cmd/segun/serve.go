package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/AbokiLearn/segun/infrastructure/api"
	"github.com/AbokiLearn/segun/infrastructure/bot"
	"github.com/AbokiLearn/segun/infrastructure/persistence"
	"github.com/AbokiLearn/segun/internal/log"
)

func serveCmd() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server and Telegram bot",
		Long: `Start the question-answering service.

Configuration is loaded from the environment (and an optional .env file),
prefixed with SEGUN_:

  SEGUN_HOST / SEGUN_PORT        Listen address (default 0.0.0.0:8080)
  SEGUN_LOG_LEVEL                DEBUG, INFO, WARN, ERROR (default: INFO)
  SEGUN_LOG_FORMAT               pretty, json (default: pretty)
  SEGUN_API_KEYS                 Comma-separated API keys for POST endpoints
  SEGUN_WEB_ORIGIN               Allowed CORS origin
  SEGUN_TELEGRAM_TOKEN           Bot token; bot is disabled when empty

  SEGUN_MONGO_URI                MongoDB Atlas connection string (required)
  SEGUN_MONGO_DATABASE           Database name (default: abokicode_db)

  SEGUN_LLM_BASE_URL             Chat endpoint (OpenAI-compatible)
  SEGUN_LLM_MODEL                Chat model (default: gpt-4o-mini)
  SEGUN_LLM_API_KEY              Chat API key
  SEGUN_LLM_MAX_RETRIES          Per-stage retry bound (default: 2)
  SEGUN_LLM_MAX_CONCURRENT       In-flight model call cap (default: 5)

  SEGUN_EMBEDDING_BASE_URL       Remote embedding endpoint; local when empty
  SEGUN_EMBEDDING_MODEL          Embedding model (default: all-MiniLM-L6-v2)
  SEGUN_EMBEDDING_DIMENSION      Vector size (default: 384)

  SEGUN_SEARCH_INDEX_NAME        Atlas vector index (default: lecture-index)
  SEGUN_SEARCH_TOP_K             Results per query (default: 5)
  SEGUN_SEARCH_CANDIDATES        ANN candidates (default: 200)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(envFile)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")

	return cmd
}

func runServe(envFile string) error {
	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}

	logger := log.Configure(cfg)
	logger.Info("starting segun", "version", version, "addr", cfg.Addr())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := persistence.Connect(ctx, cfg.MongoURI(), cfg.MongoDatabase(), cfg.MongoTimeout())
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() {
		if err := db.Close(context.Background()); err != nil {
			logger.Error("close database", "error", err)
		}
	}()

	answerer, err := buildAnswerer(ctx, cfg, db, logger)
	if err != nil {
		return fmt.Errorf("build pipeline: %w", err)
	}

	server := api.NewServer(api.Config{
		Addr:      cfg.Addr(),
		APIKeys:   cfg.APIKeys(),
		WebOrigin: cfg.WebOrigin(),
	}, logger)
	server.MountV1(answerer, logger)

	if token := cfg.TelegramToken(); token != "" {
		tgBot, err := bot.NewBot(token, answerer, logger)
		if err != nil {
			return fmt.Errorf("start telegram bot: %w", err)
		}
		go func() {
			if err := tgBot.Run(ctx); err != nil && ctx.Err() == nil {
				logger.Error("telegram bot stopped", "error", err)
			}
		}()
	} else {
		logger.Info("telegram bot disabled: no token configured")
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		cancel()
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", "error", err)
		}
	}()

	if err := server.Start(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
