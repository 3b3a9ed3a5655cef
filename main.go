package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	apihttp "github.com/expert-qa/server/internal/api/http"
	"github.com/expert-qa/server/internal/api/http/handlers"
	"github.com/expert-qa/server/internal/core"
	"github.com/expert-qa/server/internal/health"
	"github.com/expert-qa/server/internal/qa"
	"github.com/expert-qa/server/internal/qa/llm"
	"github.com/expert-qa/server/internal/qa/model"
	"github.com/expert-qa/server/internal/qa/observers"
	"github.com/expert-qa/server/internal/qa/repo"
	logx "github.com/expert-qa/server/pkg/logger"
	pkgredis "github.com/expert-qa/server/pkg/redis"
)

// AppConfig defines all configurable parameters of the form server,
// sourced from environment variables (loaded from .env for local runs).
type AppConfig struct {
	Environment core.Environment `envconfig:"ENVIRONMENT" default:"development"`
	Port        string           `envconfig:"PORT" default:"8080"`

	// LLM provider
	Model  model.ChatModelConfig
	OpenAI model.OpenAIConfig
	Gemini model.GeminiConfig

	// Optional usage ledger
	Redis  pkgredis.Config
	Ledger model.LedgerConfig
}

func main() {
	ctx := context.Background()

	if err := godotenv.Load(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not load .env file: %v\n", err)
	}

	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to process environment config: %v\n", err)
		os.Exit(1)
	}

	logx.Init(logx.LoggerOpts{Environment: cfg.Environment})

	pre := core.CheckCredential(cfg.Model.Provider, os.LookupEnv)
	if !pre.OK {
		logx.Error().Str("variable", pre.Variable).Msg(pre.Message)
		fmt.Fprintln(os.Stderr, pre.ConsoleMessage)
		os.Exit(1)
	}

	cm, err := llm.NewChatModel(ctx, llm.ChatModelConfig{
		Model:  cfg.Model,
		OpenAI: cfg.OpenAI,
		Gemini: cfg.Gemini,
	})
	if err != nil {
		logx.Fatal().Err(err).Msg("Failed to create chat model")
	}

	svc, err := llm.NewService(ctx, cm, cfg.Model.ResolvedModel(), observers.NewLoggingCallbacks())
	if err != nil {
		logx.Fatal().Err(err).Msg("Failed to build chat chain")
	}

	var (
		recorder model.UsageRecorder
		checkers []health.Checker
		usage    *handlers.UsageHandler
	)
	if cfg.Redis.Enabled() {
		ttl, err := time.ParseDuration(cfg.Ledger.TTL)
		if err != nil {
			logx.Fatal().Err(err).Str("value", cfg.Ledger.TTL).Msg("Invalid LEDGER_TTL")
		}
		rdb, err := cfg.Redis.New(ctx)
		if err != nil {
			logx.Fatal().Err(err).Msg("Failed to initialise Redis client")
		}
		defer rdb.Close()

		ledger := repo.NewRedisUsageLedger(rdb, ttl, cfg.Ledger.MaxEntries)
		recorder = ledger
		usage = handlers.NewUsageHandler(ledger)
		checkers = append(checkers, health.NewRedisChecker(rdb))
		logx.Info().Msg("Usage ledger enabled")
	}

	ctrl := qa.NewController(svc, recorder)

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	apihttp.Register(app, apihttp.Routes{
		Form:   handlers.NewFormHandler(ctrl, cfg.Model.ProviderLabel()),
		Ask:    handlers.NewAskHandler(ctrl),
		Health: handlers.NewHealthHandler(health.NewService(checkers...)),
		Usage:  usage,
	})

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		logx.Info().Msg("Shutting down")
		_ = app.Shutdown()
	}()

	logx.Info().
		Str("port", cfg.Port).
		Str("provider", core.NormalizeProvider(cfg.Model.Provider)).
		Str("model", cfg.Model.ResolvedModel()).
		Float32("temperature", cfg.Model.Temperature).
		Msg("HTTP server listening")
	if err := app.Listen(":" + cfg.Port); err != nil {
		logx.Error().Err(err).Msg("server stopped")
	}
}
