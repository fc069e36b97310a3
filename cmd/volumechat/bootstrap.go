package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"volume-chat/internal/chat"
	"volume-chat/internal/exchange/binance"
	"volume-chat/internal/exchange/exchangeobs"
	"volume-chat/internal/interfaces"
	"volume-chat/internal/llm"
	"volume-chat/internal/llm/llmobs"
	"volume-chat/internal/llm/noop"
	"volume-chat/internal/logger"
	"volume-chat/internal/store"
)

// initializeSystem loads .env and sets up the logger and tracer.
func initializeSystem() error {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := logger.InitTracing(Version); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}
	return nil
}

func loadConfig(ctx context.Context) (*store.Config, error) {
	cfg, err := store.LoadConfig(configPath)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err, "path", configPath)
		return nil, err
	}
	return cfg, nil
}

// initializeStreamer builds the configured model streamer. A provider that
// cannot be set up falls back to the offline echo streamer.
func initializeStreamer(ctx context.Context, cfg *store.Config) interfaces.ChatStreamer {
	streamer, err := llm.NewStreamer(ctx, cfg)
	if err != nil {
		logger.Warn(ctx, "LLM provider unavailable - using Noop streamer", "provider", cfg.LLM.Provider, "error", err)
		streamer = noop.NewEchoStreamer()
	} else {
		logger.Info(ctx, "LLM provider ready", "provider", cfg.LLM.Provider, "model", cfg.LLM.Model)
	}

	return llmobs.Wrap(streamer)
}

func initializeFetcher(cfg *store.Config) interfaces.TickerFetcher {
	return exchangeobs.Wrap(binance.NewClient(cfg))
}

// bootstrap runs every initialization step and returns the session registry.
func bootstrap(ctx context.Context) (*store.Config, *chat.Sessions, error) {
	if err := initializeSystem(); err != nil {
		return nil, nil, err
	}

	cfg, err := loadConfig(ctx)
	if err != nil {
		return nil, nil, err
	}

	sessions := chat.NewSessions(initializeStreamer(ctx, cfg), initializeFetcher(cfg))
	return cfg, sessions, nil
}
