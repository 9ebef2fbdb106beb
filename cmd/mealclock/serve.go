package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/korjavin/mealclock/pkg/api"
	"github.com/korjavin/mealclock/pkg/config"
	"github.com/korjavin/mealclock/pkg/logger"
	"github.com/korjavin/mealclock/pkg/openai"
	"github.com/korjavin/mealclock/pkg/registry"
	"github.com/korjavin/mealclock/pkg/state"
	"github.com/korjavin/mealclock/pkg/storage"
	"github.com/korjavin/mealclock/pkg/telegram"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, and the Telegram bot when BOT_TOKEN is set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, stop)
		},
	}
}

func serve(ctx context.Context, stop context.CancelFunc) error {
	log := logger.Global
	log.Info("Starting mealclock...")

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.SetLevel(logger.ParseLevel(cfg.LogLevel))

	store, err := storage.New(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()
	store.StartGCRoutine(ctx, 10*time.Minute)

	reg, err := registry.Open(store, registry.Options{SeedFromName: cfg.SeedFromName})
	if err != nil {
		return fmt.Errorf("failed to open course registry: %w", err)
	}

	errCh := make(chan error, 2)
	running := 0

	if cfg.BotToken != "" {
		var suggester telegram.StepSuggester
		if cfg.OpenAIAPIKey != "" {
			suggester = openai.New(cfg.OpenAIAPIKey, cfg.OpenAIAPIBase, cfg.OpenAIModel)
		}

		bot, err := telegram.New(cfg.BotToken, telegram.NewPlanner(reg, state.New(0), suggester))
		if err != nil {
			return err
		}
		running++
		go func() { errCh <- bot.Start(ctx) }()
	} else {
		log.Info("BOT_TOKEN not set, Telegram bot disabled")
	}

	server := api.NewServer(api.ServerConfig{
		Addr:      cfg.HTTPAddr,
		JSONLimit: cfg.JSONLimit,
		TLSCert:   cfg.TLSCert,
		TLSKey:    cfg.TLSKey,
	}, reg)
	running++
	go func() { errCh <- server.Start(ctx) }()

	var firstErr error
	for ; running > 0; running-- {
		if err := <-errCh; err != nil && firstErr == nil {
			firstErr = err
			stop()
		}
	}
	log.Info("Shutting down...")
	return firstErr
}
