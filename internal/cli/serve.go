package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matheusfarocha/NeuralFeedback/internal/config"
	"github.com/matheusfarocha/NeuralFeedback/internal/observability"
	"github.com/matheusfarocha/NeuralFeedback/internal/server"
)

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if flagAddr != "" {
		cfg.Addr = flagAddr
	}

	logger := observability.InitLogger()

	tp, err := observability.InitTracer(ctx, "neuralfeedback", Version)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	if tp != nil {
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				logger.Warn("tracer shutdown", "error", err)
			}
		}()
	}

	svcs, err := buildServices(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer svcs.Close()

	srv := server.New(server.Options{
		Logger:         logger,
		Dispatcher:     svcs.dispatcher,
		Summarizer:     svcs.summarizer,
		Responder:      svcs.responder,
		Speech:         svcs.speech,
		Voices:         cfg.Voices,
		Store:          svcs.store,
		ReviewsOffline: svcs.offline,
		Version:        Version,
	})

	logger.Info("starting API",
		"addr", cfg.Addr,
		"review_provider", cfg.ReviewProvider,
		"session_backend", cfg.SessionBackend,
		"offline", svcs.offline)
	return srv.Run(cfg.Addr)
}
