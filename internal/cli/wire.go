package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/matheusfarocha/NeuralFeedback/internal/config"
	"github.com/matheusfarocha/NeuralFeedback/internal/llm"
	"github.com/matheusfarocha/NeuralFeedback/internal/review"
	"github.com/matheusfarocha/NeuralFeedback/internal/session"
	"github.com/matheusfarocha/NeuralFeedback/internal/tts"
)

// services holds the wired application graph shared by serve and review.
type services struct {
	cfg        *config.Config
	logger     *slog.Logger
	dispatcher *review.Dispatcher
	summarizer *review.Aggregator
	responder  *review.Responder
	speech     tts.Provider
	store      session.Store
	offline    bool
}

func buildServices(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*services, error) {
	s := &services{cfg: cfg, logger: logger}

	// Review provider. A missing key is not fatal: the system degrades to
	// simulated fallback personas.
	reviewProvider, err := llm.New(ctx, cfg.ReviewProvider, cfg.ReviewAPIKey(), cfg.ReviewModel)
	if err != nil {
		logger.Warn("review provider unavailable, running in offline mode",
			"provider", cfg.ReviewProvider, "error", err)
		s.offline = true
	}

	gen := review.NewGenerator(reviewProvider, logger)
	gen.StrictParsing = cfg.StrictParsing
	s.dispatcher = review.NewDispatcher(gen, logger)
	s.summarizer = review.NewAggregator(reviewProvider, logger)

	// Call providers: a primary model with a fallback when it returns
	// nothing usable. Either may be nil.
	primary, err := llm.New(ctx, cfg.CallProvider, cfg.CallAPIKey(cfg.CallProvider), "")
	if err != nil {
		logger.Warn("call provider unavailable", "provider", cfg.CallProvider, "error", err)
	}
	secondary, err := llm.New(ctx, cfg.CallFallbackProvider, cfg.CallAPIKey(cfg.CallFallbackProvider), "")
	if err != nil {
		logger.Warn("call fallback provider unavailable", "provider", cfg.CallFallbackProvider, "error", err)
	}
	s.responder = review.NewResponder(primary, secondary, logger)

	speech, err := tts.New(cfg.TTSProvider, cfg.ElevenLabsAPIKey)
	if err != nil {
		logger.Warn("speech synthesis unavailable", "provider", cfg.TTSProvider, "error", err)
	} else {
		s.speech = speech
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	s.store = store
	return s, nil
}

func buildStore(ctx context.Context, cfg *config.Config) (session.Store, error) {
	switch cfg.SessionBackend {
	case "", "memory":
		return session.NewMemoryStore(), nil
	case "redis":
		store, err := session.NewRedisStore(ctx, cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("connect session store: %w", err)
		}
		return store, nil
	case "dynamodb":
		store, err := session.NewDynamoStore(ctx, cfg.DynamoTable)
		if err != nil {
			return nil, fmt.Errorf("connect session store: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown session backend %q: must be memory, redis, or dynamodb", cfg.SessionBackend)
	}
}

func (s *services) Close() {
	if s.speech != nil {
		if err := s.speech.Close(); err != nil {
			s.logger.Warn("close speech provider", "error", err)
		}
	}
	if err := s.store.Close(); err != nil {
		s.logger.Warn("close session store", "error", err)
	}
}
