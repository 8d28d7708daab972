package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/matheusfarocha/NeuralFeedback/internal/persona"
)

// RedisStore keeps session state in Redis so that multiple instances can
// serve the same visitor. Values are JSON blobs under per-session keys.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(ctx context.Context, url string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisStore{client: client}, nil
}

func personasKey(sid string) string { return "nf:sess:" + sid + ":personas" }

func historyKey(sid string, personaID int) string {
	return fmt.Sprintf("nf:sess:%s:history:%d", sid, personaID)
}

func (r *RedisStore) Personas(ctx context.Context, sid string) ([]persona.Review, error) {
	raw, err := r.client.Get(ctx, personasKey(sid)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoPersonas
	}
	if err != nil {
		return nil, fmt.Errorf("get personas: %w", err)
	}
	var reviews []persona.Review
	if err := json.Unmarshal(raw, &reviews); err != nil {
		return nil, fmt.Errorf("decode personas: %w", err)
	}
	if len(reviews) == 0 {
		return nil, ErrNoPersonas
	}
	return reviews, nil
}

func (r *RedisStore) SetPersonas(ctx context.Context, sid string, reviews []persona.Review) error {
	raw, err := json.Marshal(reviews)
	if err != nil {
		return fmt.Errorf("encode personas: %w", err)
	}

	// A fresh batch invalidates every prior conversation in this session.
	pattern := "nf:sess:" + sid + ":history:*"
	iter := r.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		r.client.Del(ctx, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("clear histories: %w", err)
	}

	if err := r.client.Set(ctx, personasKey(sid), raw, DefaultTTL).Err(); err != nil {
		return fmt.Errorf("set personas: %w", err)
	}
	return nil
}

func (r *RedisStore) History(ctx context.Context, sid string, personaID int) ([]persona.Turn, error) {
	raw, err := r.client.Get(ctx, historyKey(sid, personaID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get history: %w", err)
	}
	var turns []persona.Turn
	if err := json.Unmarshal(raw, &turns); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	return turns, nil
}

func (r *RedisStore) AppendHistory(ctx context.Context, sid string, personaID int, turns ...persona.Turn) error {
	existing, err := r.History(ctx, sid, personaID)
	if err != nil {
		return err
	}
	merged := trimHistory(append(existing, turns...))
	raw, err := json.Marshal(merged)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if err := r.client.Set(ctx, historyKey(sid, personaID), raw, DefaultTTL).Err(); err != nil {
		return fmt.Errorf("set history: %w", err)
	}
	return nil
}

func (r *RedisStore) Close() error { return r.client.Close() }
