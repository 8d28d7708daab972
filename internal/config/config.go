// Package config loads runtime settings from the environment, with an
// optional .env file for local development.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/matheusfarocha/NeuralFeedback/internal/tts"
)

// Config holds every runtime setting the service reads.
type Config struct {
	// HTTP
	Addr string

	// Review generation
	ReviewProvider string // gemini, openai, anthropic
	ReviewModel    string // provider-specific model id; empty uses the default
	StrictParsing  bool   // surface non-JSON provider output as warnings

	// Persona calls: a primary model handles replies, a secondary takes over
	// when the primary returns nothing usable.
	CallProvider         string
	CallFallbackProvider string

	// API keys
	GeminiAPIKey     string
	OpenAIAPIKey     string
	AnthropicAPIKey  string
	ElevenLabsAPIKey string

	// Voice
	TTSProvider string // elevenlabs or google
	Voices      tts.VoiceSet

	// Session storage
	SessionBackend string // memory, redis, dynamodb
	RedisURL       string
	DynamoTable    string
}

// Load reads a .env file if present, then the process environment.
func Load() (*Config, error) {
	// Missing .env is the normal case in deployed environments.
	_ = godotenv.Load()

	cfg := &Config{
		Addr:                 getenv("ADDR", ":8080"),
		ReviewProvider:       getenv("REVIEW_PROVIDER", "gemini"),
		ReviewModel:          os.Getenv("REVIEW_MODEL"),
		StrictParsing:        getbool("STRICT_PARSING", false),
		CallProvider:         getenv("CALL_PROVIDER", "gemini"),
		CallFallbackProvider: getenv("CALL_FALLBACK_PROVIDER", "openai"),
		GeminiAPIKey:         firstEnv("GEMINI_API_KEY", "GOOGLE_API_KEY"),
		OpenAIAPIKey:         os.Getenv("OPENAI_API_KEY"),
		AnthropicAPIKey:      os.Getenv("ANTHROPIC_API_KEY"),
		ElevenLabsAPIKey:     os.Getenv("ELEVENLABS_API_KEY"),
		TTSProvider:          getenv("TTS_PROVIDER", "elevenlabs"),
		Voices: tts.VoiceSet{
			Default:   os.Getenv("ELEVENLABS_VOICE_ID_DEFAULT"),
			Male:      os.Getenv("ELEVENLABS_VOICE_ID_MALE"),
			Female:    os.Getenv("ELEVENLABS_VOICE_ID_FEMALE"),
			NonBinary: os.Getenv("ELEVENLABS_VOICE_ID_NONBINARY"),
		},
		SessionBackend: getenv("SESSION_BACKEND", "memory"),
		RedisURL:       getenv("REDIS_URL", "redis://localhost:6379/0"),
		DynamoTable:    getenv("DYNAMODB_TABLE", "neuralfeedback-sessions"),
	}
	return cfg, nil
}

// ReviewAPIKey returns the key matching the configured review provider.
func (c *Config) ReviewAPIKey() string {
	return c.keyFor(c.ReviewProvider)
}

// CallAPIKey returns the key for the given call provider name.
func (c *Config) CallAPIKey(provider string) string {
	return c.keyFor(provider)
}

func (c *Config) keyFor(provider string) string {
	switch provider {
	case "openai":
		return c.OpenAIAPIKey
	case "anthropic":
		return c.AnthropicAPIKey
	default:
		return c.GeminiAPIKey
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func getbool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
