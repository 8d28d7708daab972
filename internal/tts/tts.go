package tts

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Provider synthesizes speech for one persona reply.
type Provider interface {
	Name() string
	Synthesize(ctx context.Context, text, voiceID string) ([]byte, error)
	Close() error
}

// ErrNotConfigured signals that the provider's credential is absent; the
// voice-call endpoint surfaces this as a service-unavailable response.
var ErrNotConfigured = errors.New("tts: provider not configured")

// VoiceSet holds the configured voice ids, one per gender presentation.
// Any entry may be empty; Resolve falls through to whatever is set.
type VoiceSet struct {
	Default   string
	Male      string
	Female    string
	NonBinary string
}

// Resolve picks a voice id for a gender hint. Unknown or empty hints get the
// default voice; a missing default falls back through male, female, and
// non-binary in that order.
func (v VoiceSet) Resolve(genderHint string) string {
	switch normalizeGender(genderHint) {
	case "male":
		if v.Male != "" {
			return v.Male
		}
	case "female":
		if v.Female != "" {
			return v.Female
		}
	case "nonbinary":
		if v.NonBinary != "" {
			return v.NonBinary
		}
	}
	return firstOf(v.Default, v.Male, v.Female, v.NonBinary)
}

func normalizeGender(hint string) string {
	switch strings.ToLower(strings.TrimSpace(hint)) {
	case "male", "man":
		return "male"
	case "female", "woman":
		return "female"
	case "non-binary", "nonbinary", "non binary", "nb":
		return "nonbinary"
	default:
		return ""
	}
}

func firstOf(ids ...string) string {
	for _, id := range ids {
		if id != "" {
			return id
		}
	}
	return ""
}

// New creates a speech-synthesis provider by name. On error the returned
// Provider is a nil interface, never a typed-nil pointer.
func New(name, apiKey string) (Provider, error) {
	switch name {
	case "elevenlabs":
		p, err := NewElevenLabsProvider(apiKey)
		if err != nil {
			return nil, err
		}
		return p, nil
	case "google":
		p, err := NewGoogleProvider()
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown TTS provider %q: choose elevenlabs or google", name)
	}
}
