// Package session keeps per-visitor state: the persona batch from the most
// recent generation and the running conversation history for each persona.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/matheusfarocha/NeuralFeedback/internal/persona"
)

var (
	// ErrNoPersonas is returned when a session has no generated batch yet.
	ErrNoPersonas = errors.New("session: no personas generated yet")
)

const (
	// HistoryEntryLimit caps stored call history at the six most recent
	// exchanges (user plus assistant entries).
	HistoryEntryLimit = 12

	// DefaultTTL is how long session state survives without activity.
	DefaultTTL = 24 * time.Hour
)

// Store persists session state. SetPersonas replaces the whole batch; a new
// generation invalidates prior personas and their histories.
type Store interface {
	Personas(ctx context.Context, sid string) ([]persona.Review, error)
	SetPersonas(ctx context.Context, sid string, reviews []persona.Review) error
	History(ctx context.Context, sid string, personaID int) ([]persona.Turn, error)
	AppendHistory(ctx context.Context, sid string, personaID int, turns ...persona.Turn) error
	Close() error
}

// trimHistory drops the oldest entries once the cap is exceeded.
func trimHistory(turns []persona.Turn) []persona.Turn {
	if len(turns) > HistoryEntryLimit {
		return turns[len(turns)-HistoryEntryLimit:]
	}
	return turns
}
