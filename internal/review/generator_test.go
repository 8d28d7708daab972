package review

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matheusfarocha/NeuralFeedback/internal/llm"
	"github.com/matheusfarocha/NeuralFeedback/internal/persona"
)

// stubProvider scripts provider behavior for tests.
type stubProvider struct {
	fn    func(ctx context.Context, prompt string) (string, error)
	calls atomic.Int64
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Generate(ctx context.Context, prompt string) (string, error) {
	s.calls.Add(1)
	return s.fn(ctx, prompt)
}

func (s *stubProvider) Close() error { return nil }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func intPtr(n int) *int { return &n }

const structuredReply = `{
	"persona": {"name": "Sam Ortiz", "gender": "male", "profession": "teacher", "tone": "warm"},
	"review": {"text": "My students would love this.", "rating": 9, "summary": "Very positive"}
}`

func TestGenerator_Generate_Structured(t *testing.T) {
	provider := &stubProvider{fn: func(ctx context.Context, prompt string) (string, error) {
		return structuredReply, nil
	}}
	gen := NewGenerator(provider, testLogger())

	task := persona.Task{
		ID:          2,
		Idea:        "an app that grades homework",
		Traits:      []string{"practical"},
		Intensities: map[string]float64{"practical": 1.0},
		Location:    "Madrid",
	}

	rev, warning, err := gen.Generate(context.Background(), task)
	require.NoError(t, err)
	assert.Empty(t, warning)

	assert.Equal(t, 2, rev.ID)
	assert.Equal(t, "My students would love this.", rev.Text)
	assert.Equal(t, 9, rev.Metadata.SentimentRating)
	assert.True(t, strings.HasPrefix(rev.Metadata.PersonaName, "Sam Ortiz, "))
	assert.Equal(t, "teacher", rev.Metadata.Profession)
	assert.Equal(t, "warm", rev.Metadata.Tone)
	// The model gave no location; the task hint fills it.
	assert.Equal(t, "Madrid", rev.Metadata.Location)
	assert.Equal(t, map[string]float64{"practical": 1.0}, rev.Metadata.CharacteristicIntensities)
	assert.False(t, rev.Metadata.SourceDocumentsUsed)
}

func TestGenerator_Generate_AgeBounds(t *testing.T) {
	provider := &stubProvider{fn: func(ctx context.Context, prompt string) (string, error) {
		return structuredReply, nil
	}}
	gen := NewGenerator(provider, testLogger())

	t.Run("inverted bounds are swapped", func(t *testing.T) {
		task := persona.Task{
			ID: 1, Idea: "idea", Traits: []string{"practical"},
			AgeMin: intPtr(50), AgeMax: intPtr(20),
		}
		for i := 0; i < 20; i++ {
			rev, _, err := gen.Generate(context.Background(), task)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, rev.Metadata.Age, 20)
			assert.LessOrEqual(t, rev.Metadata.Age, 50)
			assert.Equal(t, "20-50", rev.Metadata.AgeRange)
		}
	})

	t.Run("only min bound", func(t *testing.T) {
		task := persona.Task{
			ID: 1, Idea: "idea", Traits: []string{"practical"}, AgeMin: intPtr(60),
		}
		rev, _, err := gen.Generate(context.Background(), task)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, rev.Metadata.Age, 60)
		assert.LessOrEqual(t, rev.Metadata.Age, 100)
		assert.Empty(t, rev.Metadata.AgeRange)
	})

	t.Run("only max bound", func(t *testing.T) {
		task := persona.Task{
			ID: 1, Idea: "idea", Traits: []string{"practical"}, AgeMax: intPtr(25),
		}
		rev, _, err := gen.Generate(context.Background(), task)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, rev.Metadata.Age, 18)
		assert.LessOrEqual(t, rev.Metadata.Age, 25)
	})
}

func TestGenerator_Generate_DegradedOutput(t *testing.T) {
	provider := &stubProvider{fn: func(ctx context.Context, prompt string) (string, error) {
		return "sorry, no can do", nil
	}}

	task := persona.Task{ID: 1, Idea: "idea", Traits: []string{"skeptical"}}

	t.Run("default: degraded content, no warning", func(t *testing.T) {
		gen := NewGenerator(provider, testLogger())
		rev, warning, err := gen.Generate(context.Background(), task)
		require.NoError(t, err)
		assert.Empty(t, warning)
		assert.Equal(t, "No feedback received.", rev.Text)
		assert.Equal(t, 5, rev.Metadata.SentimentRating)
		// A name is synthesized even without model output.
		assert.NotEmpty(t, rev.Metadata.PersonaName)
	})

	t.Run("strict parsing surfaces a warning", func(t *testing.T) {
		gen := NewGenerator(provider, testLogger())
		gen.StrictParsing = true
		rev, warning, err := gen.Generate(context.Background(), task)
		require.NoError(t, err)
		require.NotNil(t, rev)
		assert.Contains(t, warning, "degraded")
	})
}

func TestGenerator_Generate_NilProvider(t *testing.T) {
	gen := NewGenerator(nil, testLogger())
	_, _, err := gen.Generate(context.Background(), persona.Task{ID: 1, Idea: "idea"})
	assert.ErrorIs(t, err, llm.ErrNotConfigured)
}

func TestGenerator_Generate_ProviderError(t *testing.T) {
	provider := &stubProvider{fn: func(ctx context.Context, prompt string) (string, error) {
		return "", context.DeadlineExceeded
	}}
	gen := NewGenerator(provider, testLogger())
	_, _, err := gen.Generate(context.Background(), persona.Task{ID: 1, Idea: "idea", Traits: []string{"creative"}})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
