package review

import (
	"context"
	"errors"
	"sort"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matheusfarocha/NeuralFeedback/internal/persona"
)

func buildTestTasks(t *testing.T, count int) []persona.Task {
	t.Helper()
	tasks, err := persona.BuildTasks(persona.BatchRequest{
		IdeaText:    "a foldable bike helmet",
		ReviewCount: count,
		Traits:      []string{"practical", "cautious"},
	})
	require.NoError(t, err)
	return tasks
}

func TestDispatch_AllSucceed(t *testing.T) {
	provider := &stubProvider{fn: func(ctx context.Context, prompt string) (string, error) {
		return structuredReply, nil
	}}
	d := NewDispatcher(NewGenerator(provider, testLogger()), testLogger())

	result := d.Dispatch(context.Background(), buildTestTasks(t, 5))

	require.Len(t, result.Reviews, 5)
	assert.Empty(t, result.Errors)
	assert.False(t, result.Exhausted())
	assert.Equal(t, int64(5), provider.calls.Load())

	// Reviews come back in ascending task-id order regardless of
	// completion order.
	for i, rev := range result.Reviews {
		assert.Equal(t, i+1, rev.ID)
	}
}

func TestDispatch_PartialFailure(t *testing.T) {
	boom := errors.New("rate limited")
	var calls atomic.Int64
	provider := &stubProvider{fn: func(ctx context.Context, prompt string) (string, error) {
		// Fail exactly one call; which task hits it depends on scheduling.
		if calls.Add(1) == 3 {
			return "", boom
		}
		return structuredReply, nil
	}}

	d := NewDispatcher(NewGenerator(provider, testLogger()), testLogger())
	result := d.Dispatch(context.Background(), buildTestTasks(t, 5))

	require.Len(t, result.Reviews, 4)
	require.Len(t, result.Errors, 1)
	assert.False(t, result.Exhausted())

	// The failed id is whichever one is missing from the reviews.
	seen := map[int]bool{}
	ids := make([]int, 0, 4)
	for _, rev := range result.Reviews {
		seen[rev.ID] = true
		ids = append(ids, rev.ID)
	}
	assert.True(t, sort.IntsAreSorted(ids), "reviews must be id-ordered")

	failed := result.Errors[0].TaskID
	assert.False(t, seen[failed])
	assert.ErrorIs(t, result.Errors[0].Err, boom)
	assert.Contains(t, result.Errors[0].Error(), "Persona ")
	assert.Contains(t, result.Errors[0].Error(), "rate limited")
}

func TestDispatch_AllFail(t *testing.T) {
	provider := &stubProvider{fn: func(ctx context.Context, prompt string) (string, error) {
		return "", errors.New("auth failure")
	}}
	d := NewDispatcher(NewGenerator(provider, testLogger()), testLogger())

	result := d.Dispatch(context.Background(), buildTestTasks(t, 3))

	assert.True(t, result.Exhausted())
	require.Len(t, result.Errors, 3)
	for i, te := range result.Errors {
		assert.Equal(t, i+1, te.TaskID)
	}
}

func TestDispatch_StrictParsingWarnings(t *testing.T) {
	provider := &stubProvider{fn: func(ctx context.Context, prompt string) (string, error) {
		return "free text with no rating line", nil
	}}
	gen := NewGenerator(provider, testLogger())
	gen.StrictParsing = true
	d := NewDispatcher(gen, testLogger())

	result := d.Dispatch(context.Background(), buildTestTasks(t, 2))

	// Every task still succeeds; the warnings ride along as task errors.
	assert.Len(t, result.Reviews, 2)
	assert.Len(t, result.Errors, 2)
	assert.False(t, result.Exhausted())
}

func TestDispatch_Empty(t *testing.T) {
	provider := &stubProvider{fn: func(ctx context.Context, prompt string) (string, error) {
		return structuredReply, nil
	}}
	d := NewDispatcher(NewGenerator(provider, testLogger()), testLogger())

	result := d.Dispatch(context.Background(), nil)
	assert.True(t, result.Exhausted())
	assert.Empty(t, result.Errors)
	assert.Equal(t, int64(0), provider.calls.Load())
}
