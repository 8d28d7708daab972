package review

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/matheusfarocha/NeuralFeedback/internal/persona"
)

// maxWorkers caps how many generator calls run in parallel per batch.
const maxWorkers = 10

// TaskError records one task's failure without affecting its siblings.
type TaskError struct {
	TaskID int
	Err    error
}

func (e TaskError) Error() string {
	return fmt.Sprintf("Persona %d: %v", e.TaskID, e.Err)
}

// BatchResult is the reassembled outcome of one dispatch.
type BatchResult struct {
	Reviews []persona.Review
	Errors  []TaskError
}

// Exhausted reports whether every task in the batch failed.
func (r BatchResult) Exhausted() bool {
	return len(r.Reviews) == 0
}

// Dispatcher fans a task list out over a bounded worker pool and reassembles
// the results in ascending task-id order. Completion order is never the
// output order.
type Dispatcher struct {
	gen    *Generator
	logger *slog.Logger
	tracer trace.Tracer
}

func NewDispatcher(gen *Generator, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		gen:    gen,
		logger: logger,
		tracer: otel.Tracer("neuralfeedback/review"),
	}
}

// Dispatch runs every task to completion. One task's failure is recorded and
// does not abort the batch; the method waits for all workers before returning,
// so a slow provider call stalls the whole batch rather than being abandoned.
func (d *Dispatcher) Dispatch(ctx context.Context, tasks []persona.Task) BatchResult {
	ctx, span := d.tracer.Start(ctx, "review.Dispatch",
		trace.WithAttributes(attribute.Int("batch.tasks", len(tasks))))
	defer span.End()

	workers := len(tasks)
	if workers > maxWorkers {
		workers = maxWorkers
	}

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		reviews []persona.Review
		errs    []TaskError
	)
	sem := make(chan struct{}, workers)

	for _, task := range tasks {
		wg.Add(1)
		go func(t persona.Task) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			taskCtx, taskSpan := d.tracer.Start(ctx, "review.Generate",
				trace.WithAttributes(attribute.Int("task.id", t.ID)))
			rev, warning, err := d.gen.Generate(taskCtx, t)
			taskSpan.End()

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				d.logger.Error("persona generation failed", "task_id", t.ID, "error", err)
				errs = append(errs, TaskError{TaskID: t.ID, Err: err})
				return
			}
			if rev.Metadata.PersonaName == "" {
				rev.Metadata.PersonaName = fmt.Sprintf("Persona %d", t.ID)
			}
			reviews = append(reviews, *rev)
			if warning != "" {
				errs = append(errs, TaskError{TaskID: t.ID, Err: fmt.Errorf("%s", warning)})
			}
		}(task)
	}
	wg.Wait()

	sort.Slice(reviews, func(i, j int) bool { return reviews[i].ID < reviews[j].ID })
	sort.Slice(errs, func(i, j int) bool { return errs[i].TaskID < errs[j].TaskID })

	span.SetAttributes(
		attribute.Int("batch.succeeded", len(reviews)),
		attribute.Int("batch.failed", len(errs)),
	)
	d.logger.Info("batch dispatch complete",
		"tasks", len(tasks), "succeeded", len(reviews), "errors", len(errs))

	return BatchResult{Reviews: reviews, Errors: errs}
}
