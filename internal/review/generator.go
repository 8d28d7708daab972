package review

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/matheusfarocha/NeuralFeedback/internal/llm"
	"github.com/matheusfarocha/NeuralFeedback/internal/persona"
)

// Generator turns one persona task into one review via a single provider call.
// It is safe for concurrent use: each Generate call reads only its own task.
type Generator struct {
	provider llm.Provider
	logger   *slog.Logger

	// StrictParsing surfaces a per-task warning when the provider output
	// missed the structured tier. The task still succeeds with degraded
	// content either way; the flag only controls whether the caller hears
	// about it.
	StrictParsing bool
}

func NewGenerator(provider llm.Provider, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{provider: provider, logger: logger}
}

// resolveAge samples the persona's concrete age from the task's bounds. The
// sampled value is used in both the prompt and the returned metadata, so it
// is resolved exactly once per task.
func resolveAge(task persona.Task) int {
	switch {
	case task.AgeMin != nil && task.AgeMax != nil:
		return persona.RandomAge(*task.AgeMin, *task.AgeMax)
	case task.AgeMin != nil:
		return persona.RandomAge(*task.AgeMin, 100)
	case task.AgeMax != nil:
		return persona.RandomAge(18, *task.AgeMax)
	default:
		return persona.RandomAge(22, 65)
	}
}

// Generate invokes the provider once for the task and assembles a review.
// The returned warning is non-empty only under StrictParsing when the
// response fell back past the structured tier. An error is returned only for
// transport/auth failures or a missing provider; malformed output degrades
// instead of failing.
func (g *Generator) Generate(ctx context.Context, task persona.Task) (*persona.Review, string, error) {
	if g.provider == nil {
		return nil, "", llm.ErrNotConfigured
	}

	age := resolveAge(task)
	prompt := buildReviewPrompt(task, age)

	raw, err := g.provider.Generate(ctx, prompt)
	if err != nil {
		return nil, "", err
	}

	out := parseResponse(raw)
	if out.Tier != TierStructured {
		g.logger.Warn("provider returned non-structured output; falling back",
			"task_id", task.ID, "tier", string(out.Tier))
	}

	rev := g.assemble(task, age, out)

	var warning string
	if g.StrictParsing && out.Tier != TierStructured {
		warning = fmt.Sprintf("provider output was not structured JSON (parsed via %s tier)", out.Tier)
	}
	return rev, warning, nil
}

// assemble fills a Review from a parse outcome, synthesizing any persona
// fields the model omitted.
func (g *Generator) assemble(task persona.Task, age int, out parseOutcome) *persona.Review {
	traitsSummary := strings.Join(traitDescriptors(task), ", ")

	name := out.Name
	if name == "" {
		name = persona.RandomName()
	}
	// The model's age is ignored in favor of the pre-sampled one so the
	// prompt constraint and the metadata always agree.
	if age > 0 {
		name = fmt.Sprintf("%s, %d", name, age)
	}

	descriptor := out.Descriptor
	if descriptor == "" {
		descriptor = capitalize(traitsSummary + " customer persona")
	}

	traits := out.Traits
	if len(traits) == 0 {
		traits = task.Traits
	}

	var ageRange string
	if task.AgeMin != nil && task.AgeMax != nil {
		lo, hi := *task.AgeMin, *task.AgeMax
		if lo > hi {
			lo, hi = hi, lo
		}
		ageRange = fmt.Sprintf("%d-%d", lo, hi)
	}

	return &persona.Review{
		ID:   task.ID,
		Text: out.Text,
		Metadata: persona.Metadata{
			PersonaName:               name,
			PersonaDescriptor:         descriptor,
			Characteristics:           traits,
			CharacteristicIntensities: task.Intensities,
			SentimentRating:           clampRating(out.Rating),
			AgeRange:                  ageRange,
			Age:                       age,
			Gender:                    firstNonEmpty(out.Gender, task.Gender),
			Location:                  firstNonEmpty(out.Location, task.Location),
			Profession:                out.Profession,
			Tone:                      out.Tone,
			Motivations:               out.Motivation,
			TraitsSummary:             traitsSummary,
			ReviewSummary:             out.Summary,
			SourceDocumentsUsed:       strings.TrimSpace(task.DocumentText) != "",
		},
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func capitalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
