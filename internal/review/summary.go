package review

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/matheusfarocha/NeuralFeedback/internal/llm"
	"github.com/matheusfarocha/NeuralFeedback/internal/persona"
)

const (
	// summaryInputLimit bounds the concatenated feedback text embedded in
	// the aggregation prompt, regardless of batch size.
	summaryInputLimit = 8000
	// summaryItemLimit caps each of the glows/grows lists.
	summaryItemLimit = 5
)

// Aggregator classifies a batch's collective feedback into glows and grows
// with one provider call. It never hard-fails: every parse miss degrades to
// generic text.
type Aggregator struct {
	provider llm.Provider
	logger   *slog.Logger
}

func NewAggregator(provider llm.Provider, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{provider: provider, logger: logger}
}

// Summarize aggregates all successful reviews of a batch. An empty review
// list returns an empty summary without invoking the provider.
func (a *Aggregator) Summarize(ctx context.Context, reviews []persona.Review) persona.Summary {
	if len(reviews) == 0 || a.provider == nil {
		return persona.Summary{Glows: []string{}, Grows: []string{}}
	}

	feedback := formatFeedback(reviews)
	if feedback == "" {
		return persona.Summary{Glows: []string{}, Grows: []string{}}
	}

	raw, err := a.provider.Generate(ctx, buildSummaryPrompt(feedback))
	if err != nil {
		a.logger.Error("feedback summary generation failed", "error", err)
		return persona.Summary{
			Glows: []string{"Strong value proposition", "Innovative approach", "Clear target audience"},
			Grows: []string{"Consider refining user experience", "Clarify monetization strategy", "Address technical challenges"},
		}
	}

	glows, grows := parseSummary(raw)
	a.logger.Info("feedback summary generated", "glows", len(glows), "grows", len(grows))
	return persona.Summary{Glows: glows, Grows: grows}
}

// formatFeedback renders each review as an "id: (persona context) text" line
// and joins them, capped at summaryInputLimit characters.
func formatFeedback(reviews []persona.Review) string {
	var formatted []string
	for _, rev := range reviews {
		text := strings.TrimSpace(rev.Text)
		if text == "" {
			continue
		}

		var ctxParts []string
		md := rev.Metadata
		if md.PersonaName != "" {
			ctxParts = append(ctxParts, md.PersonaName)
		}
		if md.Profession != "" {
			ctxParts = append(ctxParts, md.Profession)
		}
		if md.Tone != "" {
			ctxParts = append(ctxParts, "tone: "+md.Tone)
		}
		if md.Location != "" {
			ctxParts = append(ctxParts, md.Location)
		}
		if len(md.Characteristics) > 0 {
			traits := md.Characteristics
			if len(traits) > 5 {
				traits = traits[:5]
			}
			ctxParts = append(ctxParts, "traits: "+strings.Join(traits, ", "))
		}

		if len(ctxParts) > 0 {
			formatted = append(formatted, fmt.Sprintf("%d: (%s) %s", rev.ID, strings.Join(ctxParts, " | "), text))
		} else {
			formatted = append(formatted, fmt.Sprintf("%d: %s", rev.ID, text))
		}
	}

	joined := strings.Join(formatted, ", ")
	if len(joined) > summaryInputLimit {
		joined = truncate(joined, summaryInputLimit) + "..."
	}
	return joined
}

var (
	glowsSectionRe = regexp.MustCompile(`(?is)GLOWS:\s*(.*?)(?:GROWS:|$)`)
	growsSectionRe = regexp.MustCompile(`(?is)GROWS:\s*(.*)$`)
)

// parseSummary extracts the two bullet lists from the model reply. Tiers:
// section-header regex first, then a line-by-line section tracker, then fixed
// generic lists so the caller always gets something to show.
func parseSummary(raw string) (glows, grows []string) {
	if m := glowsSectionRe.FindStringSubmatch(raw); m != nil {
		glows = bulletLines(m[1])
	}
	if m := growsSectionRe.FindStringSubmatch(raw); m != nil {
		grows = bulletLines(m[1])
	}

	if len(glows) == 0 && len(grows) == 0 {
		glows, grows = looseParse(raw)
	}

	if len(glows) == 0 {
		glows = []string{"Positive aspects identified in feedback", "Strong value proposition"}
	}
	if len(grows) == 0 {
		grows = []string{"Areas for improvement identified", "Consider refining the approach"}
	}

	if len(glows) > summaryItemLimit {
		glows = glows[:summaryItemLimit]
	}
	if len(grows) > summaryItemLimit {
		grows = grows[:summaryItemLimit]
	}
	return glows, grows
}

// looseParse walks lines tracking the current section by header keyword, for
// replies that mangled the exact header format.
func looseParse(raw string) (glows, grows []string) {
	section := ""
	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		lower := strings.ToLower(trimmed)
		switch {
		case strings.Contains(lower, "glow") && strings.Contains(trimmed, ":"):
			section = "glows"
		case strings.Contains(lower, "grow") && strings.Contains(trimmed, ":"):
			section = "grows"
		case isBullet(trimmed):
			item := stripBullet(trimmed)
			if item == "" {
				continue
			}
			switch section {
			case "glows":
				glows = append(glows, item)
			case "grows":
				grows = append(grows, item)
			}
		}
	}
	return glows, grows
}

func bulletLines(section string) []string {
	var items []string
	for _, line := range strings.Split(section, "\n") {
		trimmed := strings.TrimSpace(line)
		if !isBullet(trimmed) {
			continue
		}
		if item := stripBullet(trimmed); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func isBullet(line string) bool {
	return strings.HasPrefix(line, "-") || strings.HasPrefix(line, "•") || strings.HasPrefix(line, "*")
}

func stripBullet(line string) string {
	return strings.TrimSpace(strings.TrimLeft(line, "-•* \t"))
}
