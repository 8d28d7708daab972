package persona

import (
	"fmt"
	"unicode/utf8"
)

// FallbackMessage annotates batches served from simulated personas so the
// caller can distinguish them from live results.
const FallbackMessage = "Using simulated persona insights (offline mode)."

type fallbackTemplate struct {
	descriptor string
	tone       string
	location   string
}

var fallbackTemplates = []fallbackTemplate{
	{descriptor: "Strategy-focused product designer", tone: "supportive", location: "North America"},
	{descriptor: "Data-driven growth specialist", tone: "analytical", location: "Europe"},
	{descriptor: "User empathy researcher", tone: "empathetic", location: "Asia"},
	{descriptor: "Creative marketing strategist", tone: "enthusiastic", location: "South America"},
	{descriptor: "Detail-oriented quality assurance", tone: "critical", location: "Europe"},
}

// BuildFallback synthesizes count templated persona reviews without touching
// any external API. The descriptor templates repeat modulo the template list;
// names and ages are randomized per entry for visual variety, and ratings
// cycle through 6, 7, 8.
func BuildFallback(idea string, count int, traits []string) []Review {
	if count < 1 {
		count = 1
	}
	if len(traits) == 0 {
		traits = []string{"Balanced", "Insightful"}
	}

	snippet := idea
	if len(snippet) > 60 {
		cut := 60
		for cut > 0 && !utf8.RuneStart(snippet[cut]) {
			cut--
		}
		snippet = snippet[:cut] + "…"
	}

	reviews := make([]Review, 0, count)
	for idx := 0; idx < count; idx++ {
		tpl := fallbackTemplates[idx%len(fallbackTemplates)]
		age := RandomAge(22, 65)
		reviews = append(reviews, Review{
			ID: idx + 1,
			Text: fmt.Sprintf(
				"As a %s, I've considered %q. It shows promise, but clarifying the value proposition and next validation steps would help.",
				lowerFirst(tpl.descriptor), snippet,
			),
			Metadata: Metadata{
				PersonaName:       fmt.Sprintf("%s, %d", RandomName(), age),
				PersonaDescriptor: tpl.descriptor,
				Characteristics:   traits,
				SentimentRating:   6 + idx%3,
				Age:               age,
				Tone:              tpl.tone,
				Location:          tpl.location,
			},
		})
	}
	return reviews
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= 'A' && s[0] <= 'Z' {
		return string(s[0]+'a'-'A') + s[1:]
	}
	return s
}
