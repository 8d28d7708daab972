package review

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// ParseTier identifies which parsing stage produced a review.
type ParseTier string

const (
	// TierStructured means the provider returned the requested JSON document.
	TierStructured ParseTier = "structured"
	// TierFreeText means JSON parsing failed and the free-text RATING: pattern matched.
	TierFreeText ParseTier = "free_text"
	// TierDegraded means neither tier matched; a minimal review was synthesized.
	TierDegraded ParseTier = "degraded"
)

// parsedPersona mirrors the persona object of the instruction schema.
type parsedPersona struct {
	Name        string          `json:"name"`
	Age         json.Number     `json:"age"`
	Gender      string          `json:"gender"`
	Location    string          `json:"location"`
	Profession  string          `json:"profession"`
	Tone        string          `json:"tone"`
	Descriptor  string          `json:"descriptor"`
	Summary     string          `json:"summary"`
	Traits      []string        `json:"traits"`
	Motivations json.RawMessage `json:"motivations"`
}

type parsedReviewBody struct {
	Text    string      `json:"text"`
	Rating  json.Number `json:"rating"`
	Summary string      `json:"summary"`
}

type parsedResponse struct {
	Persona parsedPersona    `json:"persona"`
	Review  parsedReviewBody `json:"review"`
}

// parseOutcome is the tier-tagged result of parsing one provider response.
type parseOutcome struct {
	Tier       ParseTier
	Text       string
	Rating     int
	HasRating  bool
	Name       string
	Age        int
	Gender     string
	Location   string
	Profession string
	Tone       string
	Descriptor string
	Traits     []string
	Motivation string
	Summary    string
}

var (
	fenceOpenRe  = regexp.MustCompile("(?i)^```(?:json)?")
	fenceCloseRe = regexp.MustCompile("```$")
	ratingRe     = regexp.MustCompile(`(?i)RATING:\s*(-?\d+)`)
	ratingTailRe = regexp.MustCompile(`(?i)\s*RATING:\s*-?\d+\s*$`)
)

// clampRating forces a rating into [1,10].
func clampRating(r int) int {
	if r < 1 {
		return 1
	}
	if r > 10 {
		return 10
	}
	return r
}

func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimSpace(fenceOpenRe.ReplaceAllString(s, ""))
	return strings.TrimSpace(fenceCloseRe.ReplaceAllString(s, ""))
}

// parseResponse runs the tiers in order and returns the first that yields a
// usable review body. It never fails: the degraded tier always produces
// something, so malformed model output costs content quality, not the task.
func parseResponse(raw string) parseOutcome {
	if out, ok := parseStructured(raw); ok {
		return out
	}
	if out, ok := parseFreeText(raw); ok {
		return out
	}
	out := parseOutcome{
		Tier:   TierDegraded,
		Text:   "No feedback received.",
		Rating: 5,
	}
	// A rating line with no review body still carries the model's rating.
	if match := ratingRe.FindStringSubmatch(raw); match != nil {
		if n, err := strconv.Atoi(match[1]); err == nil {
			out.Rating = clampRating(n)
			out.HasRating = true
		}
	}
	return out
}

// parseStructured attempts the JSON tier. It succeeds only when the document
// decodes and carries a non-empty review text.
func parseStructured(raw string) (parseOutcome, bool) {
	cleaned := stripFences(raw)
	if cleaned == "" {
		return parseOutcome{}, false
	}

	var resp parsedResponse
	if err := json.Unmarshal([]byte(cleaned), &resp); err != nil {
		return parseOutcome{}, false
	}

	text := strings.TrimSpace(resp.Review.Text)
	if text == "" {
		return parseOutcome{}, false
	}

	out := parseOutcome{
		Tier:       TierStructured,
		Text:       text,
		Rating:     5,
		Name:       strings.TrimSpace(resp.Persona.Name),
		Gender:     strings.TrimSpace(resp.Persona.Gender),
		Location:   strings.TrimSpace(resp.Persona.Location),
		Profession: strings.TrimSpace(resp.Persona.Profession),
		Tone:       strings.TrimSpace(resp.Persona.Tone),
		Descriptor: strings.TrimSpace(resp.Persona.Descriptor),
		Traits:     resp.Persona.Traits,
		Motivation: decodeMotivations(resp.Persona.Motivations),
		Summary:    strings.TrimSpace(resp.Review.Summary),
	}
	if out.Descriptor == "" {
		out.Descriptor = strings.TrimSpace(resp.Persona.Summary)
	}
	if n, err := resp.Review.Rating.Int64(); err == nil {
		out.Rating = clampRating(int(n))
		out.HasRating = true
	}
	if n, err := resp.Persona.Age.Int64(); err == nil {
		out.Age = int(n)
	}
	return out, true
}

// parseFreeText attempts the delimited free-text tier: plain review prose
// terminated by a "RATING: <int>" line.
func parseFreeText(raw string) (parseOutcome, bool) {
	match := ratingRe.FindStringSubmatch(raw)
	if match == nil {
		return parseOutcome{}, false
	}

	rating := 5
	if n, err := strconv.Atoi(match[1]); err == nil {
		rating = clampRating(n)
	}

	text := strings.TrimSpace(ratingTailRe.ReplaceAllString(raw, ""))
	if text == "" {
		return parseOutcome{}, false
	}

	return parseOutcome{
		Tier:      TierFreeText,
		Text:      text,
		Rating:    rating,
		HasRating: true,
	}, true
}

// decodeMotivations is lenient: models return either a string or a list.
func decodeMotivations(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return strings.Join(list, ", ")
	}
	return ""
}

