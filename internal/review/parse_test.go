package review

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResponse_Structured(t *testing.T) {
	raw := `{
		"persona": {
			"name": "Dana Reyes",
			"age": 34,
			"gender": "female",
			"location": "Lisbon",
			"profession": "UX researcher",
			"tone": "curious",
			"descriptor": "Curious early adopter",
			"traits": ["creative", "skeptical"],
			"motivations": ["saving time", "trying new tools"]
		},
		"review": {
			"text": "I would absolutely try this for a month.",
			"rating": 8,
			"summary": "Positive with reservations"
		}
	}`

	out := parseResponse(raw)
	assert.Equal(t, TierStructured, out.Tier)
	assert.Equal(t, "I would absolutely try this for a month.", out.Text)
	assert.Equal(t, 8, out.Rating)
	assert.True(t, out.HasRating)
	assert.Equal(t, "Dana Reyes", out.Name)
	assert.Equal(t, 34, out.Age)
	assert.Equal(t, "female", out.Gender)
	assert.Equal(t, "Lisbon", out.Location)
	assert.Equal(t, "UX researcher", out.Profession)
	assert.Equal(t, "curious", out.Tone)
	assert.Equal(t, "Curious early adopter", out.Descriptor)
	assert.Equal(t, []string{"creative", "skeptical"}, out.Traits)
	assert.Equal(t, "saving time, trying new tools", out.Motivation)
	assert.Equal(t, "Positive with reservations", out.Summary)
}

func TestParseResponse_StructuredWithFences(t *testing.T) {
	raw := "```json\n{\"review\": {\"text\": \"Decent idea.\", \"rating\": 6}}\n```"
	out := parseResponse(raw)
	assert.Equal(t, TierStructured, out.Tier)
	assert.Equal(t, "Decent idea.", out.Text)
	assert.Equal(t, 6, out.Rating)
}

func TestParseResponse_DescriptorFallsBackToSummary(t *testing.T) {
	raw := `{"persona": {"summary": "Pragmatic buyer"}, "review": {"text": "Fine.", "rating": 7}}`
	out := parseResponse(raw)
	assert.Equal(t, "Pragmatic buyer", out.Descriptor)
}

func TestParseResponse_FreeText(t *testing.T) {
	out := parseResponse("This could work for commuters but the price worries me.\nRATING: 7")
	assert.Equal(t, TierFreeText, out.Tier)
	assert.Equal(t, "This could work for commuters but the price worries me.", out.Text)
	assert.Equal(t, 7, out.Rating)
	assert.True(t, out.HasRating)
}

func TestParseResponse_Degraded(t *testing.T) {
	out := parseResponse("I cannot comply with that request.")
	assert.Equal(t, TierDegraded, out.Tier)
	assert.Equal(t, "No feedback received.", out.Text)
	assert.Equal(t, 5, out.Rating)
	assert.False(t, out.HasRating)
}

func TestParseResponse_RatingOnlyKeepsRating(t *testing.T) {
	// A bare rating line has no review body, but the rating itself is real.
	out := parseResponse("RATING: 7")
	assert.Equal(t, TierDegraded, out.Tier)
	assert.Equal(t, "No feedback received.", out.Text)
	assert.Equal(t, 7, out.Rating)
	assert.True(t, out.HasRating)

	out = parseResponse("RATING: 57")
	assert.Equal(t, 10, out.Rating)
}

func TestParseResponse_RatingClamped(t *testing.T) {
	tests := []struct {
		rating string
		want   int
	}{
		{"0", 1},
		{"-5", 1},
		{"1", 1},
		{"10", 10},
		{"57", 10},
		{"1000", 10},
	}
	for _, tt := range tests {
		out := parseResponse("Solid concept overall. RATING: " + tt.rating)
		require.Equal(t, TierFreeText, out.Tier, "rating %s", tt.rating)
		assert.Equal(t, tt.want, out.Rating, "rating %s", tt.rating)
	}
}

func TestParseResponse_StructuredEmptyTextFallsThrough(t *testing.T) {
	// JSON that decodes but has no review text is not a structured hit.
	out := parseResponse(`{"review": {"text": "", "rating": 9}}`)
	assert.Equal(t, TierDegraded, out.Tier)
}

func TestClampRating(t *testing.T) {
	assert.Equal(t, 1, clampRating(-3))
	assert.Equal(t, 1, clampRating(0))
	assert.Equal(t, 5, clampRating(5))
	assert.Equal(t, 10, clampRating(11))
}

func TestDecodeMotivations(t *testing.T) {
	assert.Equal(t, "speed", decodeMotivations([]byte(`"speed"`)))
	assert.Equal(t, "speed, cost", decodeMotivations([]byte(`["speed","cost"]`)))
	assert.Equal(t, "", decodeMotivations(nil))
	assert.Equal(t, "", decodeMotivations([]byte(`{"nested": true}`)))
}
