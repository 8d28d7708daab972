package persona

// IntensityLevels are the trait intensity multipliers cycled across a batch.
// The order matters: the scheduler indexes into this slice.
var IntensityLevels = []float64{0.9, 1.0, 1.1}

// IntensityLabel renders an intensity level as the adverb used in prompts.
func IntensityLabel(level float64) string {
	switch level {
	case 0.9:
		return "somewhat"
	case 1.1:
		return "very"
	default:
		return "moderately"
	}
}

// AvailableTraits is the roster of persona traits a caller may select from.
var AvailableTraits = []string{
	"analytical",
	"creative",
	"practical",
	"emotional",
	"skeptical",
	"optimistic",
	"detail-oriented",
	"impulsive",
	"cautious",
	"adventurous",
}

// Task is one unit of generation work. Tasks are immutable once built and
// consumed exactly once by the review generator.
type Task struct {
	ID           int
	Idea         string
	Traits       []string
	Intensities  map[string]float64
	AgeMin       *int
	AgeMax       *int
	Gender       string
	Location     string
	DocumentText string
}

// Metadata is the structured persona record attached to a review.
type Metadata struct {
	PersonaName               string             `json:"persona_name"`
	PersonaDescriptor         string             `json:"persona_descriptor"`
	Characteristics           []string           `json:"characteristics"`
	CharacteristicIntensities map[string]float64 `json:"characteristic_intensities,omitempty"`
	SentimentRating           int                `json:"sentiment_rating"`
	AgeRange                  string             `json:"age_range,omitempty"`
	Age                       int                `json:"age,omitempty"`
	Gender                    string             `json:"gender,omitempty"`
	Location                  string             `json:"location,omitempty"`
	Profession                string             `json:"profession,omitempty"`
	Tone                      string             `json:"tone,omitempty"`
	Motivations               string             `json:"motivations,omitempty"`
	TraitsSummary             string             `json:"traits_summary,omitempty"`
	ReviewSummary             string             `json:"review_summary,omitempty"`
	SourceDocumentsUsed       bool               `json:"source_documents_used"`
}

// Review is the outcome of one successful task. ID is copied from the
// originating task and is the sort key for batch reassembly.
type Review struct {
	ID       int      `json:"id"`
	Text     string   `json:"review"`
	Metadata Metadata `json:"metadata"`
}

// Summary is the cross-persona glows/grows aggregation for a batch.
type Summary struct {
	Glows []string `json:"glows"`
	Grows []string `json:"grows"`
}

// Turn is one entry in a persona's voice-call conversation history.
type Turn struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Find returns the review with the given id, or nil.
func Find(reviews []Review, id int) *Review {
	for i := range reviews {
		if reviews[i].ID == id {
			return &reviews[i]
		}
	}
	return nil
}
