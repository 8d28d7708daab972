package persona

import (
	"errors"
	"strings"
)

// BatchRequest is the normalized input for one review-generation batch.
type BatchRequest struct {
	IdeaText     string
	ReviewCount  int
	Traits       []string
	AgeMin       *int
	AgeMax       *int
	Gender       string
	Location     string
	DocumentText string
}

var (
	ErrMissingIdea = errors.New("idea text is required")
	ErrNoTraits    = errors.New("at least one persona trait is required")
)

const (
	minReviewCount = 1
	maxReviewCount = 20
)

// ClampCount forces a requested review count into the supported range.
// Out-of-range values are clamped, not rejected.
func ClampCount(n int) int {
	if n < minReviewCount {
		return minReviewCount
	}
	if n > maxReviewCount {
		return maxReviewCount
	}
	return n
}

// BuildTasks validates a request and expands it into one Task per review.
// All tasks share the idea and demographic filters; ids run 1..count and
// each task gets its own intensity assignment from the cycling schedule.
func BuildTasks(req BatchRequest) ([]Task, error) {
	idea := strings.TrimSpace(req.IdeaText)
	if idea == "" {
		return nil, ErrMissingIdea
	}
	if len(req.Traits) == 0 {
		return nil, ErrNoTraits
	}

	count := ClampCount(req.ReviewCount)
	tasks := make([]Task, 0, count)
	for i := 0; i < count; i++ {
		tasks = append(tasks, Task{
			ID:           i + 1,
			Idea:         idea,
			Traits:       req.Traits,
			Intensities:  scheduleIntensities(i, req.Traits),
			AgeMin:       req.AgeMin,
			AgeMax:       req.AgeMax,
			Gender:       strings.TrimSpace(req.Gender),
			Location:     strings.TrimSpace(req.Location),
			DocumentText: req.DocumentText,
		})
	}
	return tasks, nil
}

// scheduleIntensities assigns trait intensities for the i-th task (0-based).
// Trait j gets IntensityLevels[(i+j) mod 3], staggering the levels so personas
// vary systematically across a batch without randomness. When the batch size
// is a multiple of 3 the cycle repeats; that repetition is intentional.
func scheduleIntensities(i int, traits []string) map[string]float64 {
	intensities := make(map[string]float64, len(traits))
	for j, trait := range traits {
		intensities[trait] = IntensityLevels[(i+j)%len(IntensityLevels)]
	}
	return intensities
}
