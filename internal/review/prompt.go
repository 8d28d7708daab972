package review

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/matheusfarocha/NeuralFeedback/internal/persona"
)

// documentExcerptLimit caps how much uploaded-document text is embedded in a
// generation prompt.
const documentExcerptLimit = 3000

// truncate cuts s to at most limit bytes without splitting a rune.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

const instructionSchema = `Return ONLY valid JSON (no code fences) with this structure:
{
  "persona": {
    "name": "First Last",
    "age": integer,
    "gender": "Gender or leave empty",
    "location": "City, Region or leave empty",
    "profession": "Job title",
    "tone": "One-word tone describing how they speak",
    "descriptor": "Short sentence describing the persona",
    "traits": ["list", "of", "traits"],
    "motivations": "Optional short phrase about what drives them"
  },
  "review": {
    "text": "2-4 sentences of authentic feedback grounded in the product idea and persona perspective.",
    "rating": integer between 1 and 10,
    "summary": "Optional one sentence TL;DR of the feedback"
  }
}`

// traitDescriptors renders the trait+intensity pairs of a task into
// natural-language descriptors like "very analytical".
func traitDescriptors(task persona.Task) []string {
	descs := make([]string, 0, len(task.Traits))
	for _, trait := range task.Traits {
		level, ok := task.Intensities[trait]
		if !ok {
			level = 1.0
		}
		descs = append(descs, persona.IntensityLabel(level)+" "+trait)
	}
	return descs
}

func buildReviewPrompt(task persona.Task, age int) string {
	descs := traitDescriptors(task)

	var constraints []string
	if age > 0 {
		constraints = append(constraints, fmt.Sprintf("Age: exactly %d years old", age))
	}
	if task.Gender != "" {
		constraints = append(constraints, "Gender: "+task.Gender)
	}
	if task.Location != "" {
		constraints = append(constraints, "Based in "+task.Location)
	}
	constraintsText := "- No specific demographic constraints provided."
	if len(constraints) > 0 {
		constraintsText = "- " + strings.Join(constraints, "\n- ")
	}

	var docContext string
	if doc := strings.TrimSpace(task.DocumentText); doc != "" {
		if len(doc) > documentExcerptLimit {
			doc = truncate(doc, documentExcerptLimit) + "..."
		}
		docContext = fmt.Sprintf("\n\nSupporting material supplied by the user:\n\"\"\"%s\"\"\"\n", doc)
	}

	return fmt.Sprintf(`You are crafting a realistic customer persona and their feedback about a product IDEA/CONCEPT being pitched.

Product Concept Being Pitched:
"""%s"""

Primary persona traits to embody:
- %s

Persona constraints and user-supplied demographic preferences:
%s
%s
IMPORTANT: The persona is evaluating this CONCEPT/IDEA based on the description provided. They have NOT used the product (it doesn't exist yet). They should:
- Give feedback on the idea itself and its potential
- Share their thoughts on whether this would appeal to them or solve a problem they have
- Raise any concerns, questions, or suggestions about the concept
- NOT pretend they have used, seen, or experienced the product
- NOT hallucinate features or experiences beyond what's described

The review must reference specifics from the product concept description and evaluate its viability from the persona's perspective.

%s
Fill in missing demographic fields with plausible details that still align with the constraints and traits. Keep the JSON concise, valid, and free of additional commentary.`,
		task.Idea,
		strings.Join(descs, "\n- "),
		constraintsText,
		docContext,
		instructionSchema,
	)
}

func buildSummaryPrompt(feedbackText string) string {
	return fmt.Sprintf(`You are analyzing multiple customer feedback responses about a product idea. Below are the numbered feedbacks:

%s

Analyze all these feedbacks and summarize them into two categories:

1. **Glows**: What aspects of the product idea are generally positive, well-received, or show promise? List 3-5 key strengths.

2. **Grows**: What areas need improvement, what concerns were raised, or what aspects were criticized? List 3-5 key areas for improvement.

Format your response EXACTLY as follows (use these exact section headers):

GLOWS:
- [First positive point]
- [Second positive point]
- [Third positive point]

GROWS:
- [First area for improvement]
- [Second area for improvement]
- [Third area for improvement]

Keep each point concise (one sentence or short phrase). Focus on the most common themes across all feedbacks.`, feedbackText)
}

func buildChatPrompt(descriptor, reviewText, userMessage string) string {
	return fmt.Sprintf(`Continue a conversation as %s.
Earlier you provided this feedback:
"%s"

Respond to the user's latest message in a conversational, authentic tone that reflects this persona.
Avoid generic chatbot language and keep the answer concise and opinionated when appropriate.

User: %s`, descriptor, reviewText, userMessage)
}

func buildCallSystemPrompt(name, descriptor, reviewText, tone string) string {
	descriptorLine := descriptor
	if descriptorLine == "" {
		descriptorLine = tone
	}
	if descriptorLine == "" {
		descriptorLine = "insightful customer persona"
	}
	snippet := strings.TrimSpace(reviewText)
	if snippet == "" {
		snippet = "No previous review context provided."
	}
	return fmt.Sprintf(`You are %s, an %s. Stay in character, respond conversationally, and keep answers concise but opinionated. Reference this earlier feedback when useful:
%q`, name, descriptorLine, snippet)
}

func formatHistory(history []persona.Turn, limit int) string {
	if len(history) > limit {
		history = history[len(history)-limit:]
	}
	var lines []string
	for _, turn := range history {
		if turn.Content == "" {
			continue
		}
		if turn.Role == persona.RoleAssistant {
			lines = append(lines, "Persona: "+turn.Content)
		} else {
			lines = append(lines, "User: "+turn.Content)
		}
	}
	return strings.Join(lines, "\n")
}
