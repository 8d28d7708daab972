package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/matheusfarocha/NeuralFeedback/internal/llm"
	"github.com/matheusfarocha/NeuralFeedback/internal/persona"
)

// ErrEmptyMessage rejects blank chat input before any provider work.
var ErrEmptyMessage = errors.New("message must not be empty")

// HistoryLimit is the number of conversation turns retained for voice-call
// prompt context. Older turns are dropped, not an error.
const HistoryLimit = 6

const (
	offlineChatReply = "I'm currently offline, but I'd still encourage you to refine the idea based on the earlier feedback we discussed."
	emptyChatReply   = "I'm reflecting on that — could you clarify a bit more?"
	emptyCallReply   = "Let's keep discussing your idea — tell me more!"
)

// Responder role-plays a stored persona in follow-up conversations. The
// primary provider serves plain chat; voice calls additionally fall back to
// the secondary provider when the primary goes quiet.
type Responder struct {
	primary   llm.Provider
	secondary llm.Provider
	logger    *slog.Logger
}

func NewResponder(primary, secondary llm.Provider, logger *slog.Logger) *Responder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Responder{primary: primary, secondary: secondary, logger: logger}
}

// Reply answers a single-turn text chat grounded in the persona's original
// review. No multi-turn memory is kept for plain chat.
func (r *Responder) Reply(ctx context.Context, rev *persona.Review, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", ErrEmptyMessage
	}

	if r.primary == nil {
		return offlineChatReply, nil
	}

	descriptor := rev.Metadata.PersonaDescriptor
	if descriptor == "" {
		descriptor = "an insightful customer persona"
	}

	reply, err := r.primary.Generate(ctx, buildChatPrompt(descriptor, rev.Text, message))
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(reply) == "" {
		reply = emptyChatReply
	}
	return reply, nil
}

// CallReply produces the spoken-reply text for a voice call: multi-turn
// history bounded to HistoryLimit turns, primary provider first, secondary
// provider when the primary returns nothing usable or claims to be offline.
func (r *Responder) CallReply(ctx context.Context, rev *persona.Review, history []persona.Turn, message string) (string, error) {
	md := rev.Metadata
	name := md.PersonaName
	if name == "" {
		name = fmt.Sprintf("Persona %d", rev.ID)
	}

	system := buildCallSystemPrompt(name, md.PersonaDescriptor, rev.Text, md.Tone)
	if message == "" {
		message = "Start conversation"
	}
	prompt := fmt.Sprintf("%s\n\nConversation so far:\n%s\n\nUser: %s\n%s:",
		system, formatHistory(history, HistoryLimit), message, name)

	var reply string
	if r.primary != nil {
		candidate, err := r.primary.Generate(ctx, prompt)
		if err != nil {
			r.logger.Warn("primary provider failed on voice call", "provider", r.primary.Name(), "error", err)
		} else {
			reply = strings.TrimSpace(candidate)
		}
	}

	if (reply == "" || strings.Contains(strings.ToLower(reply), "offline")) && r.secondary != nil {
		candidate, err := r.secondary.Generate(ctx, fmt.Sprintf("%s\n\nUser: %s", system, message))
		if err != nil {
			r.logger.Error("secondary provider fallback failed", "provider", r.secondary.Name(), "error", err)
			reply = emptyCallReply
		} else if strings.TrimSpace(candidate) != "" {
			reply = strings.TrimSpace(candidate)
		}
	}

	if reply == "" {
		reply = "Hey, let's continue — what's your product idea?"
	}
	return reply, nil
}

// Greeting is the fixed opener spoken when a call starts.
func Greeting(personaName string) string {
	return fmt.Sprintf("Hey, I'm %s. I gave feedback on your project earlier — how may I help you today?", personaName)
}
