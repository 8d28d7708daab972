package server

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"

	"github.com/matheusfarocha/NeuralFeedback/internal/ingest"
	"github.com/matheusfarocha/NeuralFeedback/internal/persona"
	"github.com/matheusfarocha/NeuralFeedback/internal/review"
	"github.com/matheusfarocha/NeuralFeedback/internal/session"
)

// generateRequest is the JSON body for /api/generate. Multipart submissions
// carry the same fields as form values plus an optional ideaFile upload.
type generateRequest struct {
	Text            string   `json:"text"`
	NumReviews      int      `json:"numReviews"`
	Characteristics []string `json:"characteristics"`
	AgeMin          *int     `json:"ageMin"`
	AgeMax          *int     `json:"ageMax"`
	Gender          string   `json:"gender"`
	Location        string   `json:"location"`
	IdeaURL         string   `json:"ideaUrl"`
}

func (s *Server) handleGenerate(c *gin.Context) {
	req := s.parseGenerateRequest(c)

	if req.NumReviews == 0 {
		req.NumReviews = 5
	}
	count := persona.ClampCount(req.NumReviews)

	tasks, err := persona.BuildTasks(persona.BatchRequest{
		IdeaText:     strings.TrimSpace(req.Text),
		ReviewCount:  count,
		Traits:       req.Characteristics,
		AgeMin:       req.AgeMin,
		AgeMax:       req.AgeMax,
		Gender:       strings.TrimSpace(req.Gender),
		Location:     strings.TrimSpace(req.Location),
		DocumentText: req.documentText,
	})
	switch {
	case errors.Is(err, persona.ErrMissingIdea):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please enter a product idea!"})
		return
	case errors.Is(err, persona.ErrNoTraits):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please select at least one persona trait!"})
		return
	case err != nil:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sid := sessionID(c)

	if s.offline {
		s.respondFallback(c, sid, req.Text, count, req.Characteristics,
			"Review provider API key missing", nil)
		return
	}

	batchID := ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
	s.logger.InfoContext(c.Request.Context(), "generating review batch",
		"batch_id", batchID, "count", count, "traits", len(req.Characteristics))

	result := s.dispatcher.Dispatch(c.Request.Context(), tasks)

	details := make([]string, 0, len(result.Errors))
	for _, te := range result.Errors {
		details = append(details, te.Error())
	}

	if result.Exhausted() {
		s.respondFallback(c, sid, req.Text, count, req.Characteristics,
			"No responses generated", details)
		return
	}

	if err := s.store.SetPersonas(c.Request.Context(), sid, result.Reviews); err != nil {
		s.logger.ErrorContext(c.Request.Context(), "store personas failed", "error", err)
	}

	summary := s.summarizer.Summarize(c.Request.Context(), result.Reviews)

	var errList any
	if len(details) > 0 {
		errList = details
	}
	c.JSON(http.StatusOK, gin.H{
		"batchId":      batchID,
		"inputText":    strings.TrimSpace(req.Text),
		"numReviews":   count,
		"reviews":      result.Reviews,
		"successCount": len(result.Reviews),
		"errorCount":   len(result.Errors),
		"errors":       errList,
		"glows":        summary.Glows,
		"grows":        summary.Grows,
	})
}

// parsedGenerate extends the wire request with text extracted from an
// uploaded document or a fetched URL.
type parsedGenerate struct {
	generateRequest
	documentText string
}

func (s *Server) parseGenerateRequest(c *gin.Context) parsedGenerate {
	var req parsedGenerate

	contentType := c.ContentType()
	if strings.HasPrefix(contentType, "multipart/form-data") {
		req.Text = c.PostForm("text")
		if n, err := strconv.Atoi(c.PostForm("numReviews")); err == nil {
			req.NumReviews = n
		}
		req.Characteristics = c.PostFormArray("characteristics")
		req.AgeMin = formInt(c, "ageMin")
		req.AgeMax = formInt(c, "ageMax")
		req.Gender = c.PostForm("gender")
		req.Location = c.PostForm("location")
		req.IdeaURL = c.PostForm("ideaUrl")

		if fh, err := c.FormFile("ideaFile"); err == nil && fh.Filename != "" {
			f, err := fh.Open()
			if err == nil {
				data, readErr := io.ReadAll(f)
				f.Close()
				if readErr == nil {
					text, extractErr := ingest.Extract(fh.Filename, data)
					if extractErr != nil {
						s.logger.WarnContext(c.Request.Context(), "document parsing failed",
							"file", fh.Filename, "error", extractErr)
					} else {
						req.documentText = text
						s.logger.InfoContext(c.Request.Context(), "document ingested",
							"file", fh.Filename, "words", ingest.WordCount(text))
					}
				}
			}
		}
	} else {
		var body generateRequest
		if err := c.ShouldBindJSON(&body); err == nil {
			req.generateRequest = body
		}
	}

	if req.documentText == "" && req.IdeaURL != "" {
		text, err := ingest.FetchURL(c.Request.Context(), req.IdeaURL)
		if err != nil {
			s.logger.WarnContext(c.Request.Context(), "url ingest failed",
				"url", req.IdeaURL, "error", err)
		} else {
			req.documentText = text
		}
	}
	return req
}

func formInt(c *gin.Context, field string) *int {
	v := strings.TrimSpace(c.PostForm(field))
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil
	}
	return &n
}

// respondFallback stores simulated personas for the session and returns the
// degraded-mode payload.
func (s *Server) respondFallback(c *gin.Context, sid, idea string, count int, traits []string, reason string, details []string) {
	fallback := persona.BuildFallback(strings.TrimSpace(idea), count, traits)
	if err := s.store.SetPersonas(c.Request.Context(), sid, fallback); err != nil {
		s.logger.ErrorContext(c.Request.Context(), "store fallback personas failed", "error", err)
	}

	body := gin.H{
		"error":    reason,
		"fallback": fallback,
		"message":  persona.FallbackMessage,
		"glows":    []string{},
		"grows":    []string{},
	}
	if len(details) > 0 {
		body["details"] = details
	}
	c.JSON(http.StatusInternalServerError, body)
}

type chatRequest struct {
	Message string `json:"message"`
}

func (s *Server) handleChat(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid persona id"})
		return
	}

	var req chatRequest
	_ = c.ShouldBindJSON(&req)
	if strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Empty message"})
		return
	}

	rev, ok := s.lookupPersona(c, id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Persona not found in session"})
		return
	}

	reply, err := s.responder.Reply(c.Request.Context(), rev, req.Message)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}

type callRequest struct {
	Message     string `json:"message"`
	Initial     bool   `json:"initial"`
	PersonaName string `json:"persona_name"`
	Tone        string `json:"tone"`
	Gender      string `json:"gender"`
}

func (s *Server) handleCall(c *gin.Context) {
	if s.speech == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Voice synthesis unavailable. Set ELEVENLABS_API_KEY."})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid persona id"})
		return
	}

	var req callRequest
	_ = c.ShouldBindJSON(&req)

	sid := sessionID(c)
	ctx := c.Request.Context()

	// A call can proceed without a stored persona: the client may supply the
	// name and tone directly, and a placeholder covers the rest.
	rev, ok := s.lookupPersona(c, id)
	if !ok {
		rev = &persona.Review{ID: id}
	}
	if req.PersonaName != "" {
		rev.Metadata.PersonaName = req.PersonaName
	}
	if rev.Metadata.PersonaName == "" {
		rev.Metadata.PersonaName = "Persona " + strconv.Itoa(id)
	}
	tone := req.Tone
	if tone == "" {
		tone = "friendly and natural"
	}
	rev.Metadata.Tone = tone

	genderHint := req.Gender
	if genderHint == "" {
		genderHint = rev.Metadata.Gender
	}
	voiceID := s.voices.Resolve(genderHint)
	if voiceID == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No voice configured for this persona."})
		return
	}

	history, err := s.store.History(ctx, sid, id)
	if err != nil {
		s.logger.WarnContext(ctx, "load call history failed", "error", err)
	}

	replyText, err := s.responder.CallReply(ctx, rev, history, req.Message)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	speechText := replyText
	if req.Initial {
		speechText = review.Greeting(rev.Metadata.PersonaName)
	}
	speechPrompt := "Speak in a " + tone + " tone: " + speechText

	audio, err := s.speech.Synthesize(ctx, speechPrompt, voiceID)
	if err != nil {
		s.logger.ErrorContext(ctx, "speech synthesis failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate audio."})
		return
	}

	var turns []persona.Turn
	if req.Initial {
		turns = []persona.Turn{{Role: persona.RoleAssistant, Content: replyText}}
	} else {
		turns = []persona.Turn{
			{Role: persona.RoleUser, Content: req.Message},
			{Role: persona.RoleAssistant, Content: replyText},
		}
	}
	if err := s.store.AppendHistory(ctx, sid, id, turns...); err != nil {
		s.logger.WarnContext(ctx, "append call history failed", "error", err)
	}

	c.JSON(http.StatusOK, gin.H{
		"reply": replyText,
		"audio": base64.StdEncoding.EncodeToString(audio),
	})
}

func (s *Server) handlePersonas(c *gin.Context) {
	reviews, err := s.store.Personas(c.Request.Context(), sessionID(c))
	if errors.Is(err, session.ErrNoPersonas) {
		c.JSON(http.StatusOK, gin.H{"personas": []persona.Review{}})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"personas": reviews})
}

func (s *Server) handleTraits(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"traits": persona.AvailableTraits})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": s.version})
}

func (s *Server) lookupPersona(c *gin.Context, id int) (*persona.Review, bool) {
	reviews, err := s.store.Personas(c.Request.Context(), sessionID(c))
	if err != nil {
		return nil, false
	}
	rev := persona.Find(reviews, id)
	return rev, rev != nil
}
