// Package server exposes the HTTP API: review generation, persona chat, and
// the voice-call variant.
package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/matheusfarocha/NeuralFeedback/internal/review"
	"github.com/matheusfarocha/NeuralFeedback/internal/session"
	"github.com/matheusfarocha/NeuralFeedback/internal/tts"
)

// sessionCookie identifies a visitor across requests so chat and call
// endpoints can find the personas generated for them.
const sessionCookie = "nf_session"

// Options carries the wired dependencies for a Server. Speech may be nil when
// no TTS provider is configured; ReviewsOffline marks a missing review
// provider so generation short-circuits to fallback personas.
type Options struct {
	Logger         *slog.Logger
	Dispatcher     *review.Dispatcher
	Summarizer     *review.Aggregator
	Responder      *review.Responder
	Speech         tts.Provider
	Voices         tts.VoiceSet
	Store          session.Store
	ReviewsOffline bool
	Version        string
}

type Server struct {
	engine     *gin.Engine
	logger     *slog.Logger
	dispatcher *review.Dispatcher
	summarizer *review.Aggregator
	responder  *review.Responder
	speech     tts.Provider
	voices     tts.VoiceSet
	store      session.Store
	offline    bool
	version    string
}

func New(opts Options) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		engine:     engine,
		logger:     opts.Logger,
		dispatcher: opts.Dispatcher,
		summarizer: opts.Summarizer,
		responder:  opts.Responder,
		speech:     opts.Speech,
		voices:     opts.Voices,
		store:      opts.Store,
		offline:    opts.ReviewsOffline,
		version:    opts.Version,
	}

	engine.Use(s.sessionMiddleware())

	api := engine.Group("/api")
	api.POST("/generate", s.handleGenerate)
	api.POST("/chat/:id", s.handleChat)
	api.POST("/call/:id", s.handleCall)
	api.GET("/personas", s.handlePersonas)
	api.GET("/traits", s.handleTraits)

	engine.GET("/health", s.handleHealth)
	return s
}

// Handler exposes the underlying router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) Run(addr string) error { return s.engine.Run(addr) }

func (s *Server) sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, err := c.Cookie(sessionCookie)
		if err != nil || sid == "" {
			sid = uuid.NewString()
			c.SetCookie(sessionCookie, sid, int(session.DefaultTTL.Seconds()), "/", "", false, true)
		}
		c.Set("sid", sid)
		c.Next()
	}
}

func sessionID(c *gin.Context) string {
	return c.GetString("sid")
}
