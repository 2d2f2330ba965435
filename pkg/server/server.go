// Package server exposes the emotion, topic, and chat operations over HTTP.
package server

import (
	"context"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"

	"github.com/stemlab/stemmy/internal/log"
	"github.com/stemlab/stemmy/pkg/chat"
	"github.com/stemlab/stemmy/pkg/emotion"
	"github.com/stemlab/stemmy/pkg/state"
	"github.com/stemlab/stemmy/pkg/topic"
)

// Detector is the slice of the emotion backend the server needs.
type Detector interface {
	Detect(img []byte) ([]emotion.Detection, error)
}

// Classifier is the slice of the topic backend the server needs.
type Classifier interface {
	Predict(text string) (topic.Distribution, error)
}

// Completer generates a reply for a compiled chat payload.
type Completer interface {
	Complete(ctx context.Context, req chat.Request) (string, error)
}

// Config holds server configuration.
type Config struct {
	Debug bool

	// ConfidenceThreshold separates a "face detected" response from a
	// below-threshold reduction. Independent of detection selection.
	ConfidenceThreshold float64

	// SmoothingWindow sizes the per-stream label smoother.
	SmoothingWindow int

	// DefaultChatModel is used when a chat request names no model.
	DefaultChatModel string

	// ChatTimeout bounds each upstream completion call.
	ChatTimeout time.Duration

	// Upstream status, reported by /api/openai_status.
	OpenAIBaseURL    string
	OpenAIKeySet     bool
	OpenAIProjectSet bool
}

// Server wires the recognizer, classifier, and chat client into the HTTP
// surface. Any of the three backends may be nil; the corresponding
// endpoints then answer with their documented unavailable behavior.
type Server struct {
	app        *fiber.App
	cfg        Config
	detector   Detector
	classifier Classifier
	completer  Completer
	store      *state.Store
	logger     *slog.Logger
}

// New creates the server and registers all routes.
func New(cfg Config, detector Detector, classifier Classifier, completer Completer) *Server {
	if cfg.SmoothingWindow < 1 {
		cfg.SmoothingWindow = 3
	}
	if cfg.DefaultChatModel == "" {
		cfg.DefaultChatModel = "gpt-4o-mini"
	}
	if cfg.ChatTimeout <= 0 {
		cfg.ChatTimeout = 60 * time.Second
	}
	if cfg.OpenAIBaseURL == "" {
		cfg.OpenAIBaseURL = chat.DefaultBaseURL
	}

	s := &Server{
		cfg:        cfg,
		detector:   detector,
		classifier: classifier,
		completer:  completer,
		store:      state.NewStore(),
		logger:     log.With("component", "server"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "stemmy",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Content-Type,Authorization",
	}))
	if cfg.Debug {
		app.Use(fiberlogger.New())
	}

	app.Get("/health", s.handleHealth)
	app.Post("/recognize_emotion", s.handleRecognizeEmotion)
	app.Get("/current_emotion", s.handleCurrentEmotion)
	app.Post("/reset_emotion", s.handleResetEmotion)
	app.Get("/emotion_context", s.handleEmotionContext)

	api := app.Group("/api")
	api.Post("/classify_topic", s.handleClassifyTopic)
	api.Post("/chat_openai", s.handleChat)
	api.Get("/openai_status", s.handleOpenAIStatus)
	api.Post("/session", s.handleCreateSession)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/recognize", websocket.New(s.handleRecognizeStream))

	s.app = app
	return s
}

// App returns the underlying Fiber app, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Store returns the signal store.
func (s *Server) Store() *state.Store {
	return s.store
}

// Listen starts serving on the given address and blocks.
func (s *Server) Listen(addr string) error {
	s.logger.Info("listening", "addr", addr)
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
