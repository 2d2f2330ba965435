package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/stemlab/stemmy/pkg/chat"
	"github.com/stemlab/stemmy/pkg/emotion"
	"github.com/stemlab/stemmy/pkg/prompt"
	"github.com/stemlab/stemmy/pkg/state"
)

// errorJSON translates a failure into the structured error payload every
// endpoint uses. Nothing propagates as an unhandled fault.
func errorJSON(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

// nullable renders an empty label as JSON null.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// handleHealth reports model availability and the shared signal slots.
func (s *Server) handleHealth(c *fiber.Ctx) error {
	emo := s.store.Default().Emotion()
	tpc := s.store.Default().Topic()
	return c.JSON(fiber.Map{
		"status":               "healthy",
		"emotion_model_loaded": s.detector != nil,
		"topic_model_loaded":   s.classifier != nil,
		"current_emotion":      nullable(emo.Label),
		"emotion_confidence":   emo.Confidence,
		"current_topic":        nullable(tpc.Label),
		"topic_confidence":     tpc.Confidence,
	})
}

// handleRecognizeEmotion runs one detection pass over an uploaded image
// and updates the emotion slot. The detections flag reports whether the
// best confidence cleared the configured threshold; the reduced label is
// reported either way.
func (s *Server) handleRecognizeEmotion(c *fiber.Ctx) error {
	if s.detector == nil {
		return errorJSON(c, fiber.StatusServiceUnavailable, "Emotion recognition model not available")
	}

	fh, err := c.FormFile("image")
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "missing image file (form field 'image')")
	}

	f, err := fh.Open()
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "failed to open uploaded image")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "failed to read uploaded image")
	}

	dets, err := s.detector.Detect(data)
	if err != nil {
		if errors.Is(err, emotion.ErrDecode) {
			return errorJSON(c, fiber.StatusBadRequest, "could not decode image: "+err.Error())
		}
		s.logger.Error("emotion recognition failed", "error", err)
		return errorJSON(c, fiber.StatusInternalServerError, "Emotion recognition failed: "+err.Error())
	}

	label, conf := emotion.Reduce(dets)
	s.store.Session(c.FormValue("session_id")).SetEmotion(state.Signal{Label: label, Confidence: conf})

	detected := 0
	if conf > s.cfg.ConfidenceThreshold {
		detected = 1
	}

	return c.JSON(fiber.Map{
		"status":     "success",
		"emotion":    label,
		"confidence": conf,
		"detections": detected,
		"message":    fmt.Sprintf("Detected emotion: %s with %.2f confidence", label, conf),
	})
}

// handleCurrentEmotion returns the emotion slot.
func (s *Server) handleCurrentEmotion(c *fiber.Ctx) error {
	sig := s.store.Session(c.Query("session_id")).Emotion()
	return c.JSON(fiber.Map{
		"emotion":    nullable(sig.Label),
		"confidence": sig.Confidence,
		"timestamp":  float64(time.Now().UnixMilli()) / 1000.0,
	})
}

// handleResetEmotion clears the emotion slot.
func (s *Server) handleResetEmotion(c *fiber.Ctx) error {
	s.store.Session(c.Query("session_id")).ResetEmotion()
	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Emotion state reset",
	})
}

// handleEmotionContext returns tutoring guidance for the current emotion.
func (s *Server) handleEmotionContext(c *fiber.Ctx) error {
	sig := s.store.Session(c.Query("session_id")).Emotion()
	if sig.Label == "" {
		return c.JSON(fiber.Map{
			"has_emotion": false,
			"context":     "No emotion detected. User appears neutral.",
			"suggestions": []string{},
		})
	}

	ctx := emotion.ContextFor(sig.Label)
	return c.JSON(fiber.Map{
		"has_emotion": true,
		"emotion":     sig.Label,
		"confidence":  sig.Confidence,
		"context":     ctx.Description,
		"suggestions": ctx.Suggestions,
	})
}

type classifyRequest struct {
	Text      string `json:"text"`
	TopK      int    `json:"top_k"`
	SessionID string `json:"session_id"`
}

// handleClassifyTopic runs the topic classifier over the text and updates
// the topic slot. An unavailable classifier is a soft degraded response,
// not an error.
func (s *Server) handleClassifyTopic(c *fiber.Ctx) error {
	req := classifyRequest{TopK: 3}
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "invalid request body")
	}

	if s.classifier == nil {
		return c.JSON(fiber.Map{
			"label":        nil,
			"confidence":   0.0,
			"top":          []fiber.Map{},
			"model_loaded": false,
		})
	}

	dist, err := s.classifier.Predict(req.Text)
	if err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "Topic classify error: "+err.Error())
	}

	label, conf := dist.ArgMax()
	s.store.Session(req.SessionID).SetTopic(state.Signal{Label: label, Confidence: conf})

	return c.JSON(fiber.Map{
		"label":        nullable(label),
		"confidence":   conf,
		"top":          dist.TopK(req.TopK),
		"model_loaded": true,
	})
}

type chatRequest struct {
	Message     string           `json:"message"`
	History     []prompt.Message `json:"history"`
	Model       string           `json:"model"`
	Temperature float64          `json:"temperature"`
	SessionID   string           `json:"session_id"`

	UseEmotion                bool     `json:"use_emotion"`
	EmotionOverride           *string  `json:"emotion_override"`
	EmotionConfidenceOverride *float64 `json:"emotion_confidence_override"`

	UseTopic                bool     `json:"use_topic"`
	TopicOverride           *string  `json:"topic_override"`
	TopicConfidenceOverride *float64 `json:"topic_confidence_override"`
}

// handleChat compiles the emotion and topic signals into system
// instructions and forwards the conversation upstream. Failures are never
// retried; the upstream error text is surfaced directly.
func (s *Server) handleChat(c *fiber.Ctx) error {
	// Defaults hold for absent fields; explicit false/zero overrides them.
	req := chatRequest{
		Model:       s.cfg.DefaultChatModel,
		Temperature: 0.5,
		UseEmotion:  true,
		UseTopic:    true,
	}
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "invalid request body")
	}
	if req.Message == "" {
		return errorJSON(c, fiber.StatusBadRequest, "message is required")
	}
	if req.Model == "" {
		req.Model = s.cfg.DefaultChatModel
	}

	// Missing credential is reported before any network call is attempted.
	if s.completer == nil {
		return errorJSON(c, fiber.StatusInternalServerError,
			"OPENAI_API_KEY is not set. Put it in a .env file or environment.")
	}

	signals := s.store.Session(req.SessionID)

	var emoSig prompt.Signal
	if req.UseEmotion {
		stored := signals.Emotion()
		emoSig = prompt.Signal{Label: stored.Label, Confidence: stored.Confidence}
		if req.EmotionOverride != nil {
			emoSig.Label = *req.EmotionOverride
		}
		if req.EmotionConfidenceOverride != nil {
			emoSig.Confidence = *req.EmotionConfidenceOverride
		}
	}

	var topicSig prompt.Signal
	if req.UseTopic {
		topicSig = s.resolveTopic(&req, signals)
	}

	msgs := prompt.Build(prompt.Params{
		IncludeEmotion: req.UseEmotion,
		Emotion:        emoSig,
		IncludeTopic:   req.UseTopic,
		Topic:          topicSig,
		History:        req.History,
		UserMessage:    req.Message,
	})

	ctx, cancel := context.WithTimeout(c.UserContext(), s.cfg.ChatTimeout)
	defer cancel()

	reply, err := s.completer.Complete(ctx, chat.Request{
		Model:       req.Model,
		Temperature: req.Temperature,
		Messages:    msgs,
	})
	if err != nil {
		s.logger.Error("chat upstream failed", "error", err)
		return errorJSON(c, fiber.StatusInternalServerError, "OpenAI error: "+err.Error())
	}

	return c.JSON(fiber.Map{"reply": reply})
}

// resolveTopic picks the topic signal for a chat request: an explicit
// override wins; otherwise the classifier runs on the message when loaded
// (refreshing the slot), falling back to the stored slot on any failure.
func (s *Server) resolveTopic(req *chatRequest, signals *state.Signals) prompt.Signal {
	if req.TopicOverride != nil {
		sig := prompt.Signal{Label: *req.TopicOverride}
		if req.TopicConfidenceOverride != nil {
			sig.Confidence = *req.TopicConfidenceOverride
		}
		return sig
	}

	if s.classifier != nil {
		if dist, err := s.classifier.Predict(req.Message); err == nil {
			label, conf := dist.ArgMax()
			signals.SetTopic(state.Signal{Label: label, Confidence: conf})
			return prompt.Signal{Label: label, Confidence: conf}
		}
	}

	stored := signals.Topic()
	return prompt.Signal{Label: stored.Label, Confidence: stored.Confidence}
}

// handleOpenAIStatus reports upstream configuration without leaking the
// secret.
func (s *Server) handleOpenAIStatus(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"has_key":     s.cfg.OpenAIKeySet,
		"base_url":    s.cfg.OpenAIBaseURL,
		"project_set": s.cfg.OpenAIProjectSet,
	})
}

// handleCreateSession registers a keyed signal scope and returns its id.
func (s *Server) handleCreateSession(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"session_id": s.store.Create()})
}
