// Package config provides environment-driven configuration for stemmy.
package config

import (
	"os"
	"strconv"
	"time"
)

// Defaults for the service.
const (
	DefaultPort             = "8000"
	DefaultEmotionModelPath = "models/emotion_yolo.onnx"
	DefaultTopicModelPath   = "models/topic_classifier.json"
	DefaultChatModel        = "gpt-4o-mini"
	DefaultChatTimeout      = 60 * time.Second
)

// Config holds all runtime configuration for the service.
type Config struct {
	Port     string
	LogLevel string
	Debug    bool

	// Emotion detector
	EmotionModelPath    string
	ConfidenceThreshold float64
	IoUThreshold        float64
	MaxDetections       int
	InputSize           int
	SmoothingWindow     int

	// Topic classifier
	TopicModelPath string

	// Chat upstream
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIOrgID   string
	OpenAIProject string
	ChatModel     string
	ChatTimeout   time.Duration
}

// Load reads configuration from the environment, applying defaults.
// A missing credential is reported by the relevant component at request
// time, never here.
func Load() Config {
	return Config{
		Port:     envStr("PORT", DefaultPort),
		LogLevel: envStr("LOG_LEVEL", "info"),
		Debug:    envBool("DEBUG", false),

		EmotionModelPath:    envStr("EMOTION_MODEL_PATH", DefaultEmotionModelPath),
		ConfidenceThreshold: envFloat("EMOTION_CONFIDENCE_THRESHOLD", 0.3),
		IoUThreshold:        envFloat("EMOTION_IOU_THRESHOLD", 0.45),
		MaxDetections:       envInt("EMOTION_MAX_DETECTIONS", 5),
		InputSize:           envInt("EMOTION_INPUT_SIZE", 640),
		SmoothingWindow:     envInt("EMOTION_SMOOTHING_WINDOW", 3),

		TopicModelPath: envStr("TOPIC_MODEL_PATH", DefaultTopicModelPath),

		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),
		OpenAIOrgID:   envFirst("OPENAI_ORG_ID", "OPENAI_ORGANIZATION"),
		OpenAIProject: os.Getenv("OPENAI_PROJECT"),
		ChatModel:     envStr("CHAT_MODEL", DefaultChatModel),
		ChatTimeout:   time.Duration(envInt("CHAT_TIMEOUT_SECONDS", int(DefaultChatTimeout/time.Second))) * time.Second,
	}
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envFirst(keys ...string) string {
	for _, key := range keys {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func envBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
