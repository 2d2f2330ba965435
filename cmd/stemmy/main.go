// stemmy: emotion + topic aware STEM tutor backend.
// Runs a pretrained emotion detector and topic classifier, and forwards
// annotated chat messages to the OpenAI chat-completions API.
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/stemlab/stemmy/internal/config"
	"github.com/stemlab/stemmy/internal/log"
	"github.com/stemlab/stemmy/pkg/chat"
	"github.com/stemlab/stemmy/pkg/emotion"
	"github.com/stemlab/stemmy/pkg/server"
	"github.com/stemlab/stemmy/pkg/topic"
)

func main() {
	// .env is optional; the shell environment wins.
	_ = godotenv.Load()

	cfg := config.Load()
	log.Init(cfg.LogLevel)
	logger := log.With("component", "main")

	// Models load at startup; a failed load leaves the corresponding
	// endpoints in their documented unavailable mode.
	var detector server.Detector
	rec, err := emotion.NewRecognizer(emotion.Config{
		ModelPath:        cfg.EmotionModelPath,
		ConfidenceThresh: cfg.ConfidenceThreshold,
		IoUThresh:        cfg.IoUThreshold,
		MaxDetections:    cfg.MaxDetections,
		InputSize:        cfg.InputSize,
	})
	if err != nil {
		logger.Warn("emotion recognition disabled", "error", err)
	} else {
		detector = rec
		defer rec.Close()
		logger.Info("emotion model loaded", "path", cfg.EmotionModelPath)
	}

	var classifier server.Classifier
	clf, err := topic.Load(cfg.TopicModelPath)
	if err != nil {
		logger.Warn("topic classifier disabled", "error", err)
	} else {
		classifier = clf
		logger.Info("topic classifier loaded",
			"path", cfg.TopicModelPath,
			"classes", len(clf.Classes()),
		)
	}

	var completer server.Completer
	client, err := chat.NewClient(chat.Config{
		APIKey:       cfg.OpenAIAPIKey,
		BaseURL:      cfg.OpenAIBaseURL,
		Organization: cfg.OpenAIOrgID,
		Project:      cfg.OpenAIProject,
		Timeout:      cfg.ChatTimeout,
		Logger:       log.L(),
	})
	if err != nil {
		logger.Warn("chat upstream not configured", "error", err)
	} else {
		completer = client
	}

	srv := server.New(server.Config{
		Debug:               cfg.Debug,
		ConfidenceThreshold: cfg.ConfidenceThreshold,
		SmoothingWindow:     cfg.SmoothingWindow,
		DefaultChatModel:    cfg.ChatModel,
		ChatTimeout:         cfg.ChatTimeout,
		OpenAIBaseURL:       cfg.OpenAIBaseURL,
		OpenAIKeySet:        cfg.OpenAIAPIKey != "",
		OpenAIProjectSet:    cfg.OpenAIProject != "",
	}, detector, classifier, completer)

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		logger.Info("shutting down")
		_ = srv.Shutdown()
	}()

	if err := srv.Listen(":" + cfg.Port); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
