package server

import (
	"github.com/gofiber/websocket/v2"

	"github.com/stemlab/stemmy/pkg/emotion"
)

// frameResult is the per-frame reply on the recognize stream.
type frameResult struct {
	Emotion    string  `json:"emotion"`
	Smoothed   string  `json:"smoothed_emotion"`
	Confidence float64 `json:"confidence"`
	Detections int     `json:"detections"`
}

// handleRecognizeStream serves the live streaming mode: each binary
// message is one encoded frame, each reply carries the raw reduced label
// plus the majority-vote smoothed label over the recent window. The
// smoother is per-connection; a connection is one logical frame stream.
func (s *Server) handleRecognizeStream(conn *websocket.Conn) {
	defer conn.Close()

	if s.detector == nil {
		_ = conn.WriteJSON(map[string]string{"error": "Emotion recognition model not available"})
		return
	}

	smoother := emotion.NewSmoother(s.cfg.SmoothingWindow)

	for {
		mt, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if mt != websocket.BinaryMessage {
			continue
		}

		dets, err := s.detector.Detect(data)
		if err != nil {
			if werr := conn.WriteJSON(map[string]string{"error": err.Error()}); werr != nil {
				return
			}
			continue
		}

		// Only frames with a detection feed the history, so a briefly
		// lost face does not dilute the vote.
		label, conf := emotion.Reduce(dets)
		if len(dets) > 0 {
			smoother.Observe(label)
		}

		detected := 0
		if conf > s.cfg.ConfidenceThreshold {
			detected = 1
		}

		if err := conn.WriteJSON(frameResult{
			Emotion:    label,
			Smoothed:   smoother.Smoothed(),
			Confidence: conf,
			Detections: detected,
		}); err != nil {
			return
		}
	}
}
