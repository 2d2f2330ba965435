package emotion

import (
	"errors"
	"fmt"
	"image"
	"os"
	"sync"

	"gocv.io/x/gocv"
)

// ErrDecode indicates the supplied bytes could not be decoded as an image.
var ErrDecode = errors.New("emotion: failed to decode image")

// Detector is the interface for emotion detection backends.
type Detector interface {
	// Detect finds faces with emotion classes in the encoded image.
	Detect(img []byte) ([]Detection, error)

	// Close releases resources.
	Close() error
}

// Config holds recognizer configuration.
type Config struct {
	ModelPath        string  // Path to ONNX model
	ConfidenceThresh float64 // Minimum confidence (default 0.3)
	IoUThresh        float64 // NMS IoU threshold (default 0.45)
	MaxDetections    int     // Maximum detections per image (default 5)
	InputSize        int     // Model input size, square (default 640)
}

// DefaultConfig returns production defaults for the emotion YOLO model.
func DefaultConfig() Config {
	return Config{
		ModelPath:        "models/emotion_yolo.onnx",
		ConfidenceThresh: 0.3,
		IoUThresh:        0.45,
		MaxDetections:    5,
		InputSize:        640,
	}
}

// Recognizer runs a pretrained YOLO emotion model through OpenCV's DNN
// module. Construction fails when the model cannot be loaded, so
// unavailability is decided at startup rather than lazily.
type Recognizer struct {
	net    gocv.Net
	config Config
	mu     sync.Mutex // Protects inference
}

// NewRecognizer loads the ONNX model at cfg.ModelPath.
func NewRecognizer(cfg Config) (*Recognizer, error) {
	if cfg.ConfidenceThresh <= 0 {
		cfg.ConfidenceThresh = 0.3
	}
	if cfg.IoUThresh <= 0 {
		cfg.IoUThresh = 0.45
	}
	if cfg.MaxDetections <= 0 {
		cfg.MaxDetections = 5
	}
	if cfg.InputSize < 320 {
		cfg.InputSize = 640
	}

	if _, err := os.Stat(cfg.ModelPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("model file not found: %s", cfg.ModelPath)
	}

	net := gocv.ReadNetFromONNX(cfg.ModelPath)
	if net.Empty() {
		return nil, fmt.Errorf("failed to load model: %s", cfg.ModelPath)
	}

	_ = net.SetPreferableBackend(gocv.NetBackendDefault)
	_ = net.SetPreferableTarget(gocv.NetTargetCPU)

	return &Recognizer{
		net:    net,
		config: cfg,
	}, nil
}

// Threshold returns the configured confidence threshold.
func (r *Recognizer) Threshold() float64 {
	return r.config.ConfidenceThresh
}

// Detect decodes the image bytes and runs one inference pass, returning
// thresholded, NMS-filtered detections in source-image pixel coordinates.
func (r *Recognizer) Detect(data []byte) ([]Detection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	img, err := gocv.IMDecode(data, gocv.IMReadColor)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	defer img.Close()

	if img.Empty() {
		return nil, ErrDecode
	}

	imgW := float64(img.Cols())
	imgH := float64(img.Rows())
	size := r.config.InputSize

	blob := gocv.BlobFromImage(img, 1.0/255.0, image.Pt(size, size), gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	r.net.SetInput(blob, "")
	out := r.net.Forward("")
	defer out.Close()

	dets := r.parseOutput(out, imgW, imgH)
	return r.filter(dets), nil
}

// parseOutput reads the YOLO output tensor, shaped
// [1, 4+numClasses, numAnchors] with box coordinates as (cx, cy, w, h)
// in input-blob scale.
func (r *Recognizer) parseOutput(out gocv.Mat, imgW, imgH float64) []Detection {
	dims := out.Size()
	if len(dims) != 3 {
		return nil
	}
	attrs := dims[1]
	anchors := dims[2]
	numClasses := attrs - 4
	if numClasses < 1 {
		return nil
	}

	sx := imgW / float64(r.config.InputSize)
	sy := imgH / float64(r.config.InputSize)

	var dets []Detection
	for a := 0; a < anchors; a++ {
		bestClass := 0
		bestScore := float32(0)
		for c := 0; c < numClasses; c++ {
			score := out.GetFloatAt3(0, 4+c, a)
			if score > bestScore {
				bestScore = score
				bestClass = c
			}
		}
		if float64(bestScore) < r.config.ConfidenceThresh {
			continue
		}

		cx := float64(out.GetFloatAt3(0, 0, a))
		cy := float64(out.GetFloatAt3(0, 1, a))
		w := float64(out.GetFloatAt3(0, 2, a))
		h := float64(out.GetFloatAt3(0, 3, a))

		dets = append(dets, Detection{
			X1:         clamp((cx-w/2)*sx, 0, imgW),
			Y1:         clamp((cy-h/2)*sy, 0, imgH),
			X2:         clamp((cx+w/2)*sx, 0, imgW),
			Y2:         clamp((cy+h/2)*sy, 0, imgH),
			Confidence: float64(bestScore),
			ClassID:    bestClass,
		})
	}

	return dets
}

// filter applies non-maximum suppression and the max-detection cap.
func (r *Recognizer) filter(dets []Detection) []Detection {
	if len(dets) == 0 {
		return nil
	}

	boxes := make([]image.Rectangle, len(dets))
	scores := make([]float32, len(dets))
	for i, d := range dets {
		boxes[i] = image.Rect(int(d.X1), int(d.Y1), int(d.X2), int(d.Y2))
		scores[i] = float32(d.Confidence)
	}

	indices := gocv.NMSBoxes(boxes, scores, float32(r.config.ConfidenceThresh), float32(r.config.IoUThresh))

	kept := make([]Detection, 0, len(indices))
	for _, idx := range indices {
		if idx < 0 || idx >= len(dets) {
			continue
		}
		kept = append(kept, dets[idx])
		if len(kept) == r.config.MaxDetections {
			break
		}
	}

	return kept
}

// Close releases the underlying network.
func (r *Recognizer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.net.Close()
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Ensure Recognizer implements Detector.
var _ Detector = (*Recognizer)(nil)
