// Package emotion provides facial emotion detection from images.
package emotion

// LabelNeutral is the sentinel label used when nothing was detected or a
// class id falls outside the trained label set.
const LabelNeutral = "neutral"

// classNames maps model class ids to emotion labels, in training order.
var classNames = []string{
	"angry",
	"disgusted",
	"fearful",
	"happy",
	"neutral",
	"sad",
	"surprised",
}

// Labels returns the emotion labels the detector can produce.
func Labels() []string {
	out := make([]string, len(classNames))
	copy(out, classNames)
	return out
}

// ClassName maps a model class id to its emotion label.
// Out-of-range ids map to "neutral".
func ClassName(id int) string {
	if id < 0 || id >= len(classNames) {
		return LabelNeutral
	}
	return classNames[id]
}

// Detection represents one detected face from a single inference pass.
type Detection struct {
	X1, Y1, X2, Y2 float64 // Bounding box in source-image pixels
	Confidence     float64 // Detection confidence (0-1)
	ClassID        int     // Emotion class id
}

// Reduce selects the highest-confidence detection and maps its class id to
// an emotion label. An empty input reduces to ("neutral", 0.0). Exact
// confidence ties are broken by first occurrence in input order.
// Confidence values are passed through as-is; callers supply detector
// output that is already well-formed.
func Reduce(dets []Detection) (string, float64) {
	if len(dets) == 0 {
		return LabelNeutral, 0.0
	}

	best := 0
	for i := 1; i < len(dets); i++ {
		if dets[i].Confidence > dets[best].Confidence {
			best = i
		}
	}

	return ClassName(dets[best].ClassID), dets[best].Confidence
}
