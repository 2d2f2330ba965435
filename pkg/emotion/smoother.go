package emotion

// Smoother reduces label flicker across a live sequence of frames by
// majority vote over a fixed-size history of recent labels.
//
// A Smoother is driven by a single logical stream of calls, one per
// processed frame; it needs no locking.
type Smoother struct {
	window  int
	history []string
}

// NewSmoother creates a smoother over the given window size.
// Windows smaller than 1 are clamped to 1.
func NewSmoother(window int) *Smoother {
	if window < 1 {
		window = 1
	}
	return &Smoother{
		window:  window,
		history: make([]string, 0, window),
	}
}

// Observe appends a label to the history, evicting the oldest entry when
// the window is full. Duplicates are allowed; insertion order matters.
func (s *Smoother) Observe(label string) {
	if len(s.history) == s.window {
		copy(s.history, s.history[1:])
		s.history = s.history[:len(s.history)-1]
	}
	s.history = append(s.history, label)
}

// Smoothed returns the label with the highest occurrence count in the
// current window. Ties are broken by the label whose first occurrence
// appears earliest in the buffer. An empty window yields "neutral".
func (s *Smoother) Smoothed() string {
	if len(s.history) == 0 {
		return LabelNeutral
	}

	counts := make(map[string]int, len(s.history))
	for _, l := range s.history {
		counts[l]++
	}

	best := ""
	bestCount := 0
	seen := make(map[string]bool, len(counts))
	for _, l := range s.history {
		if seen[l] {
			continue
		}
		seen[l] = true
		if counts[l] > bestCount {
			best = l
			bestCount = counts[l]
		}
	}

	return best
}

// Reset clears the history.
func (s *Smoother) Reset() {
	s.history = s.history[:0]
}

// Len returns the number of labels currently in the window.
func (s *Smoother) Len() int {
	return len(s.history)
}
