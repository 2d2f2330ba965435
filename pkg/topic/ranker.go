// Package topic provides text-to-topic classification over a fixed label
// vocabulary using pretrained bag-of-words model artifacts.
package topic

import "sort"

// Ranked is one (label, probability) pair from a top-k query.
type Ranked struct {
	Label string  `json:"label"`
	Prob  float64 `json:"prob"`
}

// Distribution is a probability vector over a fixed, ordered set of class
// labels. Values are non-negative and should sum to ~1, but exact
// normalization is not assumed.
type Distribution struct {
	Classes []string
	Probs   []float64
}

// Uniform returns a uniform distribution over the given classes, the
// fallback when no probability basis is available from the model.
func Uniform(classes []string) Distribution {
	probs := make([]float64, len(classes))
	if len(classes) > 0 {
		p := 1.0 / float64(len(classes))
		for i := range probs {
			probs[i] = p
		}
	}
	return Distribution{Classes: classes, Probs: probs}
}

// ArgMax returns the single best (label, confidence) pair.
// Exact ties keep the lowest class index. An empty distribution returns
// ("", 0).
func (d Distribution) ArgMax() (string, float64) {
	if len(d.Classes) == 0 || len(d.Probs) == 0 {
		return "", 0
	}

	best := 0
	for i := 1; i < len(d.Probs) && i < len(d.Classes); i++ {
		if d.Probs[i] > d.Probs[best] {
			best = i
		}
	}

	return d.Classes[best], d.Probs[best]
}

// TopK returns the k highest-probability pairs sorted strictly descending
// by probability, ties broken by original class index order. k is clamped
// to at least 1 and at most the number of classes.
func (d Distribution) TopK(k int) []Ranked {
	n := len(d.Classes)
	if len(d.Probs) < n {
		n = len(d.Probs)
	}
	if n == 0 {
		return []Ranked{}
	}

	if k < 1 {
		k = 1
	}
	if k > n {
		k = n
	}

	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	sort.SliceStable(indices, func(a, b int) bool {
		return d.Probs[indices[a]] > d.Probs[indices[b]]
	})

	out := make([]Ranked, k)
	for i := 0; i < k; i++ {
		out[i] = Ranked{Label: d.Classes[indices[i]], Prob: d.Probs[indices[i]]}
	}
	return out
}
