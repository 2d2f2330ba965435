package topic

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"regexp"
	"strings"
)

// model is the JSON artifact exported from the trained bag-of-words
// classifier: class names in training order, token vocabulary, class log
// priors, and per-class feature log likelihoods.
type model struct {
	Classes        []string       `json:"classes"`
	Vocabulary     map[string]int `json:"vocabulary"`
	ClassLogPrior  []float64      `json:"class_log_prior"`
	FeatureLogProb [][]float64    `json:"feature_log_prob"`
}

var tokenPattern = regexp.MustCompile(`[a-z0-9']+`)

// Classifier maps a short text to a probability distribution over a fixed
// topic label vocabulary using pretrained multinomial naive Bayes
// artifacts. It holds no mutable state after construction and is safe for
// concurrent use.
type Classifier struct {
	m model
}

// Load reads a classifier artifact from the given JSON file.
func Load(path string) (*Classifier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("topic: read model: %w", err)
	}

	var m model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("topic: parse model: %w", err)
	}

	if len(m.Classes) == 0 {
		return nil, fmt.Errorf("topic: model has no classes: %s", path)
	}
	if len(m.ClassLogPrior) > 0 && len(m.ClassLogPrior) != len(m.Classes) {
		return nil, fmt.Errorf("topic: class_log_prior length %d does not match %d classes",
			len(m.ClassLogPrior), len(m.Classes))
	}
	if len(m.FeatureLogProb) > 0 && len(m.FeatureLogProb) != len(m.Classes) {
		return nil, fmt.Errorf("topic: feature_log_prob length %d does not match %d classes",
			len(m.FeatureLogProb), len(m.Classes))
	}

	return &Classifier{m: m}, nil
}

// Classes returns the topic labels in training order.
func (c *Classifier) Classes() []string {
	out := make([]string, len(c.m.Classes))
	copy(out, c.m.Classes)
	return out
}

// Predict scores the text and returns the class probability distribution.
// When the artifact carries no probability basis (missing priors or
// likelihoods), the distribution is uniform over all classes.
func (c *Classifier) Predict(text string) (Distribution, error) {
	if len(c.m.ClassLogPrior) == 0 || len(c.m.FeatureLogProb) == 0 {
		return Uniform(c.m.Classes), nil
	}

	counts := c.tokenCounts(text)

	scores := make([]float64, len(c.m.Classes))
	for ci := range c.m.Classes {
		score := c.m.ClassLogPrior[ci]
		row := c.m.FeatureLogProb[ci]
		for idx, n := range counts {
			if idx < len(row) {
				score += n * row[idx]
			}
		}
		scores[ci] = score
	}

	return Distribution{Classes: c.m.Classes, Probs: softmax(scores)}, nil
}

// tokenCounts maps vocabulary indices to occurrence counts for the text.
// Tokens outside the vocabulary are ignored.
func (c *Classifier) tokenCounts(text string) map[int]float64 {
	counts := make(map[int]float64)
	for _, tok := range tokenPattern.FindAllString(strings.ToLower(text), -1) {
		if idx, ok := c.m.Vocabulary[tok]; ok {
			counts[idx]++
		}
	}
	return counts
}

// softmax converts log scores into a normalized probability vector.
func softmax(scores []float64) []float64 {
	if len(scores) == 0 {
		return nil
	}

	max := scores[0]
	for _, s := range scores[1:] {
		if s > max {
			max = s
		}
	}

	probs := make([]float64, len(scores))
	sum := 0.0
	for i, s := range scores {
		probs[i] = math.Exp(s - max)
		sum += probs[i]
	}
	for i := range probs {
		probs[i] /= sum
	}
	return probs
}
