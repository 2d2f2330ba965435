package topic

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func writeModel(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.json")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{
			name:    "valid model",
			body:    `{"classes":["math","physics"],"vocabulary":{"force":0},"class_log_prior":[-0.7,-0.7],"feature_log_prob":[[-2.0],[-0.5]]}`,
			wantErr: false,
		},
		{
			name:    "no classes",
			body:    `{"classes":[],"vocabulary":{}}`,
			wantErr: true,
		},
		{
			name:    "prior length mismatch",
			body:    `{"classes":["math","physics"],"class_log_prior":[-0.7]}`,
			wantErr: true,
		},
		{
			name:    "likelihood length mismatch",
			body:    `{"classes":["math","physics"],"feature_log_prob":[[-2.0]]}`,
			wantErr: true,
		},
		{
			name:    "malformed json",
			body:    `{"classes":`,
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeModel(t, tc.body))
			if tc.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestClassifier_Predict(t *testing.T) {
	// Two classes; "force" and "energy" strongly favor physics, "equation"
	// favors math.
	body := `{
		"classes": ["math", "physics"],
		"vocabulary": {"equation": 0, "force": 1, "energy": 2},
		"class_log_prior": [-0.693, -0.693],
		"feature_log_prob": [[-0.5, -3.0, -3.0], [-3.0, -0.5, -0.5]]
	}`
	clf, err := Load(writeModel(t, body))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		text   string
		expect string
	}{
		{"physics terms", "What is the force on the object?", "physics"},
		{"math terms", "Solve this equation please", "math"},
		{"case insensitive tokens", "FORCE and ENERGY", "physics"},
		{"repeated tokens accumulate", "equation equation force", "math"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dist, err := clf.Predict(tc.text)
			if err != nil {
				t.Fatal(err)
			}
			label, conf := dist.ArgMax()
			if label != tc.expect {
				t.Errorf("label: got %q, want %q", label, tc.expect)
			}
			if conf <= 0 || conf > 1 {
				t.Errorf("confidence out of range: %f", conf)
			}
			sum := 0.0
			for _, p := range dist.Probs {
				sum += p
			}
			if math.Abs(sum-1.0) > 1e-9 {
				t.Errorf("probabilities sum to %f, want 1", sum)
			}
		})
	}
}

func TestClassifier_Predict_UnknownTokensUsePriors(t *testing.T) {
	body := `{
		"classes": ["math", "physics"],
		"vocabulary": {"equation": 0},
		"class_log_prior": [-0.2, -1.7],
		"feature_log_prob": [[-1.0], [-1.0]]
	}`
	clf, err := Load(writeModel(t, body))
	if err != nil {
		t.Fatal(err)
	}

	dist, err := clf.Predict("completely unrelated words")
	if err != nil {
		t.Fatal(err)
	}
	label, _ := dist.ArgMax()
	if label != "math" {
		t.Errorf("label: got %q, want %q (the higher prior)", label, "math")
	}
}

func TestClassifier_Predict_UniformFallback(t *testing.T) {
	body := `{"classes":["math","physics","biology","chemistry"],"vocabulary":{}}`
	clf, err := Load(writeModel(t, body))
	if err != nil {
		t.Fatal(err)
	}

	dist, err := clf.Predict("anything at all")
	if err != nil {
		t.Fatal(err)
	}
	for i, p := range dist.Probs {
		if p != 0.25 {
			t.Errorf("prob %d: got %f, want 0.25", i, p)
		}
	}
}
