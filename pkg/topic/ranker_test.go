package topic

import "testing"

func TestDistribution_ArgMax(t *testing.T) {
	tests := []struct {
		name       string
		dist       Distribution
		expectLbl  string
		expectConf float64
	}{
		{
			name:       "empty distribution",
			dist:       Distribution{},
			expectLbl:  "",
			expectConf: 0,
		},
		{
			name: "single class",
			dist: Distribution{
				Classes: []string{"algebra"},
				Probs:   []float64{1.0},
			},
			expectLbl:  "algebra",
			expectConf: 1.0,
		},
		{
			name: "picks highest probability",
			dist: Distribution{
				Classes: []string{"algebra", "biology", "chemistry"},
				Probs:   []float64{0.1, 0.6, 0.3},
			},
			expectLbl:  "biology",
			expectConf: 0.6,
		},
		{
			name: "tie keeps lowest class index",
			dist: Distribution{
				Classes: []string{"algebra", "biology"},
				Probs:   []float64{0.5, 0.5},
			},
			expectLbl:  "algebra",
			expectConf: 0.5,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			label, conf := tc.dist.ArgMax()
			if label != tc.expectLbl {
				t.Errorf("label: got %q, want %q", label, tc.expectLbl)
			}
			if conf != tc.expectConf {
				t.Errorf("confidence: got %.2f, want %.2f", conf, tc.expectConf)
			}
		})
	}
}

func TestDistribution_TopK(t *testing.T) {
	dist := Distribution{
		Classes: []string{"algebra", "biology", "chemistry"},
		Probs:   []float64{0.1, 0.6, 0.3},
	}

	tests := []struct {
		name   string
		k      int
		expect []Ranked
	}{
		{
			name: "top two sorted descending",
			k:    2,
			expect: []Ranked{
				{Label: "biology", Prob: 0.6},
				{Label: "chemistry", Prob: 0.3},
			},
		},
		{
			name: "k clamped to class count",
			k:    10,
			expect: []Ranked{
				{Label: "biology", Prob: 0.6},
				{Label: "chemistry", Prob: 0.3},
				{Label: "algebra", Prob: 0.1},
			},
		},
		{
			name: "k clamped to at least one",
			k:    0,
			expect: []Ranked{
				{Label: "biology", Prob: 0.6},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := dist.TopK(tc.k)
			if len(got) != len(tc.expect) {
				t.Fatalf("length: got %d, want %d", len(got), len(tc.expect))
			}
			for i := range got {
				if got[i] != tc.expect[i] {
					t.Errorf("entry %d: got %+v, want %+v", i, got[i], tc.expect[i])
				}
			}
		})
	}
}

func TestDistribution_TopK_TiesKeepIndexOrder(t *testing.T) {
	dist := Distribution{
		Classes: []string{"algebra", "biology", "chemistry"},
		Probs:   []float64{0.4, 0.2, 0.4},
	}

	got := dist.TopK(3)
	want := []Ranked{
		{Label: "algebra", Prob: 0.4},
		{Label: "chemistry", Prob: 0.4},
		{Label: "biology", Prob: 0.2},
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestDistribution_TopK_Empty(t *testing.T) {
	got := Distribution{}.TopK(3)
	if len(got) != 0 {
		t.Errorf("expected empty result, got %v", got)
	}
}

func TestUniform(t *testing.T) {
	d := Uniform([]string{"a", "b", "c", "d"})
	for i, p := range d.Probs {
		if p != 0.25 {
			t.Errorf("prob %d: got %.2f, want 0.25", i, p)
		}
	}
}
