package emotion

import "testing"

func TestSmoother_MajorityVote(t *testing.T) {
	tests := []struct {
		name   string
		window int
		input  []string
		expect string
	}{
		{
			name:   "empty window yields neutral",
			window: 3,
			input:  nil,
			expect: "neutral",
		},
		{
			name:   "clear majority",
			window: 3,
			input:  []string{"happy", "sad", "happy"},
			expect: "happy",
		},
		{
			name:   "tie goes to earliest first occurrence",
			window: 3,
			input:  []string{"happy", "sad"},
			expect: "happy",
		},
		{
			name:   "tie at full window follows buffer order",
			window: 4,
			input:  []string{"sad", "happy", "happy", "sad"},
			expect: "sad",
		},
		{
			name:   "eviction shifts the majority",
			window: 3,
			input:  []string{"sad", "happy", "sad", "happy"},
			expect: "happy",
		},
		{
			name:   "oldest entries are evicted",
			window: 3,
			input:  []string{"sad", "sad", "happy", "happy", "happy"},
			expect: "happy",
		},
		{
			name:   "window of one tracks last label",
			window: 1,
			input:  []string{"happy", "sad"},
			expect: "sad",
		},
		{
			name:   "window below one is clamped",
			window: 0,
			input:  []string{"angry"},
			expect: "angry",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := NewSmoother(tc.window)
			for _, l := range tc.input {
				s.Observe(l)
			}
			if got := s.Smoothed(); got != tc.expect {
				t.Errorf("Smoothed: got %q, want %q", got, tc.expect)
			}
		})
	}
}

func TestSmoother_EvictionIsFIFO(t *testing.T) {
	s := NewSmoother(3)
	for _, l := range []string{"a", "b", "c", "d"} {
		s.Observe(l)
	}
	// Buffer is now [b c d]; a must be gone.
	if got := s.Len(); got != 3 {
		t.Fatalf("Len: got %d, want 3", got)
	}
	s.Observe("b")
	s.Observe("b")
	// Buffer is now [d b b].
	if got := s.Smoothed(); got != "b" {
		t.Errorf("Smoothed: got %q, want %q", got, "b")
	}
}

func TestSmoother_Reset(t *testing.T) {
	s := NewSmoother(3)
	s.Observe("happy")
	s.Reset()
	if got := s.Smoothed(); got != "neutral" {
		t.Errorf("Smoothed after reset: got %q, want %q", got, "neutral")
	}
	if got := s.Len(); got != 0 {
		t.Errorf("Len after reset: got %d, want 0", got)
	}
}
