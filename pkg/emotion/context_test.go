package emotion

import (
	"strings"
	"testing"
)

func TestContextFor(t *testing.T) {
	tests := []struct {
		name     string
		label    string
		contains string
	}{
		{"known label", "happy", "happy and engaged"},
		{"case insensitive", "HaPPy", "happy and engaged"},
		{"surrounding whitespace", "  sad ", "sad or frustrated"},
		{"unknown label falls back to neutral", "bored", "neutral and focused"},
		{"empty label falls back to neutral", "", "neutral and focused"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctx := ContextFor(tc.label)
			if !strings.Contains(ctx.Description, tc.contains) {
				t.Errorf("Description %q does not contain %q", ctx.Description, tc.contains)
			}
			if len(ctx.Suggestions) == 0 {
				t.Error("expected suggestions, got none")
			}
		})
	}
}
