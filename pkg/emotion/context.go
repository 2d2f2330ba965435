package emotion

import "strings"

// Context describes how a tutor should adapt to a detected emotion.
type Context struct {
	Description string
	Suggestions []string
}

// contexts is the static emotion-to-guidance table, loaded at startup and
// never mutated.
var contexts = map[string]Context{
	"happy": {
		Description: "User appears happy and engaged. Great time for learning!",
		Suggestions: []string{
			"Ask about advanced topics",
			"Suggest challenging problems",
			"Encourage exploration",
		},
	},
	"sad": {
		Description: "User seems sad or frustrated. Offer encouragement and support.",
		Suggestions: []string{
			"Break down complex topics into smaller steps",
			"Provide positive reinforcement",
			"Suggest taking a break if needed",
		},
	},
	"angry": {
		Description: "User appears frustrated or angry. Approach with patience.",
		Suggestions: []string{
			"Acknowledge their frustration",
			"Offer alternative explanations",
			"Suggest simpler approaches",
		},
	},
	"surprised": {
		Description: "User seems surprised. They might have discovered something new!",
		Suggestions: []string{
			"Ask what surprised them",
			"Explain the concept in detail",
			"Connect to related topics",
		},
	},
	"fearful": {
		Description: "User appears anxious or fearful about the topic.",
		Suggestions: []string{
			"Provide reassurance",
			"Start with basics",
			"Offer step-by-step guidance",
		},
	},
	"disgusted": {
		Description: "User seems displeased with the current topic or approach.",
		Suggestions: []string{
			"Ask what they'd prefer to learn",
			"Try a different teaching method",
			"Find more engaging examples",
		},
	},
	LabelNeutral: {
		Description: "User appears neutral and focused.",
		Suggestions: []string{
			"Continue with current approach",
			"Ask engaging questions",
			"Provide clear explanations",
		},
	},
}

// ContextFor returns the guidance for an emotion label. Lookup is
// case-insensitive; unrecognized labels fall back to the neutral entry.
func ContextFor(label string) Context {
	if ctx, ok := contexts[strings.ToLower(strings.TrimSpace(label))]; ok {
		return ctx
	}
	return contexts[LabelNeutral]
}
