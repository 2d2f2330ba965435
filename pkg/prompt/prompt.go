// Package prompt compiles emotion and topic signals into the system
// instructions injected ahead of a chat conversation. All functions are
// pure and side-effect free.
package prompt

import (
	"fmt"
	"math"
	"strings"

	"github.com/stemlab/stemmy/pkg/emotion"
)

// Persona is the base system message for the tutor.
const Persona = "You are a helpful STEM tutor called STEMMY."

// emotionPreamble frames the emotion instruction when it is injected into
// a chat payload.
const emotionPreamble = "Adapt your tone and teaching strategy based on the following emotion signal. "

// maxSuggestions caps how many context suggestions an instruction carries,
// even when more are configured.
const maxSuggestions = 3

// Message is one chat message in the upstream wire format.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Signal is one contextual hint (emotion or topic) with its confidence.
// An empty Label means the signal is absent.
type Signal struct {
	Label      string
	Confidence float64
}

// EmotionInstruction composes the system-level directive for an emotion
// signal. An absent label yields a generic neutral-tone instruction.
// Confidence is rendered as a rounded integer percentage when it lies in
// (0, 1], and "n/a" otherwise.
func EmotionInstruction(label string, confidence float64) string {
	if label == "" {
		return "No reliable emotion detected; assume a neutral, supportive tone. " +
			"Keep explanations clear and encouraging."
	}

	key := strings.ToLower(strings.TrimSpace(label))
	ctx := emotion.ContextFor(key)

	conf := "n/a"
	if confidence > 0 && confidence <= 1 {
		conf = fmt.Sprintf("%d%%", int(math.Round(confidence*100)))
	}

	tips := ctx.Suggestions
	if len(tips) > maxSuggestions {
		tips = tips[:maxSuggestions]
	}

	return fmt.Sprintf(
		"Current user emotion: %s (confidence %s). Guidance: %s. "+
			"Adjust tone and strategy accordingly. Tips: %s.",
		key, conf, ctx.Description, strings.Join(tips, ", "),
	)
}

// TopicInstruction composes the system-level directive for a topic signal.
// An absent label yields a generic infer-from-message instruction. A
// missing confidence clamps to 0%.
func TopicInstruction(label string, confidence float64) string {
	if label == "" {
		return "No topic detected; infer topic from user message and keep explanations general."
	}

	pct := int(math.Round(math.Max(confidence, 0) * 100))
	return fmt.Sprintf(
		"Detected user topic intent: %s (confidence %d%%). "+
			"Tailor the explanation using this topic and provide relevant, grade-appropriate examples.",
		label, pct,
	)
}

// Params describes a chat payload to assemble.
type Params struct {
	IncludeEmotion bool
	Emotion        Signal
	IncludeTopic   bool
	Topic          Signal
	History        []Message
	UserMessage    string
}

// Build assembles the full upstream message list: the persona, then the
// emotion instruction, then the topic instruction (emotion always precedes
// topic), then prior history, then the new user message. History roles
// other than user/assistant/system are coerced to user.
func Build(p Params) []Message {
	msgs := make([]Message, 0, len(p.History)+4)
	msgs = append(msgs, Message{Role: "system", Content: Persona})

	if p.IncludeEmotion {
		msgs = append(msgs, Message{
			Role:    "system",
			Content: emotionPreamble + EmotionInstruction(p.Emotion.Label, p.Emotion.Confidence),
		})
	}

	if p.IncludeTopic {
		msgs = append(msgs, Message{
			Role:    "system",
			Content: TopicInstruction(p.Topic.Label, p.Topic.Confidence),
		})
	}

	for _, m := range p.History {
		role := m.Role
		switch role {
		case "user", "assistant", "system":
		default:
			role = "user"
		}
		msgs = append(msgs, Message{Role: role, Content: m.Content})
	}

	msgs = append(msgs, Message{Role: "user", Content: p.UserMessage})
	return msgs
}
