package generation

import (
	"context"
	"fmt"
	"strings"

	"github.com/brightpath-ed/tutoring-service/internal/adaptive"
)

// Intent is the classified purpose of a student message. The template tier
// keys its canned responses on it.
type Intent string

const (
	IntentExplanation  Intent = "explanation"
	IntentExample      Intent = "example"
	IntentPractice     Intent = "practice"
	IntentHelp         Intent = "help"
	IntentContinuation Intent = "continuation"
	IntentGeneric      Intent = "generic"
)

// intentKeywords is checked in order; the first group with a match wins.
var intentKeywords = []struct {
	intent   Intent
	keywords []string
}{
	{IntentExplanation, []string{"explain", "what is", "what are", "why", "how does", "meaning", "define"}},
	{IntentExample, []string{"example", "show me", "instance", "demonstrate", "for instance"}},
	{IntentPractice, []string{"practice", "question", "quiz", "test me", "problem", "exercise"}},
	{IntentHelp, []string{"help", "stuck", "confused", "don't understand", "dont understand", "difficult", "hard"}},
	{IntentContinuation, []string{"next", "continue", "more", "go on", "what else", "keep going"}},
}

// ClassifyIntent buckets a student message by keyword match. An empty or
// unmatched message classifies as generic.
func ClassifyIntent(message string) Intent {
	normalized := strings.ToLower(strings.TrimSpace(message))
	if normalized == "" {
		return IntentGeneric
	}
	for _, group := range intentKeywords {
		for _, kw := range group.keywords {
			if strings.Contains(normalized, kw) {
				return group.intent
			}
		}
	}
	return IntentGeneric
}

// TemplateGenerator is the second tier: deterministic, offline content built
// from the request context. Responses carry an offline notice so the student
// knows the AI tutor is degraded.
type TemplateGenerator struct{}

func NewTemplateGenerator() *TemplateGenerator {
	return &TemplateGenerator{}
}

const offlineNotice = "(Note: I'm currently working in offline mode with limited responses.)"

func (g *TemplateGenerator) Generate(_ context.Context, req *Request) (string, Intent) {
	if req.Kind == KindLesson {
		return g.lesson(req), IntentGeneric
	}

	intent := ClassifyIntent(req.LatestMessage)
	return g.reply(req, intent), intent
}

func (g *TemplateGenerator) lesson(req *Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Let's learn about %s in %s.\n\n", req.Topic, req.Subject)

	switch req.Difficulty {
	case adaptive.TierBasic:
		fmt.Fprintf(&b, "We'll start with the fundamentals of %s and build up step by step. ", req.Topic)
		b.WriteString("Don't worry if something feels unfamiliar, we'll take it slowly.\n")
	case adaptive.TierChallenging:
		fmt.Fprintf(&b, "You've been doing well, so we'll dig into the more advanced aspects of %s. ", req.Topic)
		b.WriteString("Expect some questions that stretch your understanding.\n")
	default:
		fmt.Fprintf(&b, "We'll cover the key ideas of %s with worked examples along the way.\n", req.Topic)
	}

	b.WriteString("\nWhen you're ready, tell me what you already know about this topic, or ask me to explain any part of it.\n\n")
	b.WriteString(offlineNotice)
	return b.String()
}

func (g *TemplateGenerator) reply(req *Request, intent Intent) string {
	topic := req.Topic
	if topic == "" {
		topic = req.Subject
	}

	var body string
	switch intent {
	case IntentExplanation:
		body = fmt.Sprintf("Good question about %s. The core idea is best understood by breaking it into smaller parts. Start with the definition in your course material, then try restating it in your own words. Which part would you like to go through first?", topic)
	case IntentExample:
		body = fmt.Sprintf("A worked example is a great way to understand %s. Take a simple case first: write down what is given, what is asked, and apply the main rule step by step. Try one and show me your working.", topic)
	case IntentPractice:
		body = practiceQuestion(topic, req.Difficulty)
	case IntentHelp:
		body = fmt.Sprintf("That's okay, %s can be tricky at first. Let's slow down: tell me the last step that made sense to you, and we'll pick up from there.", topic)
	case IntentContinuation:
		body = fmt.Sprintf("Let's move on with %s. Summarize what we've covered so far in a sentence or two, then we'll build on it.", topic)
	default:
		body = fmt.Sprintf("Let's keep working on %s. You can ask me to explain a concept, show an example, or give you a practice question.", topic)
	}

	return body + "\n\n" + offlineNotice
}

func practiceQuestion(topic string, tier adaptive.DifficultyTier) string {
	switch tier {
	case adaptive.TierBasic:
		return fmt.Sprintf("Here's a practice question on %s: state the main definition or rule in your own words, and give one simple case where it applies.", topic)
	case adaptive.TierChallenging:
		return fmt.Sprintf("Here's a harder one on %s: construct a case where the usual approach breaks down or needs care, and explain how you would handle it.", topic)
	default:
		return fmt.Sprintf("Here's a practice question on %s: apply the main concept to a typical problem from your coursework and walk me through each step.", topic)
	}
}

// StaticPlaceholder is the final tier. It always succeeds.
func StaticPlaceholder(req *Request) string {
	topic := req.Topic
	if topic == "" {
		topic = req.Subject
	}
	return fmt.Sprintf("I'm having trouble generating content right now. Please continue studying %s with your course materials, and try again in a few minutes.", topic)
}
