package generation

import (
	"fmt"
	"strings"

	"github.com/brightpath-ed/tutoring-service/internal/models"
)

// historyWindow bounds how many recent turns are replayed into the prompt.
const historyWindow = 6

// BuildSystemContext renders the tutor persona with the student's profile
// baked in so the remote model personalizes without per-turn instruction.
func BuildSystemContext(req *Request) string {
	var b strings.Builder
	b.WriteString("You are a patient, encouraging personal tutor for school students. ")
	b.WriteString("Keep answers concise, age appropriate and focused on the current topic. ")
	b.WriteString("Ask one guiding question at the end of each reply.\n\n")

	if p := req.Profile; p != nil {
		fmt.Fprintf(&b, "Student: %s, grade %d", p.FullName, p.Grade)
		if p.Board != "" {
			fmt.Fprintf(&b, ", %s board", p.Board)
		}
		if p.Country != "" {
			fmt.Fprintf(&b, ", %s", p.Country)
		}
		b.WriteString(".\n")
		fmt.Fprintf(&b, "Learning pace: %s.\n", p.LearningPace)
		if level, ok := p.KnowledgeLevels.Data()[req.Subject]; ok {
			fmt.Fprintf(&b, "Estimated mastery of %s: %d/100.\n", req.Subject, level.Level)
		}
	}

	fmt.Fprintf(&b, "Subject: %s. Topic: %s. Difficulty: %s. Session phase: %s.", req.Subject, req.Topic, req.Difficulty, req.Phase)
	return b.String()
}

// BuildPrompt renders the user-facing prompt for a request, replaying a short
// window of conversation for continuity.
func BuildPrompt(req *Request) string {
	var b strings.Builder

	if req.Kind == KindLesson {
		fmt.Fprintf(&b, "Open a tutoring session on %q in %s at %s difficulty. ", req.Topic, req.Subject, req.Difficulty)
		b.WriteString("Greet the student by name, give a short motivating introduction to the topic, and ask what they already know about it.")
		return b.String()
	}

	history := req.History
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}
	if len(history) > 0 {
		b.WriteString("Recent conversation:\n")
		for _, turn := range history {
			role := "Student"
			if turn.Role == models.TurnRoleTutor {
				role = "Tutor"
			}
			fmt.Fprintf(&b, "%s: %s\n", role, turn.Content)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Student: %s\n\nReply as the tutor at %s difficulty.", req.LatestMessage, req.Difficulty)
	return b.String()
}
