package models

import "time"

type SessionPhase string

const (
	PhaseIntroduction SessionPhase = "introduction"
	PhaseLearning     SessionPhase = "learning"
	PhasePractice     SessionPhase = "practice"
	PhaseAssessment   SessionPhase = "assessment"
)

type TurnRole string

const (
	TurnRoleTutor   TurnRole = "tutor"
	TurnRoleStudent TurnRole = "student"
)

type SessionTurn struct {
	Role      TurnRole  `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// LearningState is the conversational state carried across turns of one
// tutoring session.
type LearningState struct {
	CurrentPhase        SessionPhase `json:"current_phase"`
	TopicSections       []string     `json:"topic_sections"`
	CurrentSectionIndex int          `json:"current_section_index"`
	QuestionsAsked      int          `json:"questions_asked"`
	CorrectAnswers      int          `json:"correct_answers"`
	UnderstandingLevel  int          `json:"understanding_level"` // 0-10

	// PendingQuestion is set while a practice question is waiting for the
	// student's answer; the next reply settles it.
	PendingQuestion bool `json:"pending_question"`
}

// TutorSession is ephemeral conversational state. It lives in the session
// store for the duration of the exchange and is discarded on close; its
// salient facts are projected into ProgressEvents, which are the system of
// record.
type TutorSession struct {
	ID        string        `json:"id"`
	StudentID string        `json:"student_id"`
	Subject   string        `json:"subject"`
	Topic     string        `json:"topic"`
	Turns     []SessionTurn `json:"turns"`
	State     LearningState `json:"state"`
	StartedAt time.Time     `json:"started_at"`
}

// StudentTurns counts the turns contributed by the student.
func (s *TutorSession) StudentTurns() int {
	n := 0
	for _, t := range s.Turns {
		if t.Role == TurnRoleStudent {
			n++
		}
	}
	return n
}
