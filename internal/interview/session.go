package interview

import (
	"time"

	"github.com/spigell/interview-trainer/internal/model"
	"github.com/spigell/interview-trainer/internal/summary"
)

// Phase is the lifecycle position of a session.
type Phase string

const (
	PhaseNotStarted Phase = "not-started"
	PhaseReady      Phase = "ready-to-start"
	PhaseInProgress Phase = "in-progress"
	PhaseCompleted  Phase = "completed"
)

// Session is the persisted interview state. Only Machine mutates it.
type Session struct {
	ID                      string           `json:"id,omitempty"`
	Candidate               *model.Candidate `json:"candidate,omitempty"`
	Phase                   Phase            `json:"phase"`
	Questions               []model.Question `json:"questions,omitempty"`
	CurrentIndex            int              `json:"currentIndex"`
	Answers                 []model.Answer   `json:"answers,omitempty"`
	StartedAt               time.Time        `json:"startedAt,omitempty"`
	LastActivity            time.Time        `json:"lastActivity,omitempty"`
	WelcomeBackAcknowledged bool             `json:"welcomeBackAcknowledged"`
	Summary                 *summary.Summary `json:"summary,omitempty"`
}

// Token identifies the question a submission is meant for.
type Token struct {
	SessionID string
	Index     int
}

// Interrupted reports an in-progress session that was left with unanswered
// questions and whose resume prompt has not been acknowledged yet.
func Interrupted(s Session) bool {
	return s.Candidate != nil &&
		s.Phase == PhaseInProgress &&
		len(s.Questions) > 0 &&
		len(s.Answers) < len(s.Questions) &&
		!s.WelcomeBackAcknowledged
}

func (s Session) clone() Session {
	out := s
	if s.Candidate != nil {
		c := s.Candidate.Clone()
		out.Candidate = &c
	}
	out.Questions = append([]model.Question(nil), s.Questions...)
	out.Answers = append([]model.Answer(nil), s.Answers...)
	if s.Summary != nil {
		sum := *s.Summary
		out.Summary = &sum
	}
	return out
}

// consistent checks the invariants a loaded snapshot must satisfy.
func (s Session) consistent() bool {
	switch s.Phase {
	case PhaseNotStarted, PhaseReady:
		return true
	case PhaseInProgress:
		return len(s.Questions) > 0 &&
			len(s.Answers) < len(s.Questions) &&
			s.CurrentIndex == len(s.Answers)
	case PhaseCompleted:
		return len(s.Questions) > 0 &&
			len(s.Answers) == len(s.Questions) &&
			s.Summary != nil
	}
	return false
}
