package model

import "time"

// Difficulty is the tier a question is drawn from.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Difficulties lists the tiers in presentation order.
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

// Valid reports whether d is one of the known tiers.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Status is the lifecycle of a candidate record.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

type Question struct {
	ID         int        `json:"id" yaml:"id"`
	Text       string     `json:"text" yaml:"text"`
	Difficulty Difficulty `json:"difficulty" yaml:"difficulty"`
	// TimeLimit is expressed in seconds.
	TimeLimit int    `json:"timeLimit" yaml:"time-limit"`
	Category  string `json:"category" yaml:"category"`
	Type      string `json:"type" yaml:"type"`
	Order     int    `json:"order,omitempty" yaml:"-"`
}

// Breakdown holds the weighted sub-scores behind an answer score.
type Breakdown struct {
	Content      float64 `json:"content"`
	Structure    float64 `json:"structure"`
	Keywords     float64 `json:"keywords"`
	Time         float64 `json:"time"`
	Completeness float64 `json:"completeness"`
}

// Answer is recorded exactly once per question and never mutated afterwards.
type Answer struct {
	ID          string     `json:"id"`
	QuestionID  int        `json:"questionId"`
	Text        string     `json:"text"`
	Difficulty  Difficulty `json:"difficulty"`
	Category    string     `json:"category"`
	TimeLimit   int        `json:"timeLimit"`
	TimeTaken   float64    `json:"timeTaken"`
	Score       int        `json:"score"`
	Feedback    string     `json:"feedback"`
	Breakdown   Breakdown  `json:"breakdown"`
	Expired     bool       `json:"expired,omitempty"`
	SubmittedAt time.Time  `json:"submittedAt"`
}

// InterviewRecord is the finished interview copied onto the candidate.
type InterviewRecord struct {
	Questions   []Question `json:"questions"`
	Answers     []Answer   `json:"answers"`
	StartedAt   time.Time  `json:"startedAt"`
	CompletedAt time.Time  `json:"completedAt"`
}

type Candidate struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	Email            string           `json:"email"`
	Phone            string           `json:"phone"`
	Skills           []string         `json:"skills,omitempty"`
	ResumeFile       string           `json:"resumeFile,omitempty"`
	Status           Status           `json:"status"`
	Score            *float64         `json:"score,omitempty"`
	Summary          string           `json:"summary,omitempty"`
	PerformanceLevel string           `json:"performanceLevel,omitempty"`
	Strengths        []string         `json:"strengths,omitempty"`
	Improvements     []string         `json:"improvements,omitempty"`
	Interview        *InterviewRecord `json:"interview,omitempty"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

// Clone returns a deep copy so callers can mutate it without touching shared state.
func (c Candidate) Clone() Candidate {
	out := c
	out.Skills = append([]string(nil), c.Skills...)
	out.Strengths = append([]string(nil), c.Strengths...)
	out.Improvements = append([]string(nil), c.Improvements...)
	if c.Score != nil {
		score := *c.Score
		out.Score = &score
	}
	if c.Interview != nil {
		rec := *c.Interview
		rec.Questions = append([]Question(nil), c.Interview.Questions...)
		rec.Answers = append([]Answer(nil), c.Interview.Answers...)
		out.Interview = &rec
	}
	return out
}
