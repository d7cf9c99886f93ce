// Package interview owns the interview session lifecycle: start, timed
// answers, completion and recovery after an interrupted run.
package interview

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/interview-trainer/internal/logger"
	"github.com/spigell/interview-trainer/internal/model"
	"github.com/spigell/interview-trainer/internal/scoring"
	"github.com/spigell/interview-trainer/internal/storage"
	"github.com/spigell/interview-trainer/internal/summary"
)

var (
	ErrNoCandidate       = errors.New("candidate is required")
	ErrNoQuestions       = errors.New("at least one question is required")
	ErrDuplicateQuestion = errors.New("question ids must be unique")
)

// Scorer rates one answer.
type Scorer func(q model.Question, text string, elapsed float64) scoring.Evaluation

// Outcome describes what a submission did.
type Outcome struct {
	// Accepted is false when the submission lost the race or targeted a stale question.
	Accepted  bool
	Answer    model.Answer
	Completed bool
	Summary   *summary.Summary
	Candidate *model.Candidate
}

// Machine is the single source of truth for the current question. All methods
// are safe for concurrent use; the countdown and the input loop both submit.
type Machine struct {
	mu     sync.Mutex
	repo   Repository
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
	score  Scorer

	session             Session
	interruptionChecked bool
	resumePrompt        bool
}

type Option func(*Machine)

func WithClock(now func() time.Time) Option {
	return func(m *Machine) { m.now = now }
}

func WithIDs(newID func() string) Option {
	return func(m *Machine) { m.newID = newID }
}

func WithScorer(s Scorer) Option {
	return func(m *Machine) { m.score = s }
}

// New restores the persisted session. Missing, corrupt or inconsistent
// snapshots start from an empty session.
func New(ctx context.Context, repo Repository, log *zap.Logger, opts ...Option) *Machine {
	m := &Machine{
		repo:   repo,
		logger: logger.WithFields(log, zap.String("component", "interview")),
		now:    time.Now,
		newID:  uuid.NewString,
		score:  scoring.Score,
	}
	for _, opt := range opts {
		opt(m)
	}

	m.session = Session{Phase: PhaseNotStarted}
	if repo == nil {
		return m
	}

	loaded, err := repo.Load(ctx)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		m.logger.Debug("no saved interview session")
	case err != nil:
		m.logger.Warn("saved interview session is unreadable, starting fresh", zap.Error(err))
	case !loaded.consistent():
		m.logger.Warn("saved interview session is inconsistent, starting fresh",
			zap.String("phase", string(loaded.Phase)),
			zap.Int("questions", len(loaded.Questions)),
			zap.Int("answers", len(loaded.Answers)),
		)
	default:
		m.session = loaded
	}

	return m
}

// Prepare attaches a candidate and discards any previous session.
func (m *Machine) Prepare(ctx context.Context, c model.Candidate) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c = c.Clone()
	m.session = Session{
		Candidate:    &c,
		Phase:        PhaseReady,
		LastActivity: m.now(),
	}
	m.resumePrompt = false
	m.save(ctx)
}

// Start begins a session with the given questions. Precondition failures
// leave the machine untouched.
func (m *Machine) Start(ctx context.Context, c *model.Candidate, questions []model.Question) error {
	if c == nil {
		return ErrNoCandidate
	}
	if len(questions) == 0 {
		return ErrNoQuestions
	}
	seen := make(map[int]struct{}, len(questions))
	for _, q := range questions {
		if _, dup := seen[q.ID]; dup {
			return ErrDuplicateQuestion
		}
		seen[q.ID] = struct{}{}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	candidate := c.Clone()
	candidate.Status = model.StatusInProgress
	candidate.UpdatedAt = now

	m.session = Session{
		ID:                      m.newID(),
		Candidate:               &candidate,
		Phase:                   PhaseInProgress,
		Questions:               append([]model.Question(nil), questions...),
		StartedAt:               now,
		LastActivity:            now,
		WelcomeBackAcknowledged: false,
	}
	m.resumePrompt = false

	m.logger.Info("interview started",
		append(logger.CandidateFields(candidate.ID, candidate.Name, m.session.ID),
			zap.Int("questions", len(questions)))...,
	)
	m.save(ctx)
	return nil
}

// Current returns the question awaiting an answer and the token to submit it with.
func (m *Machine) Current() (model.Question, Token, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session.Phase != PhaseInProgress || m.session.CurrentIndex >= len(m.session.Questions) {
		return model.Question{}, Token{}, false
	}
	return m.session.Questions[m.session.CurrentIndex], m.token(), true
}

// Submit records the answer for the question identified by tok. Stale tokens,
// repeated submissions and submissions outside an active session are dropped.
func (m *Machine) Submit(ctx context.Context, tok Token, text string, elapsed float64) Outcome {
	return m.submit(ctx, tok, text, elapsed, false)
}

// Expire records an empty answer that used the whole time limit.
func (m *Machine) Expire(ctx context.Context, tok Token) Outcome {
	m.mu.Lock()
	limit := 0
	if m.session.Phase == PhaseInProgress && tok == m.token() && m.session.CurrentIndex < len(m.session.Questions) {
		limit = m.session.Questions[m.session.CurrentIndex].TimeLimit
	}
	m.mu.Unlock()

	return m.submit(ctx, tok, "", float64(limit), true)
}

func (m *Machine) submit(ctx context.Context, tok Token, text string, elapsed float64, expired bool) Outcome {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := &m.session
	if s.Phase != PhaseInProgress || s.CurrentIndex >= len(s.Questions) || tok != m.token() {
		m.logger.Debug("dropping stale submission",
			zap.Int("token_index", tok.Index),
			zap.Int("current_index", s.CurrentIndex),
			zap.Bool("expired", expired),
		)
		return Outcome{}
	}

	if math.IsNaN(elapsed) || elapsed < 0 {
		elapsed = 0
	}

	q := s.Questions[s.CurrentIndex]
	eval := m.score(q, text, elapsed)
	now := m.now()

	answer := model.Answer{
		ID:          m.newID(),
		QuestionID:  q.ID,
		Text:        text,
		Difficulty:  q.Difficulty,
		Category:    q.Category,
		TimeLimit:   q.TimeLimit,
		TimeTaken:   elapsed,
		Score:       eval.Score,
		Feedback:    eval.Feedback,
		Breakdown:   eval.Breakdown,
		Expired:     expired,
		SubmittedAt: now,
	}

	s.Answers = append(s.Answers, answer)
	s.CurrentIndex++
	s.LastActivity = now

	out := Outcome{Accepted: true, Answer: answer}
	if len(s.Answers) == len(s.Questions) {
		m.complete(now)
		sum := *s.Summary
		c := s.Candidate.Clone()
		out.Completed = true
		out.Summary = &sum
		out.Candidate = &c
	}

	m.save(ctx)
	return out
}

// complete must be called with the lock held.
func (m *Machine) complete(now time.Time) {
	s := &m.session

	var candidate model.Candidate
	if s.Candidate != nil {
		candidate = *s.Candidate
	}

	sum := summary.Summarize(candidate, s.Answers, s.Questions, now)
	score := sum.FinalScore

	candidate.Status = model.StatusCompleted
	candidate.Score = &score
	candidate.Summary = sum.Narrative
	candidate.PerformanceLevel = sum.PerformanceLevel
	candidate.Strengths = append([]string(nil), sum.Strengths...)
	candidate.Improvements = append([]string(nil), sum.Improvements...)
	candidate.Interview = &model.InterviewRecord{
		Questions:   append([]model.Question(nil), s.Questions...),
		Answers:     append([]model.Answer(nil), s.Answers...),
		StartedAt:   s.StartedAt,
		CompletedAt: now,
	}
	candidate.UpdatedAt = now

	s.Candidate = &candidate
	s.Summary = &sum
	s.Phase = PhaseCompleted

	m.logger.Info("interview completed",
		append(logger.CandidateFields(candidate.ID, candidate.Name, s.ID),
			zap.Float64("final_score", sum.FinalScore),
			zap.String("performance_level", sum.PerformanceLevel))...,
	)
}

// DetectInterruption evaluates the interruption predicate once per load.
// Later calls return false.
func (m *Machine) DetectInterruption() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.interruptionChecked {
		return false
	}
	m.interruptionChecked = true

	if !Interrupted(m.session) {
		return false
	}
	m.resumePrompt = true
	return true
}

// ResumePromptVisible reports whether the resume-or-restart decision is pending.
// The flag is never persisted.
func (m *Machine) ResumePromptVisible() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resumePrompt
}

// Resume acknowledges the interruption and keeps answers and position.
func (m *Machine) Resume(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.resumePrompt = false
	if m.session.Phase != PhaseInProgress {
		return
	}
	m.session.WelcomeBackAcknowledged = true
	m.session.LastActivity = m.now()
	m.save(ctx)
}

// Restart discards the session. The candidate stays attached for a fresh start.
func (m *Machine) Restart(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var candidate *model.Candidate
	if m.session.Candidate != nil {
		c := m.session.Candidate.Clone()
		c.Status = model.StatusPending
		c.UpdatedAt = m.now()
		candidate = &c
	}

	m.session = Session{
		Candidate:    candidate,
		Phase:        PhaseNotStarted,
		LastActivity: m.now(),
	}
	m.resumePrompt = false
	m.save(ctx)
}

// Session returns a copy of the current session.
func (m *Machine) Session() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session.clone()
}

// token must be called with the lock held.
func (m *Machine) token() Token {
	return Token{SessionID: m.session.ID, Index: m.session.CurrentIndex}
}

// save must be called with the lock held. Failures are logged, never returned.
func (m *Machine) save(ctx context.Context) {
	if m.repo == nil {
		return
	}
	if err := m.repo.Save(ctx, m.session); err != nil {
		m.logger.Warn("saving interview session failed", zap.Error(err))
	}
}
