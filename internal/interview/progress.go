package interview

import (
	"math"
	"time"

	"github.com/spigell/interview-trainer/internal/model"
)

// Progress is a read-only view of how far the session has got.
type Progress struct {
	Answered     int
	Total        int
	Percent      int
	CurrentIndex int
	IsLast       bool
	IsCompleted  bool
	AverageScore float64
	ByDifficulty map[model.Difficulty]int
	Elapsed      time.Duration
}

func (m *Machine) Progress() Progress {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.session
	p := Progress{
		Answered:     len(s.Answers),
		Total:        len(s.Questions),
		CurrentIndex: s.CurrentIndex,
		IsCompleted:  s.Phase == PhaseCompleted,
		ByDifficulty: make(map[model.Difficulty]int),
	}
	if p.Total > 0 {
		p.Percent = int(math.Round(float64(p.Answered) / float64(p.Total) * 100))
		p.IsLast = s.Phase == PhaseInProgress && s.CurrentIndex == p.Total-1
	}

	total := 0
	for _, a := range s.Answers {
		total += a.Score
		p.ByDifficulty[a.Difficulty]++
	}
	if p.Answered > 0 {
		p.AverageScore = math.Round(float64(total)/float64(p.Answered)*10) / 10
	}

	if !s.StartedAt.IsZero() {
		end := m.now()
		if s.Summary != nil && !s.Summary.CompletedAt.IsZero() {
			end = s.Summary.CompletedAt
		}
		p.Elapsed = end.Sub(s.StartedAt)
	}
	return p
}
