// Package summary aggregates answered questions into a candidate verdict.
package summary

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/spigell/interview-trainer/internal/model"
)

const (
	LevelExceptional      = "Exceptional"
	LevelStrong           = "Strong"
	LevelCompetent        = "Competent"
	LevelNeedsDevelopment = "Needs Development"

	strengthThreshold    = 7.0
	improvementThreshold = 5.0
)

var (
	fallbackStrengths    = []string{"Problem-solving", "Communication"}
	fallbackImprovements = []string{"Technical depth"}
)

// Bucket is the score total for one group of answers.
type Bucket struct {
	Count   int     `json:"count"`
	Total   int     `json:"total"`
	Average float64 `json:"average"`
}

type Summary struct {
	FinalScore       float64                      `json:"finalScore"`
	PerformanceLevel string                       `json:"performanceLevel"`
	Narrative        string                       `json:"narrative"`
	Strengths        []string                     `json:"strengths"`
	Improvements     []string                     `json:"improvements"`
	TotalQuestions   int                          `json:"totalQuestions"`
	ByDifficulty     map[model.Difficulty]*Bucket `json:"byDifficulty"`
	ByCategory       map[string]*Bucket           `json:"byCategory"`
	CompletedAt      time.Time                    `json:"completedAt"`
}

// Summarize computes the final score, tier, narrative and category verdicts.
func Summarize(candidate model.Candidate, answers []model.Answer, questions []model.Question, now time.Time) Summary {
	byID := make(map[int]model.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	s := Summary{
		TotalQuestions: len(questions),
		ByDifficulty:   make(map[model.Difficulty]*Bucket),
		ByCategory:     make(map[string]*Bucket),
		CompletedAt:    now,
	}

	var categories []string
	total := 0
	for _, a := range answers {
		total += a.Score

		category, difficulty := a.Category, a.Difficulty
		if q, ok := byID[a.QuestionID]; ok {
			category, difficulty = q.Category, q.Difficulty
		}

		if category != "" {
			if _, ok := s.ByCategory[category]; !ok {
				s.ByCategory[category] = &Bucket{}
				categories = append(categories, category)
			}
			s.ByCategory[category].add(a.Score)
		}

		if _, ok := s.ByDifficulty[difficulty]; !ok {
			s.ByDifficulty[difficulty] = &Bucket{}
		}
		s.ByDifficulty[difficulty].add(a.Score)
	}

	if len(answers) > 0 {
		s.FinalScore = round1(float64(total) / float64(len(answers)))
	}

	for _, c := range categories {
		avg := s.ByCategory[c].mean()
		switch {
		case avg >= strengthThreshold:
			s.Strengths = append(s.Strengths, c)
		case avg <= improvementThreshold:
			s.Improvements = append(s.Improvements, c)
		}
	}

	s.PerformanceLevel = Level(s.FinalScore)
	s.Narrative = narrative(candidate.Name, s.PerformanceLevel, s.FinalScore, s.Strengths, s.Improvements)

	if len(s.Strengths) == 0 {
		s.Strengths = append([]string(nil), fallbackStrengths...)
	}
	if len(s.Improvements) == 0 {
		s.Improvements = append([]string(nil), fallbackImprovements...)
	}

	return s
}

// Level maps a final score to its performance tier.
func Level(score float64) string {
	switch {
	case score >= 8.5:
		return LevelExceptional
	case score >= 7.0:
		return LevelStrong
	case score >= 5.5:
		return LevelCompetent
	default:
		return LevelNeedsDevelopment
	}
}

func (b *Bucket) add(score int) {
	b.Count++
	b.Total += score
	b.Average = round1(float64(b.Total) / float64(b.Count))
}

// mean is the unrounded average; thresholds compare against it.
func (b *Bucket) mean() float64 {
	if b.Count == 0 {
		return 0
	}
	return float64(b.Total) / float64(b.Count)
}

func narrative(name, level string, score float64, strengths, improvements []string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "The candidate"
	}

	switch level {
	case LevelExceptional:
		return fmt.Sprintf(
			"%s demonstrated exceptional technical skills with an overall score of %.1f/10. Shows strong expertise in %s and excellent problem-solving abilities. Highly recommended for senior-level positions.",
			name, score, listOr(strengths, "core concepts"))
	case LevelStrong:
		return fmt.Sprintf(
			"%s showed strong technical competency with a score of %.1f/10. Performs well in %s. Some growth opportunities in %s. Good fit for mid to senior-level roles.",
			name, score, listOr(strengths, "key areas"), listOr(improvements, "advanced topics"))
	case LevelCompetent:
		return fmt.Sprintf(
			"%s has competent technical skills with a score of %.1f/10. Shows potential but would benefit from additional training in %s. Suitable for junior to mid-level positions with mentorship.",
			name, score, listOr(improvements, "key areas"))
	default:
		return fmt.Sprintf(
			"%s needs further development with a score of %.1f/10. Requires significant improvement in %s. Consider for entry-level positions with a comprehensive training program.",
			name, score, listOr(improvements, "core programming concepts"))
	}
}

// listOr joins up to two names, or returns def when there are none.
func listOr(names []string, def string) string {
	if len(names) == 0 {
		return def
	}
	if len(names) > 2 {
		names = names[:2]
	}
	return strings.Join(names, " and ")
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
