// Package scoring rates a free-text interview answer with a deterministic heuristic.
package scoring

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/spigell/interview-trainer/internal/model"
)

const (
	MinScore = 1
	MaxScore = 10

	weightContent      = 0.4
	weightStructure    = 0.2
	weightKeywords     = 0.2
	weightTime         = 0.1
	weightCompleteness = 0.1
)

var sentenceSplit = regexp.MustCompile(`[.!?]+`)

// Evaluation is the scorer output for one answer.
type Evaluation struct {
	Score     int
	Feedback  string
	Breakdown model.Breakdown
}

// Score combines five sub-scores into a final 1..10 score with feedback.
// It is total: any text and any elapsed time produce a valid evaluation.
func Score(q model.Question, answer string, timeTaken float64) Evaluation {
	if math.IsNaN(timeTaken) || timeTaken < 0 {
		timeTaken = 0
	}

	trimmed := strings.TrimSpace(answer)
	lower := strings.ToLower(trimmed)

	b := model.Breakdown{
		Content:      contentScore(trimmed),
		Structure:    structureScore(trimmed),
		Keywords:     keywordScore(q.Category, lower),
		Time:         timeScore(timeTaken, q.TimeLimit),
		Completeness: completenessScore(trimmed),
	}

	weighted := b.Content*weightContent +
		b.Structure*weightStructure +
		b.Keywords*weightKeywords +
		b.Time*weightTime +
		b.Completeness*weightCompleteness

	score := int(math.Round(weighted))
	score = max(MinScore, min(MaxScore, score))

	return Evaluation{
		Score:     score,
		Feedback:  Feedback(score, timeTaken, q.TimeLimit),
		Breakdown: b,
	}
}

func contentScore(text string) float64 {
	length := utf8.RuneCountInString(text)

	var score float64
	switch {
	case length < 20:
		score = 3
	case length < 50:
		score = 5
	case length < 100:
		score = 7
	default:
		score = 9
	}

	for _, marker := range codeMarkers {
		if strings.Contains(text, marker) {
			score++
			break
		}
	}

	return math.Min(score, MaxScore)
}

func structureScore(text string) float64 {
	segments := 0
	for _, s := range sentenceSplit.Split(text, -1) {
		if strings.TrimSpace(s) != "" {
			segments++
		}
	}

	hasBullets := false
	for _, marker := range bulletMarkers {
		if strings.Contains(text, marker) {
			hasBullets = true
			break
		}
	}

	switch {
	case segments >= 2 && hasBullets:
		return 9
	case segments >= 2:
		return 7
	default:
		return 5
	}
}

func keywordScore(category, lower string) float64 {
	score := 5.0
	for _, kw := range categoryKeywords[category] {
		if strings.Contains(lower, kw) {
			score += 0.5
		}
	}
	for _, kw := range genericKeywords {
		if strings.Contains(lower, kw) {
			score += 0.2
		}
	}
	return math.Min(score, MaxScore)
}

func timeScore(taken float64, limit int) float64 {
	if limit <= 0 {
		return 5
	}

	pct := taken / float64(limit) * 100
	switch {
	case pct < 33:
		return 9
	case pct < 66:
		return 7
	case pct < 90:
		return 5
	case pct <= 100:
		return 3
	default:
		return 1
	}
}

func completenessScore(text string) float64 {
	length := utf8.RuneCountInString(text)
	switch {
	case length == 0:
		return 1
	case length < 10:
		return 3
	case length < 30:
		return 5
	case length < 80:
		return 7
	default:
		return 9
	}
}

// Feedback renders the band sentence followed by the time-management clause.
func Feedback(score int, timeTaken float64, limit int) string {
	var band string
	switch {
	case score >= 9:
		band = "Excellent answer! Comprehensive, well-structured, and demonstrates deep understanding."
	case score >= 7:
		band = "Good answer covering key concepts. Could benefit from more examples or deeper explanation."
	case score >= 5:
		band = "Adequate answer but lacks depth. Consider expanding on the main points with practical examples."
	default:
		band = "Answer needs significant improvement. Focus on understanding core concepts and providing more detailed explanations."
	}

	diff := int(math.Round(timeTaken - float64(limit)))
	if diff > 0 {
		return fmt.Sprintf("%s Time management: Exceeded time limit by %ds.", band, diff)
	}
	return fmt.Sprintf("%s Time management: Completed with %ds remaining.", band, -diff)
}
