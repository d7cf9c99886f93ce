package summary

import (
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/spigell/interview-trainer/internal/model"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func sampleQuestions() []model.Question {
	return []model.Question{
		{ID: 1, Category: "React Basics", Difficulty: model.DifficultyEasy, TimeLimit: 20},
		{ID: 2, Category: "React Basics", Difficulty: model.DifficultyEasy, TimeLimit: 20},
		{ID: 3, Category: "Database", Difficulty: model.DifficultyMedium, TimeLimit: 60},
		{ID: 4, Category: "Database", Difficulty: model.DifficultyMedium, TimeLimit: 60},
	}
}

func answersWith(scores ...int) []model.Answer {
	out := make([]model.Answer, len(scores))
	for i, s := range scores {
		out[i] = model.Answer{QuestionID: i + 1, Score: s}
	}
	return out
}

func TestSummarizeCategories(t *testing.T) {
	candidate := model.Candidate{Name: "Jane Doe"}
	got := Summarize(candidate, answersWith(9, 9, 3, 3), sampleQuestions(), fixedNow)

	if got.FinalScore != 6 {
		t.Fatalf("expected final score 6, got %v", got.FinalScore)
	}
	if len(got.Strengths) != 1 || got.Strengths[0] != "React Basics" {
		t.Fatalf("unexpected strengths: %v", got.Strengths)
	}
	if len(got.Improvements) != 1 || got.Improvements[0] != "Database" {
		t.Fatalf("unexpected improvements: %v", got.Improvements)
	}
	if got.PerformanceLevel != LevelCompetent {
		t.Fatalf("expected Competent, got %s", got.PerformanceLevel)
	}
	if !strings.HasPrefix(got.Narrative, "Jane Doe has competent technical skills") || !strings.Contains(got.Narrative, "Database") {
		t.Fatalf("unexpected narrative: %q", got.Narrative)
	}
	if got.ByDifficulty[model.DifficultyEasy].Average != 9 || got.ByDifficulty[model.DifficultyMedium].Count != 2 {
		t.Fatalf("unexpected difficulty breakdown: %+v", got.ByDifficulty)
	}
	if got.TotalQuestions != 4 || !got.CompletedAt.Equal(fixedNow) {
		t.Fatalf("unexpected totals: %+v", got)
	}
}

func TestSummarizeFallbacks(t *testing.T) {
	// every category lands strictly between the thresholds
	got := Summarize(model.Candidate{Name: "Sam Lee"}, answersWith(6, 6, 6, 6), sampleQuestions(), fixedNow)

	if strings.Join(got.Strengths, ",") != "Problem-solving,Communication" {
		t.Fatalf("unexpected fallback strengths: %v", got.Strengths)
	}
	if strings.Join(got.Improvements, ",") != "Technical depth" {
		t.Fatalf("unexpected fallback improvements: %v", got.Improvements)
	}
	if !strings.Contains(got.Narrative, "additional training in key areas") {
		t.Fatalf("narrative should use the default phrase: %q", got.Narrative)
	}
}

func TestLevel(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{score: 10, want: LevelExceptional},
		{score: 8.5, want: LevelExceptional},
		{score: 8.4, want: LevelStrong},
		{score: 7.0, want: LevelStrong},
		{score: 6.9, want: LevelCompetent},
		{score: 5.5, want: LevelCompetent},
		{score: 5.4, want: LevelNeedsDevelopment},
		{score: 0, want: LevelNeedsDevelopment},
	}

	for _, tt := range tests {
		if got := Level(tt.score); got != tt.want {
			t.Fatalf("Level(%v) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestSummarizeRoundsToOneDecimal(t *testing.T) {
	got := Summarize(model.Candidate{Name: "A B"}, answersWith(9, 8, 8), sampleQuestions(), fixedNow)
	if got.FinalScore != 8.3 {
		t.Fatalf("expected 8.3, got %v", got.FinalScore)
	}
	if got.PerformanceLevel != LevelStrong {
		t.Fatalf("expected Strong, got %s", got.PerformanceLevel)
	}
}

func TestSummarizeNoAnswers(t *testing.T) {
	got := Summarize(model.Candidate{}, nil, nil, fixedNow)
	if got.FinalScore != 0 || got.PerformanceLevel != LevelNeedsDevelopment {
		t.Fatalf("unexpected empty summary: %+v", got)
	}
	if !strings.HasPrefix(got.Narrative, "The candidate needs further development") {
		t.Fatalf("unexpected narrative: %q", got.Narrative)
	}
}

func TestSummarizeThresholdsUseUnroundedMean(t *testing.T) {
	tests := map[string]struct {
		scores          []int
		wantStrength    bool
		wantImprovement bool
	}{
		"just below strength":    {scores: append(repeatScore(7, 19), 6), wantStrength: false},
		"exactly strength":       {scores: repeatScore(7, 20), wantStrength: true},
		"just above improvement": {scores: append(repeatScore(5, 24), 6), wantImprovement: false},
		"exactly improvement":    {scores: repeatScore(5, 20), wantImprovement: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			qs := make([]model.Question, len(tt.scores))
			for i := range qs {
				qs[i] = model.Question{ID: i + 1, Category: "Go", Difficulty: model.DifficultyMedium, TimeLimit: 60}
			}

			got := Summarize(model.Candidate{}, answersWith(tt.scores...), qs, fixedNow)

			if has := slices.Contains(got.Strengths, "Go"); has != tt.wantStrength {
				t.Fatalf("strengths = %v, want Go listed: %v", got.Strengths, tt.wantStrength)
			}
			if has := slices.Contains(got.Improvements, "Go"); has != tt.wantImprovement {
				t.Fatalf("improvements = %v, want Go listed: %v", got.Improvements, tt.wantImprovement)
			}
		})
	}
}

func TestSummarizeSkipsUncategorisedAnswers(t *testing.T) {
	qs := []model.Question{
		{ID: 1, Category: "", Difficulty: model.DifficultyEasy, TimeLimit: 20},
		{ID: 2, Category: "", Difficulty: model.DifficultyEasy, TimeLimit: 20},
		{ID: 3, Category: "SQL", Difficulty: model.DifficultyHard, TimeLimit: 120},
	}

	got := Summarize(model.Candidate{}, answersWith(9, 9, 2), qs, fixedNow)

	if _, ok := got.ByCategory[""]; ok {
		t.Fatalf("empty category must not be bucketed: %+v", got.ByCategory)
	}
	if slices.Contains(got.Strengths, "") || slices.Contains(got.Improvements, "") {
		t.Fatalf("empty category leaked: strengths=%v improvements=%v", got.Strengths, got.Improvements)
	}
	if len(got.Improvements) != 1 || got.Improvements[0] != "SQL" {
		t.Fatalf("unexpected improvements: %v", got.Improvements)
	}
	if got.ByDifficulty[model.DifficultyEasy].Count != 2 {
		t.Fatalf("uncategorised answers still count per difficulty: %+v", got.ByDifficulty)
	}
	if got.FinalScore != 6.7 {
		t.Fatalf("expected final score 6.7, got %v", got.FinalScore)
	}
}

func repeatScore(score, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = score
	}
	return out
}
