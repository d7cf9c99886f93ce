package questions

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/spigell/interview-trainer/internal/model"
)

func TestDefaultBank(t *testing.T) {
	bank, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}

	limits := map[model.Difficulty]int{
		model.DifficultyEasy:   20,
		model.DifficultyMedium: 60,
		model.DifficultyHard:   120,
	}

	for d, limit := range limits {
		tier := bank.ByDifficulty(d)
		if len(tier) != 5 {
			t.Fatalf("expected 5 %s questions, got %d", d, len(tier))
		}
		for _, q := range tier {
			if q.TimeLimit != limit {
				t.Fatalf("question %d: expected limit %d, got %d", q.ID, limit, q.TimeLimit)
			}
		}
	}
}

func TestSelect(t *testing.T) {
	bank, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}

	rng := rand.New(rand.NewPCG(1, 2))
	selected, err := Select(bank, DefaultCounts(), rng)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}

	if len(selected) != 6 {
		t.Fatalf("expected 6 questions, got %d", len(selected))
	}

	wantOrder := []model.Difficulty{
		model.DifficultyEasy, model.DifficultyEasy,
		model.DifficultyMedium, model.DifficultyMedium,
		model.DifficultyHard, model.DifficultyHard,
	}
	seenText := map[string]struct{}{}
	for i, q := range selected {
		if q.ID != i+1 || q.Order != i+1 {
			t.Fatalf("question %d: expected id/order %d, got %d/%d", i, i+1, q.ID, q.Order)
		}
		if q.Difficulty != wantOrder[i] {
			t.Fatalf("question %d: expected %s, got %s", i, wantOrder[i], q.Difficulty)
		}
		if _, dup := seenText[q.Text]; dup {
			t.Fatalf("question %q selected twice", q.Text)
		}
		seenText[q.Text] = struct{}{}
	}

	again, err := Select(bank, DefaultCounts(), rand.New(rand.NewPCG(1, 2)))
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	for i := range again {
		if again[i].Text != selected[i].Text {
			t.Fatalf("expected same seed to give the same draw")
		}
	}

	// the bank itself must not be renumbered
	if bank.Questions[14].ID != 15 {
		t.Fatalf("bank was mutated: %+v", bank.Questions[14])
	}
}

func TestSelectNotEnough(t *testing.T) {
	bank, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}

	if _, err := Select(bank, Counts{model.DifficultyHard: 6}, nil); err == nil {
		t.Fatal("expected error when tier is too small")
	}
	if _, err := Select(bank, Counts{}, nil); err == nil {
		t.Fatal("expected error when nothing is requested")
	}
}

func TestLoadValidates(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{
			name: "valid",
			content: `questions:
  - id: 1
    text: "What is a goroutine?"
    difficulty: easy
    time-limit: 30
    category: Go
    type: technical
`,
		},
		{
			name: "duplicate id",
			content: `questions:
  - {id: 1, text: a, difficulty: easy, time-limit: 10}
  - {id: 1, text: b, difficulty: easy, time-limit: 10}
`,
			wantErr: true,
		},
		{
			name:    "unknown difficulty",
			content: "questions:\n  - {id: 1, text: a, difficulty: extreme, time-limit: 10}\n",
			wantErr: true,
		},
		{
			name:    "zero limit",
			content: "questions:\n  - {id: 1, text: a, difficulty: hard, time-limit: 0}\n",
			wantErr: true,
		},
		{
			name:    "empty",
			content: "questions: []\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bank.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0o600); err != nil {
				t.Fatalf("WriteFile: %v", err)
			}

			bank, err := Load(path)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if bank.Questions[0].Category != "Go" || bank.Questions[0].TimeLimit != 30 {
				t.Fatalf("unexpected question: %+v", bank.Questions[0])
			}
		})
	}
}
