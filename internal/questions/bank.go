// Package questions holds the question pool and draws per-session subsets from it.
package questions

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/spigell/interview-trainer/internal/model"
)

//go:embed bank.yaml
var defaultBank []byte

// Bank is the full question pool.
type Bank struct {
	Questions []model.Question `yaml:"questions"`
}

// Default returns the built-in pool.
func Default() (*Bank, error) {
	return Parse(defaultBank)
}

// Load reads a bank from a YAML file.
func Load(path string) (*Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading question bank %s: %w", path, err)
	}

	bank, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("question bank %s: %w", path, err)
	}
	return bank, nil
}

// Parse decodes and validates a YAML bank.
func Parse(data []byte) (*Bank, error) {
	var bank Bank
	if err := yaml.Unmarshal(data, &bank); err != nil {
		return nil, fmt.Errorf("parsing yaml: %w", err)
	}

	if err := bank.Validate(); err != nil {
		return nil, err
	}
	return &bank, nil
}

func (b *Bank) Validate() error {
	if len(b.Questions) == 0 {
		return errors.New("bank has no questions")
	}

	seen := make(map[int]struct{}, len(b.Questions))
	for i, q := range b.Questions {
		if _, ok := seen[q.ID]; ok {
			return fmt.Errorf("question %d: duplicate id %d", i, q.ID)
		}
		seen[q.ID] = struct{}{}

		if strings.TrimSpace(q.Text) == "" {
			return fmt.Errorf("question %d: text is required", q.ID)
		}
		if !q.Difficulty.Valid() {
			return fmt.Errorf("question %d: unknown difficulty %q", q.ID, q.Difficulty)
		}
		if q.TimeLimit <= 0 {
			return fmt.Errorf("question %d: time limit must be positive", q.ID)
		}
	}
	return nil
}

// ByDifficulty returns the questions of one tier, in bank order.
func (b *Bank) ByDifficulty(d model.Difficulty) []model.Question {
	var out []model.Question
	for _, q := range b.Questions {
		if q.Difficulty == d {
			out = append(out, q)
		}
	}
	return out
}
