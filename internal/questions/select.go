package questions

import (
	"fmt"
	"math/rand/v2"

	"github.com/spigell/interview-trainer/internal/model"
)

// Counts is how many questions to draw per tier.
type Counts map[model.Difficulty]int

// DefaultCounts draws two questions from every tier.
func DefaultCounts() Counts {
	return Counts{
		model.DifficultyEasy:   2,
		model.DifficultyMedium: 2,
		model.DifficultyHard:   2,
	}
}

func (c Counts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// Select shuffles each tier and takes the requested count, ordered easy, medium, hard.
// Selected questions are renumbered 1..n so ids stay unique within the session.
func Select(bank *Bank, counts Counts, rng *rand.Rand) ([]model.Question, error) {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	var selected []model.Question
	for _, d := range model.Difficulties {
		want := counts[d]
		if want <= 0 {
			continue
		}

		pool := bank.ByDifficulty(d)
		if len(pool) < want {
			return nil, fmt.Errorf("not enough %s questions: want %d, have %d", d, want, len(pool))
		}

		rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
		selected = append(selected, pool[:want]...)
	}

	if len(selected) == 0 {
		return nil, fmt.Errorf("no questions requested")
	}

	for i := range selected {
		selected[i].ID = i + 1
		selected[i].Order = i + 1
	}
	return selected, nil
}
