package filtering

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/spigell/interview-trainer/internal/model"
)

const (
	SortScore = "score"
	SortName  = "name"
	SortDate  = "date"
)

type sortFilter struct {
	toggle
	by string
}

// NewSort orders candidates by score (highest first), name (A to Z) or
// creation date (newest first). It never drops entries.
func NewSort() Filter {
	return &sortFilter{by: SortScore}
}

func (f *sortFilter) Name() string { return "sort" }

func (f *sortFilter) Validate(cfg *Config) error {
	f.by = SortScore
	if cfg == nil {
		return nil
	}

	switch by := strings.ToLower(strings.TrimSpace(cfg.Sort)); by {
	case "":
	case SortScore, SortName, SortDate:
		f.by = by
	default:
		return fmt.Errorf("unknown sort key %q", cfg.Sort)
	}
	return nil
}

func (f *sortFilter) Apply(_ context.Context, _ Deps, list []model.Candidate) ([]model.Candidate, Step, error) {
	sorted := slices.Clone(list)

	switch f.by {
	case SortName:
		slices.SortStableFunc(sorted, func(a, b model.Candidate) int {
			return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		})
	case SortDate:
		slices.SortStableFunc(sorted, func(a, b model.Candidate) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		})
	default:
		slices.SortStableFunc(sorted, func(a, b model.Candidate) int {
			return cmp.Compare(scoreOf(b), scoreOf(a))
		})
	}

	return sorted, Step{Initial: len(list), Left: len(sorted)}, nil
}

func (f *sortFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: map[string]string{"by": f.by}}
}

// scoreOf treats unscored candidates as zero.
func scoreOf(c model.Candidate) float64 {
	if c.Score == nil {
		return 0
	}
	return *c.Score
}
