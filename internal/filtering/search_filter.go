package filtering

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/interview-trainer/internal/model"
)

type searchFilter struct {
	toggle
	query string
}

// NewSearch creates a filter that keeps candidates whose name or email
// contains the query, ignoring case.
func NewSearch() Filter {
	return &searchFilter{}
}

func (f *searchFilter) Name() string { return "search" }

func (f *searchFilter) Validate(cfg *Config) error {
	f.query = ""
	if cfg != nil {
		f.query = strings.ToLower(strings.TrimSpace(cfg.Search))
	}
	return nil
}

func (f *searchFilter) Apply(_ context.Context, deps Deps, list []model.Candidate) ([]model.Candidate, Step, error) {
	initial := len(list)
	if f.query == "" {
		return list, Step{Initial: initial, Left: initial}, nil
	}

	kept := list[:0:0]
	for _, c := range list {
		if strings.Contains(strings.ToLower(c.Name), f.query) ||
			strings.Contains(strings.ToLower(c.Email), f.query) {
			kept = append(kept, c)
		}
	}

	if deps.Logger != nil && len(kept) != initial {
		deps.Logger.Debug("excluding candidates not matching search",
			zap.String("query", f.query),
			zap.Int("candidates_left", len(kept)),
		)
	}

	return kept, Step{Initial: initial, Dropped: initial - len(kept), Left: len(kept)}, nil
}

func (f *searchFilter) Status() Status {
	details := map[string]string{}
	if f.query != "" {
		details["query"] = f.query
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
