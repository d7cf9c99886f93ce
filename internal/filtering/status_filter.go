package filtering

import (
	"context"
	"fmt"
	"strings"

	"github.com/spigell/interview-trainer/internal/model"
)

// StatusAll disables status filtering.
const StatusAll = "all"

type statusFilter struct {
	toggle
	status model.Status
}

// NewStatus creates a filter that keeps candidates in one lifecycle status.
func NewStatus() Filter {
	return &statusFilter{}
}

func (f *statusFilter) Name() string { return "status" }

func (f *statusFilter) Validate(cfg *Config) error {
	f.status = ""
	if cfg == nil {
		return nil
	}

	s := strings.ToLower(strings.TrimSpace(cfg.Status))
	switch model.Status(s) {
	case "", StatusAll:
		return nil
	case model.StatusPending, model.StatusInProgress, model.StatusCompleted:
		f.status = model.Status(s)
		return nil
	}
	return fmt.Errorf("unknown status %q", cfg.Status)
}

func (f *statusFilter) Apply(_ context.Context, _ Deps, list []model.Candidate) ([]model.Candidate, Step, error) {
	initial := len(list)
	if f.status == "" {
		return list, Step{Initial: initial, Left: initial}, nil
	}

	kept := list[:0:0]
	for _, c := range list {
		if c.Status == f.status {
			kept = append(kept, c)
		}
	}

	return kept, Step{Initial: initial, Dropped: initial - len(kept), Left: len(kept)}, nil
}

func (f *statusFilter) Status() Status {
	status := StatusAll
	if f.status != "" {
		status = string(f.status)
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: map[string]string{"status": status}}
}
