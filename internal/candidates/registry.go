// Package candidates keeps the persisted list of interviewed candidates.
package candidates

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/interview-trainer/internal/logger"
	"github.com/spigell/interview-trainer/internal/model"
	"github.com/spigell/interview-trainer/internal/storage"
)

var (
	ErrNotFound  = errors.New("candidate not found")
	ErrMissingID = errors.New("candidate id is required")
	ErrExists    = errors.New("candidate already exists")
)

type snapshot struct {
	Candidates         []model.Candidate `json:"candidates"`
	CurrentCandidateID string            `json:"currentCandidateId,omitempty"`
}

// Registry is safe for concurrent use. Every mutation is written through to
// the store before returning.
type Registry struct {
	mu     sync.RWMutex
	store  storage.Store
	logger *zap.Logger
	now    func() time.Time

	data snapshot
}

// Load reads the registry from store. Missing or corrupt data yields an empty registry.
func Load(ctx context.Context, store storage.Store, log *zap.Logger) *Registry {
	r := &Registry{
		store:  store,
		logger: logger.WithFields(log, zap.String("component", "candidates")),
		now:    time.Now,
	}

	err := storage.LoadJSON(ctx, store, storage.KeyCandidates, &r.data)
	switch {
	case err == nil:
		r.logger.Debug("candidates loaded", zap.Int("count", len(r.data.Candidates)))
	case errors.Is(err, storage.ErrNotFound):
		r.data = snapshot{}
	default:
		r.logger.Warn("candidate registry is unreadable, starting empty", zap.Error(err))
		r.data = snapshot{}
	}

	return r
}

// Reload replaces the in-memory state with what the store holds now. On a
// read or decode failure the previous state is kept.
func (r *Registry) Reload(ctx context.Context) error {
	var data snapshot
	err := storage.LoadJSON(ctx, r.store, storage.KeyCandidates, &data)
	if errors.Is(err, storage.ErrNotFound) {
		data, err = snapshot{}, nil
	}
	if err != nil {
		return fmt.Errorf("reloading candidates: %w", err)
	}

	r.mu.Lock()
	r.data = data
	r.mu.Unlock()
	return nil
}

func (r *Registry) Add(ctx context.Context, c model.Candidate) error {
	if c.ID == "" {
		return ErrMissingID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOf(c.ID) >= 0 {
		return fmt.Errorf("%w: %s", ErrExists, c.ID)
	}

	now := r.now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	if c.Status == "" {
		c.Status = model.StatusPending
	}

	r.data.Candidates = append(r.data.Candidates, c.Clone())
	r.logger.Info("candidate added", logger.CandidateFields(c.ID, c.Name, "")...)
	return r.persist(ctx)
}

// Update replaces the stored candidate with the same id.
func (r *Registry) Update(ctx context.Context, c model.Candidate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(c.ID)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, c.ID)
	}

	c.CreatedAt = r.data.Candidates[i].CreatedAt
	c.UpdatedAt = r.now()
	r.data.Candidates[i] = c.Clone()
	return r.persist(ctx)
}

func (r *Registry) Get(id string) (model.Candidate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return model.Candidate{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return r.data.Candidates[i].Clone(), nil
}

// Delete removes one candidate and clears the current pointer if it referenced it.
func (r *Registry) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	r.data.Candidates = append(r.data.Candidates[:i], r.data.Candidates[i+1:]...)
	if r.data.CurrentCandidateID == id {
		r.data.CurrentCandidateID = ""
	}
	r.logger.Info("candidate deleted", zap.String(logger.FieldCandidateID, id))
	return r.persist(ctx)
}

// DeleteAll empties the registry and returns how many candidates were removed.
func (r *Registry) DeleteAll(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(r.data.Candidates)
	r.data = snapshot{}
	r.logger.Info("all candidates deleted", zap.Int("count", n))
	return n, r.persist(ctx)
}

// List returns copies in insertion order.
func (r *Registry) List() []model.Candidate {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Candidate, len(r.data.Candidates))
	for i, c := range r.data.Candidates {
		out[i] = c.Clone()
	}
	return out
}

func (r *Registry) SetCurrent(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOf(id) < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	r.data.CurrentCandidateID = id
	return r.persist(ctx)
}

// Current returns the candidate selected for the next interview.
func (r *Registry) Current() (model.Candidate, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.data.CurrentCandidateID == "" {
		return model.Candidate{}, false
	}
	i := r.indexOf(r.data.CurrentCandidateID)
	if i < 0 {
		return model.Candidate{}, false
	}
	return r.data.Candidates[i].Clone(), true
}

func (r *Registry) ClearCurrent(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.data.CurrentCandidateID = ""
	return r.persist(ctx)
}

// indexOf must be called with the lock held.
func (r *Registry) indexOf(id string) int {
	if id == "" {
		return -1
	}
	for i, c := range r.data.Candidates {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// persist must be called with the lock held.
func (r *Registry) persist(ctx context.Context) error {
	if err := storage.SaveJSON(ctx, r.store, storage.KeyCandidates, r.data); err != nil {
		return fmt.Errorf("saving candidates: %w", err)
	}
	return nil
}
