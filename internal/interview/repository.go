package interview

import (
	"context"

	"github.com/spigell/interview-trainer/internal/storage"
)

// Repository loads and saves the session snapshot.
type Repository interface {
	Load(ctx context.Context) (Session, error)
	Save(ctx context.Context, s Session) error
}

// StoreRepository keeps the snapshot as JSON in a storage.Store.
type StoreRepository struct {
	Store storage.Store
}

func NewStoreRepository(store storage.Store) *StoreRepository {
	return &StoreRepository{Store: store}
}

func (r *StoreRepository) Load(ctx context.Context) (Session, error) {
	var s Session
	if err := storage.LoadJSON(ctx, r.Store, storage.KeyInterview, &s); err != nil {
		return Session{}, err
	}
	return s, nil
}

func (r *StoreRepository) Save(ctx context.Context, s Session) error {
	return storage.SaveJSON(ctx, r.Store, storage.KeyInterview, s)
}
