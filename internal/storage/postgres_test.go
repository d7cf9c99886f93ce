package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPostgresStorePutUpserts(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	store := &PostgresStore{DB: db}
	blob := []byte(`{"candidates":[]}`)

	mock.ExpectExec("INSERT INTO snapshots").
		WithArgs(KeyCandidates, blob).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := store.Put(context.Background(), KeyCandidates, blob); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPostgresStoreGet(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	store := &PostgresStore{DB: db}

	mock.ExpectQuery("SELECT payload FROM snapshots").
		WithArgs(KeyInterview).
		WillReturnRows(sqlmock.NewRows([]string{"payload"}).AddRow([]byte(`{"phase":"in-progress"}`)))

	got, err := store.Get(context.Background(), KeyInterview)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != `{"phase":"in-progress"}` {
		t.Fatalf("unexpected payload: %s", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPostgresStoreGetMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	store := &PostgresStore{DB: db}

	mock.ExpectQuery("SELECT payload FROM snapshots").
		WithArgs(KeyCandidates).
		WillReturnRows(sqlmock.NewRows([]string{"payload"}))

	if _, err := store.Get(context.Background(), KeyCandidates); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestConnectRequiresURL(t *testing.T) {
	if _, err := Connect(context.Background(), "  ", DefaultOptions()); err == nil {
		t.Fatal("expected error for empty database url")
	}
}
