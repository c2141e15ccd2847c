package repo

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestIdempotency_CreateAndLookup(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	rec, err := CreateIdempotency(ctx, db, "alice", "rev-1", "key-1", "eval-1", 200, time.Hour)
	if err != nil {
		t.Fatalf("CreateIdempotency: %v", err)
	}
	if rec.EvaluationID != "eval-1" || rec.Status != 200 {
		t.Fatalf("unexpected record: %+v", rec)
	}

	got, err := GetIdempotency(ctx, db, "alice", "rev-1", "key-1", time.Now().UTC())
	if err != nil {
		t.Fatalf("GetIdempotency: %v", err)
	}
	if got.ID != rec.ID {
		t.Fatalf("lookup returned wrong record: %+v", got)
	}
}

func TestIdempotency_ScopedByUserAndReview(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()
	now := time.Now().UTC()

	if _, err := CreateIdempotency(ctx, db, "alice", "rev-1", "key-1", "eval-1", 200, time.Hour); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if _, err := GetIdempotency(ctx, db, "bob", "rev-1", "key-1", now); !errors.Is(err, ErrNotFound) {
		t.Fatalf("other user must not see the record, got %v", err)
	}
	if _, err := GetIdempotency(ctx, db, "alice", "rev-2", "key-1", now); !errors.Is(err, ErrNotFound) {
		t.Fatalf("other review must not see the record, got %v", err)
	}
	if _, err := GetIdempotency(ctx, db, "alice", "", "key-1", now); !errors.Is(err, ErrNotFound) {
		t.Fatalf("blank review id must miss, got %v", err)
	}

	// Same key is free for another user or review.
	if _, err := CreateIdempotency(ctx, db, "bob", "rev-1", "key-1", "eval-2", 200, time.Hour); err != nil {
		t.Fatalf("same key, other user: %v", err)
	}
	if _, err := CreateIdempotency(ctx, db, "alice", "rev-2", "key-1", "eval-3", 200, time.Hour); err != nil {
		t.Fatalf("same key, other review: %v", err)
	}
}

func TestIdempotency_DuplicateKey(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	if _, err := CreateIdempotency(ctx, db, "alice", "rev-1", "key-1", "eval-1", 200, time.Hour); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := CreateIdempotency(ctx, db, "alice", "rev-1", "key-1", "eval-9", 200, time.Hour); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestIdempotency_ExpiredRecordsAreInvisible(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	if _, err := CreateIdempotency(ctx, db, "alice", "rev-1", "key-1", "eval-1", 200, time.Minute); err != nil {
		t.Fatalf("seed: %v", err)
	}
	future := time.Now().UTC().Add(2 * time.Minute)
	if _, err := GetIdempotency(ctx, db, "alice", "rev-1", "key-1", future); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expired record must be invisible, got %v", err)
	}
}
