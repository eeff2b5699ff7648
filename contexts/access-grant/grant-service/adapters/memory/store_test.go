package memory

import (
	"context"
	"testing"
	"time"
)

func TestPutReturnsPreviousHolder(t *testing.T) {
	store := NewStore()
	now := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)

	prev, existed, err := store.Put(context.Background(), "12345", "42", now)
	if err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if existed || prev.IdentityHandle != "" {
		t.Fatalf("expected no previous holder, got %+v existed=%v", prev, existed)
	}

	later := now.Add(time.Hour)
	prev, existed, err = store.Put(context.Background(), "12345", "99", later)
	if err != nil {
		t.Fatalf("second put failed: %v", err)
	}
	if !existed || prev.IdentityHandle != "42" {
		t.Fatalf("expected previous holder 42, got %+v existed=%v", prev, existed)
	}

	grant, found, _ := store.Get(context.Background(), "12345")
	if !found || grant.IdentityHandle != "99" {
		t.Fatalf("expected current holder 99, got %+v", grant)
	}
	if !grant.GrantedAt.Equal(now) {
		t.Fatalf("expected original grant time preserved, got %v", grant.GrantedAt)
	}
	if !grant.UpdatedAt.Equal(later) {
		t.Fatalf("expected updated_at advanced, got %v", grant.UpdatedAt)
	}
}

func TestRemoveDeletesRow(t *testing.T) {
	store := NewStore()
	now := time.Now().UTC()

	if _, _, err := store.Put(context.Background(), "12345", "42", now); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	prev, existed, err := store.Remove(context.Background(), "12345")
	if err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if !existed || prev.IdentityHandle != "42" {
		t.Fatalf("expected removed holder 42, got %+v existed=%v", prev, existed)
	}
	if _, found, _ := store.Get(context.Background(), "12345"); found {
		t.Fatal("expected row gone after remove")
	}

	// Removing an absent row is a no-op, not an error.
	_, existed, err = store.Remove(context.Background(), "12345")
	if err != nil || existed {
		t.Fatalf("expected silent no-op, got existed=%v err=%v", existed, err)
	}
}

func TestOneGrantPerPurchase(t *testing.T) {
	store := NewStore()
	now := time.Now().UTC()

	for _, handle := range []string{"1", "2", "3"} {
		if _, _, err := store.Put(context.Background(), "12345", handle, now); err != nil {
			t.Fatalf("put %s failed: %v", handle, err)
		}
	}
	if store.Len() != 1 {
		t.Fatalf("expected exactly one grant, got %d", store.Len())
	}
}
