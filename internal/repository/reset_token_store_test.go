package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T) (ResetTokenStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewResetTokenStore(client), mr
}

func TestResetTokenStoreSaveAndConsume(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, "tok123", "user@test.com", time.Minute); err != nil {
		t.Fatalf("Save: %v", err)
	}

	email, err := store.Consume(ctx, "tok123")
	if err != nil {
		t.Fatalf("Consume: %v", err)
	}
	if email != "user@test.com" {
		t.Errorf("email = %q, want user@test.com", email)
	}

	// Single use: a second consume must miss.
	if _, err := store.Consume(ctx, "tok123"); err != ErrTokenNotFound {
		t.Errorf("second Consume err = %v, want ErrTokenNotFound", err)
	}
}

func TestResetTokenStoreUnknownToken(t *testing.T) {
	store, _ := newTestStore(t)

	if _, err := store.Consume(context.Background(), "missing"); err != ErrTokenNotFound {
		t.Errorf("err = %v, want ErrTokenNotFound", err)
	}
}

func TestResetTokenStoreExpiry(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, "tok123", "user@test.com", time.Minute); err != nil {
		t.Fatalf("Save: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	if _, err := store.Consume(ctx, "tok123"); err != ErrTokenNotFound {
		t.Errorf("err after expiry = %v, want ErrTokenNotFound", err)
	}
}
