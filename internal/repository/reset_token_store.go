package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrTokenNotFound is returned when a reset token is unknown or expired.
var ErrTokenNotFound = errors.New("reset token not found")

const resetTokenPrefix = "password_reset:"

// ResetTokenStore persists password reset tokens with a TTL. Tokens are
// single use; Consume deletes on read.
type ResetTokenStore interface {
	Save(ctx context.Context, token, email string, ttl time.Duration) error
	Consume(ctx context.Context, token string) (string, error)
}

type resetTokenStore struct {
	client *redis.Client
}

// NewResetTokenStore returns a Redis-backed implementation.
func NewResetTokenStore(client *redis.Client) ResetTokenStore {
	return &resetTokenStore{client: client}
}

func (s *resetTokenStore) Save(ctx context.Context, token, email string, ttl time.Duration) error {
	return s.client.Set(ctx, resetTokenPrefix+token, email, ttl).Err()
}

func (s *resetTokenStore) Consume(ctx context.Context, token string) (string, error) {
	email, err := s.client.GetDel(ctx, resetTokenPrefix+token).Result()
	if err == redis.Nil {
		return "", ErrTokenNotFound
	}
	if err != nil {
		return "", err
	}
	return email, nil
}
