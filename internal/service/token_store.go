package service

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	revokedKeyPrefix = "auth:revoked:"
	resetKeyPrefix   = "auth:reset:"
)

// ErrResetTokenInvalid is returned when a reset token is unknown,
// expired, or already used.
var ErrResetTokenInvalid = errors.New("invalid or expired reset token")

// TokenStore keeps token tombstones and single-use reset tokens in
// Redis. Nothing is ever served from it; entries only block or admit a
// presented credential until their TTL runs out.
type TokenStore struct {
	rdb *redis.Client
}

// NewTokenStore creates a new TokenStore
func NewTokenStore(rdb *redis.Client) *TokenStore {
	return &TokenStore{rdb: rdb}
}

// Revoke marks a token ID as revoked until the token would have
// expired on its own.
func (s *TokenStore) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return s.rdb.Set(ctx, revokedKeyPrefix+jti, 1, ttl).Err()
}

// IsRevoked reports whether a token ID has been revoked
func (s *TokenStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := s.rdb.Exists(ctx, revokedKeyPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// StoreResetToken stores a password reset token for a user ID
func (s *TokenStore) StoreResetToken(ctx context.Context, token string, userID uint, ttl time.Duration) error {
	return s.rdb.Set(ctx, resetKeyPrefix+token, userID, ttl).Err()
}

// ConsumeResetToken atomically fetches and deletes a reset token,
// returning the user ID it was issued for. A token can be consumed
// exactly once.
func (s *TokenStore) ConsumeResetToken(ctx context.Context, token string) (uint, error) {
	val, err := s.rdb.GetDel(ctx, resetKeyPrefix+token).Uint64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrResetTokenInvalid
		}
		return 0, err
	}
	return uint(val), nil
}
