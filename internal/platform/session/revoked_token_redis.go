// Package session stores access-token revocations in Redis.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"stayease_backend/internal/feature/user/domain/entity"
)

// RevokedTokenRedis implements usecase.TokenRevoker and jwtmw.RevocationChecker using Redis.
// Each entry lives exactly as long as the token it revokes.
type RevokedTokenRedis struct {
	client *redis.Client
	prefix string
}

// NewRevokedTokenRedis creates a new RevokedTokenRedis instance.
func NewRevokedTokenRedis(client *redis.Client, prefix string) *RevokedTokenRedis {
	if prefix == "" {
		prefix = "revoked"
	}
	return &RevokedTokenRedis{client: client, prefix: prefix}
}

func (r *RevokedTokenRedis) key(id string) string {
	return fmt.Sprintf("%s:%s", r.prefix, id)
}

// Revoke stores the token until its expiry. An already expired token is ignored.
func (r *RevokedTokenRedis) Revoke(ctx context.Context, token entity.RevokedToken) error {
	ttl := time.Until(token.ExpiresAt)
	if ttl <= 0 {
		return nil
	}

	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to marshal revoked token: %w", err)
	}
	return r.client.Set(ctx, r.key(token.ID), data, ttl).Err()
}

// IsRevoked reports whether tokenID has been revoked.
func (r *RevokedTokenRedis) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.client.Exists(ctx, r.key(tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Find returns the stored revocation, or nil when absent.
func (r *RevokedTokenRedis) Find(ctx context.Context, tokenID string) (*entity.RevokedToken, error) {
	data, err := r.client.Get(ctx, r.key(tokenID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var t entity.RevokedToken
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to unmarshal revoked token: %w", err)
	}
	return &t, nil
}
