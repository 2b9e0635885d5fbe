package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"oraclequiz/internal/model"
)

// ProfileCache is the persistent key-value store for per-user state that
// outlives a quiz round: the signed-in identity object, the session token,
// and the oracle-state snapshot.
type ProfileCache interface {
	SetIdentity(ctx context.Context, userID string, identity *model.Identity) error
	GetIdentity(ctx context.Context, userID string) (*model.Identity, error)

	SetSessionToken(ctx context.Context, userID, token string) error
	GetSessionToken(ctx context.Context, userID string) (string, error)

	SetOracleState(ctx context.Context, state *model.OracleState) error
	GetOracleState(ctx context.Context, userID string) (*model.OracleState, error)
}

type profileCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewProfileCache creates a redis-backed profile cache.
func NewProfileCache(client *redis.Client) ProfileCache {
	return &profileCache{
		client: client,
		ttl:    30 * 24 * time.Hour,
	}
}

// Key helpers
func (c *profileCache) identityKey(userID string) string {
	return fmt.Sprintf("user:%s:identity", userID)
}

func (c *profileCache) tokenKey(userID string) string {
	return fmt.Sprintf("user:%s:token", userID)
}

func (c *profileCache) oracleKey(userID string) string {
	return fmt.Sprintf("user:%s:oracle", userID)
}

func (c *profileCache) SetIdentity(ctx context.Context, userID string, identity *model.Identity) error {
	data, err := json.Marshal(identity)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.identityKey(userID), data, c.ttl).Err()
}

func (c *profileCache) GetIdentity(ctx context.Context, userID string) (*model.Identity, error) {
	data, err := c.client.Get(ctx, c.identityKey(userID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var identity model.Identity
	if err := json.Unmarshal([]byte(data), &identity); err != nil {
		return nil, err
	}
	return &identity, nil
}

func (c *profileCache) SetSessionToken(ctx context.Context, userID, token string) error {
	return c.client.Set(ctx, c.tokenKey(userID), token, c.ttl).Err()
}

func (c *profileCache) GetSessionToken(ctx context.Context, userID string) (string, error) {
	token, err := c.client.Get(ctx, c.tokenKey(userID)).Result()
	if err == redis.Nil {
		return "", nil
	}
	return token, err
}

func (c *profileCache) SetOracleState(ctx context.Context, state *model.OracleState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.oracleKey(state.UserID), data, c.ttl).Err()
}

func (c *profileCache) GetOracleState(ctx context.Context, userID string) (*model.OracleState, error) {
	data, err := c.client.Get(ctx, c.oracleKey(userID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var state model.OracleState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return nil, err
	}
	return &state, nil
}
