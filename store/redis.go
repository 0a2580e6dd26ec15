package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pawwell/pawwell-go/auth"
)

const redisKeyPrefix = "pawwell:credential:"

// Redis is a TokenStore keyed by a caller-chosen session identifier, for
// server-side hosts that keep one credential per end-user browser session.
// Entries expire with the refresh token so abandoned sessions age out.
type Redis struct {
	client    *redis.Client
	sessionID string
	ttl       time.Duration
}

// RedisConfig wires the Redis-backed store.
type RedisConfig struct {
	Client *redis.Client
	// SessionID scopes the credential to a single end-user session.
	SessionID string
	// TTL bounds how long an untouched credential survives. Defaults to the
	// refresh token's remaining lifetime, falling back to 24h when unknown.
	TTL time.Duration
}

// NewRedis returns a Redis-backed store for one session.
func NewRedis(cfg RedisConfig) (*Redis, error) {
	if cfg.Client == nil {
		return nil, errors.New("store: redis client required")
	}
	if cfg.SessionID == "" {
		return nil, errors.New("store: session id required")
	}
	return &Redis{client: cfg.Client, sessionID: cfg.SessionID, ttl: cfg.TTL}, nil
}

func (r *Redis) key() string { return redisKeyPrefix + r.sessionID }

// Save writes the credential under the session key.
func (r *Redis) Save(ctx context.Context, cred auth.Credential) error {
	data, err := json.Marshal(cred)
	if err != nil {
		return err
	}
	ttl := r.ttl
	if ttl <= 0 {
		if !cred.RefreshExpiresAt.IsZero() {
			ttl = time.Until(cred.RefreshExpiresAt)
		}
		if ttl <= 0 {
			ttl = 24 * time.Hour
		}
	}
	return r.client.Set(ctx, r.key(), data, ttl).Err()
}

// Load reads the credential for the session. Corrupt entries report absence;
// connectivity failures surface as errors so the host can degrade.
func (r *Redis) Load(ctx context.Context) (auth.Credential, bool, error) {
	data, err := r.client.Get(ctx, r.key()).Bytes()
	if errors.Is(err, redis.Nil) {
		return auth.Credential{}, false, nil
	}
	if err != nil {
		return auth.Credential{}, false, err
	}
	var cred auth.Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		return auth.Credential{}, false, nil
	}
	if cred.Empty() {
		return auth.Credential{}, false, nil
	}
	return cred, true, nil
}

// Clear deletes the session's credential.
func (r *Redis) Clear(ctx context.Context) error {
	return r.client.Del(ctx, r.key()).Err()
}
