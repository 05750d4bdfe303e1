// Package session keeps the server-side record of issued access tokens.
// A token is honoured only while its jti has a live record here, which
// makes logout effective before the JWT expires.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/akvaproffi/storefront/pkg/config"
	redisclient "github.com/akvaproffi/storefront/pkg/redis"
	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
)

var errMissingAccessID = errors.New("access id is required")

// Store is the slice of pkg/redis.Client the manager uses.
type Store interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	AccessSessionKey(accessID string) string
}

// AccessSessionChecker exposes the read-only surface needed by middleware.
type AccessSessionChecker interface {
	Owner(ctx context.Context, accessID string) (uuid.UUID, bool, error)
}

type Manager struct {
	store Store
	ttl   time.Duration
}

// NewManager expires records together with the access token they back.
func NewManager(client *redisclient.Client, cfg config.JWTConfig) (*Manager, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	ttl := cfg.AccessTokenTTL()
	if ttl <= 0 {
		return nil, fmt.Errorf("access token ttl must be positive, got %s", ttl)
	}
	return &Manager{store: client, ttl: ttl}, nil
}

func (m *Manager) key(accessID string) (string, error) {
	accessID = strings.TrimSpace(accessID)
	if accessID == "" {
		return "", errMissingAccessID
	}
	return m.store.AccessSessionKey(accessID), nil
}

// Open records userID as the owner of accessID.
func (m *Manager) Open(ctx context.Context, accessID string, userID uuid.UUID) error {
	key, err := m.key(accessID)
	if err != nil {
		return err
	}
	return m.store.Set(ctx, key, userID.String(), m.ttl)
}

// Revoke is idempotent.
func (m *Manager) Revoke(ctx context.Context, accessID string) error {
	key, err := m.key(accessID)
	if err != nil {
		return err
	}
	return m.store.Del(ctx, key)
}

// Owner returns the user a live session belongs to. ok is false when the
// session was revoked or has expired.
func (m *Manager) Owner(ctx context.Context, accessID string) (userID uuid.UUID, ok bool, err error) {
	key, err := m.key(accessID)
	if err != nil {
		return uuid.Nil, false, err
	}
	raw, err := m.store.Get(ctx, key)
	switch {
	case errors.Is(err, redislib.Nil):
		return uuid.Nil, false, nil
	case err != nil:
		return uuid.Nil, false, err
	}
	userID, err = uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("corrupt session record %s: %w", key, err)
	}
	return userID, true, nil
}

// NewAccessID produces the identifier used as the JWT jti and Redis key.
func NewAccessID() string {
	return uuid.NewString()
}
