package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	redispkg "github.com/atelierhq/atelier-backend/pkg/redis"
)

// Snapshot is the persisted form of a cart session.
type Snapshot struct {
	Items     []LineItem `json:"items"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Repository persists cart snapshots keyed by session id.
type Repository interface {
	Load(ctx context.Context, sessionID uuid.UUID) (*Snapshot, error)
	Save(ctx context.Context, sessionID uuid.UUID, snapshot *Snapshot) error
	Delete(ctx context.Context, sessionID uuid.UUID) error
}

type snapshotStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	CartKey(sessionID string) string
}

type redisRepository struct {
	store snapshotStore
	ttl   time.Duration
}

// NewRepository builds a redis-backed snapshot repository. Snapshots expire
// with the cart session.
func NewRepository(store snapshotStore, ttl time.Duration) (Repository, error) {
	if store == nil {
		return nil, fmt.Errorf("snapshot store required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("snapshot ttl must be positive")
	}
	return &redisRepository{store: store, ttl: ttl}, nil
}

// Load returns the stored snapshot, or nil when the session has no cart yet.
func (r *redisRepository) Load(ctx context.Context, sessionID uuid.UUID) (*Snapshot, error) {
	raw, err := r.store.Get(ctx, r.store.CartKey(sessionID.String()))
	if err != nil {
		if redispkg.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("load cart snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal([]byte(raw), &snapshot); err != nil {
		return nil, fmt.Errorf("decode cart snapshot: %w", err)
	}
	return &snapshot, nil
}

// Save overwrites the session's snapshot and refreshes its TTL.
func (r *redisRepository) Save(ctx context.Context, sessionID uuid.UUID, snapshot *Snapshot) error {
	if snapshot == nil {
		return fmt.Errorf("snapshot required")
	}
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode cart snapshot: %w", err)
	}
	if err := r.store.Set(ctx, r.store.CartKey(sessionID.String()), payload, r.ttl); err != nil {
		return fmt.Errorf("save cart snapshot: %w", err)
	}
	return nil
}

// Delete removes the session's snapshot.
func (r *redisRepository) Delete(ctx context.Context, sessionID uuid.UUID) error {
	if err := r.store.Del(ctx, r.store.CartKey(sessionID.String())); err != nil {
		return fmt.Errorf("delete cart snapshot: %w", err)
	}
	return nil
}
