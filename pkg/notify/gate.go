// Package notify provides the idempotency guard in front of outbound
// notifications: at most one successful send per (entity, event) pair,
// however many times the sweep runs.
package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// FlagStore reads and persists sent-markers. Implementations typically
// back onto flag columns of the entity's own record.
type FlagStore interface {
	IsSent(ctx context.Context, entityId uuid.UUID, event string) (bool, error)
	MarkSent(ctx context.Context, entityId uuid.UUID, event string, at time.Time) error
}

type Gate struct {
	store FlagStore
	now   func() time.Time
}

func NewGate(store FlagStore) *Gate {
	return &Gate{
		store: store,
		now:   time.Now,
	}
}

// TrySend invokes send only when the (entity, event) flag is unset, and
// persists the flag only after send succeeds. A failed send leaves the
// flag untouched so the next sweep retries. Returns whether a send
// actually happened.
func (g *Gate) TrySend(ctx context.Context, entityId uuid.UUID, event string, send func() error) (bool, error) {
	sent, err := g.store.IsSent(ctx, entityId, event)
	if err != nil {
		return false, err
	}
	if sent {
		return false, nil
	}
	if err := send(); err != nil {
		return false, err
	}
	if err := g.store.MarkSent(ctx, entityId, event, g.now()); err != nil {
		return true, err
	}
	return true, nil
}
