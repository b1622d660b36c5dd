package consent

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fahrschule-lenz/backend/internal/models"
)

// Manager is the single source of truth for one visitor's consent decision.
// It wraps one durable record behind a Store and degrades gracefully: a
// missing, corrupt or legacy record loads as "no decision yet", and a
// failed write leaves the session running on the in-memory state only.
type Manager struct {
	store  Store
	key    string
	logger *zap.Logger

	mu  sync.Mutex
	cur *models.ConsentState // nil until first Load
}

// NewManager creates a manager bound to a single record key.
func NewManager(store Store, key string, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{store: store, key: key, logger: logger}
}

// Load returns the current consent state. The persisted record is read once
// per session; afterwards the cached state is authoritative, so an earlier
// failed write does not resurrect stale data.
func (m *Manager) Load(ctx context.Context) models.ConsentState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loadLocked(ctx)
}

func (m *Manager) loadLocked(ctx context.Context) models.ConsentState {
	if m.cur != nil {
		return *m.cur
	}
	state := models.DefaultConsentState()
	raw, err := m.store.Get(ctx, m.key)
	switch {
	case errors.Is(err, ErrNotFound):
		// first visit
	case err != nil:
		m.logger.Warn("consent record unreadable, using defaults", zap.Error(err), zap.String("key", m.key))
	default:
		var stored models.ConsentState
		if err := json.Unmarshal(raw, &stored); err != nil {
			m.logger.Warn("consent record corrupt, using defaults", zap.Error(err), zap.String("key", m.key))
		} else if stored.SchemaVersion != models.ConsentSchemaVersion {
			m.logger.Info("consent record schema outdated, using defaults",
				zap.String("stored_version", stored.SchemaVersion),
				zap.String("current_version", models.ConsentSchemaVersion))
		} else {
			state = stored
		}
	}
	m.cur = &state
	return state
}

// Update merges the partial update into the current state, stamps DecidedAt
// with the current time, persists the whole record and returns it. A persist
// failure is logged and the new state stays in effect for this session.
func (m *Manager) Update(ctx context.Context, partial models.ConsentUpdate) models.ConsentState {
	m.mu.Lock()
	defer m.mu.Unlock()

	state := m.loadLocked(ctx)
	if partial.ExternalMediaAllowed != nil {
		state.ExternalMediaAllowed = *partial.ExternalMediaAllowed
	}
	now := time.Now().UTC()
	state.DecidedAt = &now
	state.SchemaVersion = models.ConsentSchemaVersion
	m.cur = &state

	raw, err := json.Marshal(state)
	if err == nil {
		err = m.store.Set(ctx, m.key, raw)
	}
	if err != nil {
		m.logger.Warn("consent record not persisted, keeping in-memory state", zap.Error(err), zap.String("key", m.key))
	}
	return state
}

// HasDecided reports whether the visitor has made an explicit choice.
func (m *Manager) HasDecided(ctx context.Context) bool {
	return m.Load(ctx).HasDecided()
}

// Revoke deletes the persisted record and resets the state to defaults.
func (m *Manager) Revoke(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.Delete(ctx, m.key); err != nil {
		m.logger.Warn("consent record not deleted", zap.Error(err), zap.String("key", m.key))
	}
	state := models.DefaultConsentState()
	m.cur = &state
}
