package consent

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fahrschule-lenz/backend/internal/models"
	"github.com/fahrschule-lenz/backend/pkg/response"
)

// visitorCookie identifies a browser session so each visitor gets their own
// consent record. The value must be a UUID; anything else is replaced with
// a fresh one so arbitrary client input never becomes a store key.
const visitorCookie = "fs_visitor"

// RecordTTL bounds how long an untouched consent record is kept. Cookie
// lifetime and the Redis key TTL both derive from it.
const RecordTTL = 365 * 24 * time.Hour

const cookieMaxAge = int(RecordTTL / time.Second)

// Session cache bounds: idle managers are dropped after sessionTTL, and the
// cache never holds more than maxSessions entries. Evicting a manager only
// loses the in-memory write-failure fallback, which is session-scoped anyway;
// the durable record stays in the store.
const (
	defaultSessionTTL  = 30 * time.Minute
	defaultMaxSessions = 10000
)

type session struct {
	manager  *Manager
	lastSeen time.Time
}

// Handler exposes the consent manager over HTTP. One Manager per visitor is
// cached for the active session so the in-memory fallback survives a failed
// store write within that session.
type Handler struct {
	store  Store
	logger *zap.Logger

	mu          sync.Mutex
	sessions    map[string]*session
	maxSessions int
	sessionTTL  time.Duration
	now         func() time.Time
}

// NewHandler creates a consent handler over the given store.
func NewHandler(store Store, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		store:       store,
		logger:      logger,
		sessions:    make(map[string]*session),
		maxSessions: defaultMaxSessions,
		sessionTTL:  defaultSessionTTL,
		now:         time.Now,
	}
}

// Get handles GET /api/consent. Returns the visitor's current state; a
// missing or invalid stored record reads as "no decision yet".
func (h *Handler) Get(c *gin.Context) {
	m := h.managerFor(c)
	state := m.Load(c.Request.Context())
	response.OK(c, gin.H{
		"consent":    state,
		"hasDecided": state.HasDecided(),
	})
}

// Update handles PUT /api/consent. Body: {"externalMediaAllowed": bool}.
// An empty object is a valid "save current settings" decision.
func (h *Handler) Update(c *gin.Context) {
	var partial models.ConsentUpdate
	if err := c.ShouldBindJSON(&partial); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	m := h.managerFor(c)
	state := m.Update(c.Request.Context(), partial)
	response.OK(c, gin.H{
		"consent":    state,
		"hasDecided": state.HasDecided(),
	})
}

// Revoke handles DELETE /api/consent. Deletes the record and resets to
// defaults.
func (h *Handler) Revoke(c *gin.Context) {
	m := h.managerFor(c)
	m.Revoke(c.Request.Context())
	response.NoContent(c)
}

func (h *Handler) managerFor(c *gin.Context) *Manager {
	id, err := c.Cookie(visitorCookie)
	if err != nil || uuid.Validate(id) != nil {
		id = uuid.NewString()
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(visitorCookie, id, cookieMaxAge, "/", "", false, true)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	now := h.now()
	s, ok := h.sessions[id]
	if !ok {
		h.evictLocked(now)
		s = &session{manager: NewManager(h.store, "consent:"+id, h.logger)}
		h.sessions[id] = s
	}
	s.lastSeen = now
	return s.manager
}

// evictLocked drops idle sessions and, if the cache is still full, the
// least recently seen one. Called with h.mu held before every insert, so
// the cache never exceeds maxSessions.
func (h *Handler) evictLocked(now time.Time) {
	for id, s := range h.sessions {
		if now.Sub(s.lastSeen) > h.sessionTTL {
			delete(h.sessions, id)
		}
	}
	for len(h.sessions) >= h.maxSessions {
		oldestID := ""
		var oldest time.Time
		for id, s := range h.sessions {
			if oldestID == "" || s.lastSeen.Before(oldest) {
				oldestID = id
				oldest = s.lastSeen
			}
		}
		delete(h.sessions, oldestID)
	}
}
