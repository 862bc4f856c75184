package handler

import (
	"net/http"

	"github.com/mcoot/gccache/internal/api/response"
	"github.com/mcoot/gccache/internal/cache"
	"github.com/mcoot/gccache/internal/session"
)

// HealthHandler reports daemon liveness
type HealthHandler struct {
	store    *cache.Store
	sessions *session.Manager
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(store *cache.Store, sessions *session.Manager) *HealthHandler {
	return &HealthHandler{store: store, sessions: sessions}
}

// Get handles GET /api/v1/health
func (h *HealthHandler) Get(w http.ResponseWriter, r *http.Request) {
	response.OK(w, response.Health{
		Status:   "ok",
		Profiles: len(h.store.CachedProfiles()),
		Session:  string(h.sessions.State()),
	})
}
