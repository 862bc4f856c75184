package handler

import (
	"net/http"

	"github.com/mcoot/gccache/internal/api/apierr"
	"github.com/mcoot/gccache/internal/api/request"
	"github.com/mcoot/gccache/internal/api/response"
	"github.com/mcoot/gccache/internal/cache"
	"github.com/mcoot/gccache/internal/model"
	"github.com/mcoot/gccache/internal/session"
)

// SessionHandler handles the remote session lifecycle endpoints
type SessionHandler struct {
	store    *cache.Store
	sessions *session.Manager
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(store *cache.Store, sessions *session.Manager) *SessionHandler {
	return &SessionHandler{
		store:    store,
		sessions: sessions,
	}
}

func (h *SessionHandler) state() response.Session {
	resp := response.Session{State: string(h.sessions.State())}
	if c := h.sessions.ActiveCache(); c != nil {
		p := profileResponse(h.sessions, c)
		resp.Active = &p
	}
	if c := h.sessions.AuthenticatedCache(); c != nil {
		p := profileResponse(h.sessions, c)
		resp.Authenticated = &p
	}
	return resp
}

// Get handles GET /api/v1/session
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	response.OK(w, h.state())
}

// Launch handles POST /api/v1/session/launch
// Waits for the login to resolve unless called with ?wait=false.
func (h *SessionHandler) Launch(w http.ResponseWriter, r *http.Request) {
	result := h.sessions.Launch(r.Context())

	if r.URL.Query().Get("wait") == "false" {
		response.JSON(w, http.StatusAccepted, h.state())
		return
	}

	select {
	case res := <-result:
		if res.Err != nil {
			WriteError(w, res.Err)
			return
		}
		response.OK(w, h.state())
	case <-r.Context().Done():
	}
}

// Shutdown handles POST /api/v1/session/shutdown
func (h *SessionHandler) Shutdown(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Shutdown(r.Context()); err != nil {
		WriteError(w, err)
		return
	}
	response.OK(w, h.state())
}

// Activate handles PUT /api/v1/session/active
func (h *SessionHandler) Activate(w http.ResponseWriter, r *http.Request) {
	var req request.ActivateRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}
	if req.Fingerprint == "" {
		WriteError(w, apierr.NewInvalidRequestError("fingerprint is required"))
		return
	}

	c, ok := h.store.Lookup(model.Fingerprint(req.Fingerprint))
	if !ok {
		WriteError(w, model.ErrProfileNotFound)
		return
	}
	if err := h.sessions.Activate(c); err != nil {
		WriteError(w, err)
		return
	}
	response.OK(w, h.state())
}
