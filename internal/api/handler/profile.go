package handler

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/mcoot/gccache/internal/api/apierr"
	"github.com/mcoot/gccache/internal/api/middleware"
	"github.com/mcoot/gccache/internal/api/request"
	"github.com/mcoot/gccache/internal/api/response"
	"github.com/mcoot/gccache/internal/cache"
	"github.com/mcoot/gccache/internal/model"
	"github.com/mcoot/gccache/internal/session"
)

// ProfileHandler handles profile, score and achievement endpoints
type ProfileHandler struct {
	store    *cache.Store
	sessions *session.Manager
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(store *cache.Store, sessions *session.Manager) *ProfileHandler {
	return &ProfileHandler{
		store:    store,
		sessions: sessions,
	}
}

// sessionFingerprints returns the active and authenticated fingerprints, empty if unset
func sessionFingerprints(sessions *session.Manager) (active, authenticated model.Fingerprint) {
	if c := sessions.ActiveCache(); c != nil {
		active = c.Fingerprint()
	}
	if c := sessions.AuthenticatedCache(); c != nil {
		authenticated = c.Fingerprint()
	}
	return active, authenticated
}

func profileResponse(sessions *session.Manager, c *cache.Cache) response.Profile {
	active, authenticated := sessionFingerprints(sessions)
	return response.ProfileFromSummary(c.Summary(), active, authenticated)
}

func (h *ProfileHandler) detail(c *cache.Cache) response.ProfileDetail {
	return response.ProfileDetail{
		Profile:      profileResponse(h.sessions, c),
		Dirty:        c.Dirty(),
		Scores:       c.AllScores(),
		Achievements: response.AchievementsFromModel(c.AllAchievements()),
	}
}

// List handles GET /api/v1/profiles
func (h *ProfileHandler) List(w http.ResponseWriter, r *http.Request) {
	active, authenticated := sessionFingerprints(h.sessions)
	summaries := h.store.CachedProfiles()

	profiles := make([]response.Profile, len(summaries))
	for i, s := range summaries {
		profiles[i] = response.ProfileFromSummary(s, active, authenticated)
	}
	response.OK(w, response.ProfileList{Profiles: profiles})
}

// Create handles POST /api/v1/profiles
// Returns the existing profile if one matches.
func (h *ProfileHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	c, err := h.store.CacheForProfile(model.Profile{
		PlayerID:  model.PlayerID(strings.TrimSpace(req.PlayerID)),
		Name:      strings.TrimSpace(req.Name),
		IsDefault: req.IsDefault,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.OK(w, profileResponse(h.sessions, c))
}

// Get handles GET /api/v1/profiles/{fingerprint}
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	response.OK(w, h.detail(middleware.MustGetCache(r.Context())))
}

// Rename handles PATCH /api/v1/profiles/{fingerprint}
func (h *ProfileHandler) Rename(w http.ResponseWriter, r *http.Request) {
	c := middleware.MustGetCache(r.Context())

	var req request.RenameProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	changed, err := c.Rename(strings.TrimSpace(req.Name))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.OK(w, response.Changed{Changed: changed})
}

// Delete handles DELETE /api/v1/profiles/{fingerprint}
func (h *ProfileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	c := middleware.MustGetCache(r.Context())

	removed, err := c.Remove(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.OK(w, response.Removed{Removed: removed})
}

// Scores handles GET /api/v1/profiles/{fingerprint}/scores
func (h *ProfileHandler) Scores(w http.ResponseWriter, r *http.Request) {
	c := middleware.MustGetCache(r.Context())
	response.OK(w, response.Scores{Scores: c.AllScores()})
}

// SubmitScore handles POST /api/v1/profiles/{fingerprint}/scores
func (h *ProfileHandler) SubmitScore(w http.ResponseWriter, r *http.Request) {
	c := middleware.MustGetCache(r.Context())

	var req request.SubmitScoreRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}
	if req.Score == nil {
		WriteError(w, apierr.NewInvalidRequestError("score is required"))
		return
	}

	changed, err := c.SubmitScore(*req.Score, req.Leaderboard)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.OK(w, response.Changed{Changed: changed})
}

// Achievements handles GET /api/v1/profiles/{fingerprint}/achievements
func (h *ProfileHandler) Achievements(w http.ResponseWriter, r *http.Request) {
	c := middleware.MustGetCache(r.Context())
	response.OK(w, response.Achievements{Achievements: response.AchievementsFromModel(c.AllAchievements())})
}

// Unlock handles POST /api/v1/profiles/{fingerprint}/achievements/{id}/unlock
func (h *ProfileHandler) Unlock(w http.ResponseWriter, r *http.Request) {
	c := middleware.MustGetCache(r.Context())

	changed, err := c.UnlockAchievement(mux.Vars(r)["id"])
	if err != nil {
		WriteError(w, err)
		return
	}
	response.OK(w, response.Changed{Changed: changed})
}

// Progress handles POST /api/v1/profiles/{fingerprint}/achievements/{id}/progress
func (h *ProfileHandler) Progress(w http.ResponseWriter, r *http.Request) {
	c := middleware.MustGetCache(r.Context())

	var req request.SubmitProgressRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}
	if req.Progress == nil {
		WriteError(w, apierr.NewInvalidRequestError("progress is required"))
		return
	}

	changed, err := c.SubmitProgress(*req.Progress, mux.Vars(r)["id"])
	if err != nil {
		WriteError(w, err)
		return
	}
	response.OK(w, response.Changed{Changed: changed})
}

// Save handles POST /api/v1/profiles/{fingerprint}/save
func (h *ProfileHandler) Save(w http.ResponseWriter, r *http.Request) {
	c := middleware.MustGetCache(r.Context())

	if err := c.Save(r.Context()); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}

// Sync handles POST /api/v1/profiles/{fingerprint}/sync
func (h *ProfileHandler) Sync(w http.ResponseWriter, r *http.Request) {
	c := middleware.MustGetCache(r.Context())

	if err := c.Synchronize(r.Context()); err != nil {
		WriteError(w, err)
		return
	}
	response.OK(w, h.detail(c))
}

// Reset handles POST /api/v1/profiles/{fingerprint}/reset
func (h *ProfileHandler) Reset(w http.ResponseWriter, r *http.Request) {
	c := middleware.MustGetCache(r.Context())
	c.Reset()
	response.OK(w, h.detail(c))
}
