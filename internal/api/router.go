package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/gccache/internal/api/apierr"
	"github.com/mcoot/gccache/internal/api/handler"
	"github.com/mcoot/gccache/internal/api/middleware"
	"github.com/mcoot/gccache/internal/cache"
	"github.com/mcoot/gccache/internal/catalog"
	"github.com/mcoot/gccache/internal/events"
	httpmiddleware "github.com/mcoot/gccache/internal/middleware"
	"github.com/mcoot/gccache/internal/session"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger   *slog.Logger
	Store    *cache.Store
	Sessions *session.Manager
	Catalog  *catalog.Registry
	// Events is optional; without it /events is not served
	Events *events.Hub
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	profileHandler := handler.NewProfileHandler(cfg.Store, cfg.Sessions)
	catalogHandler := handler.NewCatalogHandler(cfg.Catalog)
	sessionHandler := handler.NewSessionHandler(cfg.Store, cfg.Sessions)
	healthHandler := handler.NewHealthHandler(cfg.Store, cfg.Sessions)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(httpmiddleware.Recovery(cfg.Logger, apierr.PanicHandler))
	api.Use(httpmiddleware.Logging(cfg.Logger))

	api.HandleFunc("/health", healthHandler.Get).Methods(http.MethodGet)

	// Profile collection
	api.HandleFunc("/profiles", profileHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/profiles", profileHandler.Create).Methods(http.MethodPost)

	// Routes on a single profile resolve {fingerprint} first
	profile := api.PathPrefix("/profiles/{fingerprint}").Subrouter()
	profile.Use(middleware.Profile(cfg.Store, cfg.Sessions))
	profile.HandleFunc("", profileHandler.Get).Methods(http.MethodGet)
	profile.HandleFunc("", profileHandler.Rename).Methods(http.MethodPatch)
	profile.HandleFunc("", profileHandler.Delete).Methods(http.MethodDelete)
	profile.HandleFunc("/scores", profileHandler.Scores).Methods(http.MethodGet)
	profile.HandleFunc("/scores", profileHandler.SubmitScore).Methods(http.MethodPost)
	profile.HandleFunc("/achievements", profileHandler.Achievements).Methods(http.MethodGet)
	profile.HandleFunc("/achievements/{id}/unlock", profileHandler.Unlock).Methods(http.MethodPost)
	profile.HandleFunc("/achievements/{id}/progress", profileHandler.Progress).Methods(http.MethodPost)
	profile.HandleFunc("/save", profileHandler.Save).Methods(http.MethodPost)
	profile.HandleFunc("/sync", profileHandler.Sync).Methods(http.MethodPost)
	profile.HandleFunc("/reset", profileHandler.Reset).Methods(http.MethodPost)

	// Catalog routes
	api.HandleFunc("/catalog/achievements", catalogHandler.Achievements).Methods(http.MethodGet)
	api.HandleFunc("/catalog/achievements", catalogHandler.RegisterAchievements).Methods(http.MethodPut)
	api.HandleFunc("/catalog/leaderboards", catalogHandler.Leaderboards).Methods(http.MethodGet)
	api.HandleFunc("/catalog/leaderboards", catalogHandler.RegisterLeaderboards).Methods(http.MethodPut)

	// Session routes
	api.HandleFunc("/session", sessionHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/session/launch", sessionHandler.Launch).Methods(http.MethodPost)
	api.HandleFunc("/session/shutdown", sessionHandler.Shutdown).Methods(http.MethodPost)
	api.HandleFunc("/session/active", sessionHandler.Activate).Methods(http.MethodPut)

	if cfg.Events != nil {
		api.HandleFunc("/events", handler.NewEventsHandler(cfg.Events).Stream).Methods(http.MethodGet)
	}

	return r
}
