package handler

import (
	"net/http"

	"github.com/mcoot/gccache/internal/api/apierr"
	"github.com/mcoot/gccache/internal/api/request"
	"github.com/mcoot/gccache/internal/api/response"
	"github.com/mcoot/gccache/internal/catalog"
	"github.com/mcoot/gccache/internal/model"
)

// CatalogHandler handles achievement and leaderboard registration
type CatalogHandler struct {
	registry *catalog.Registry
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(registry *catalog.Registry) *CatalogHandler {
	return &CatalogHandler{registry: registry}
}

// Achievements handles GET /api/v1/catalog/achievements
func (h *CatalogHandler) Achievements(w http.ResponseWriter, r *http.Request) {
	response.OK(w, response.AchievementCatalog{Achievements: h.registry.Achievements()})
}

// RegisterAchievements handles PUT /api/v1/catalog/achievements
func (h *CatalogHandler) RegisterAchievements(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterAchievementsRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	h.registry.RegisterAchievements(req.Achievements)
	response.OK(w, response.AchievementCatalog{Achievements: h.registry.Achievements()})
}

// Leaderboards handles GET /api/v1/catalog/leaderboards
func (h *CatalogHandler) Leaderboards(w http.ResponseWriter, r *http.Request) {
	response.OK(w, response.LeaderboardsFromModel(h.registry.Leaderboards()))
}

// RegisterLeaderboards handles PUT /api/v1/catalog/leaderboards
func (h *CatalogHandler) RegisterLeaderboards(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterLeaderboardsRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	boards := make([]model.Leaderboard, 0, len(req.Leaderboards))
	for _, lb := range req.Leaderboards {
		order := model.SortOrder(lb.Order)
		switch order {
		case "", model.SortDescending, model.SortAscending:
		default:
			WriteError(w, apierr.NewInvalidRequestError("order must be asc or desc"))
			return
		}
		boards = append(boards, model.Leaderboard{ID: lb.ID, Order: order})
	}

	h.registry.RegisterLeaderboards(boards)
	response.OK(w, response.LeaderboardsFromModel(h.registry.Leaderboards()))
}
