package handlers

import (
	"net/http"

	"gashpwh-sim/internal/api/models"

	"github.com/gin-gonic/gin"
)

// ProfilesHandler serves the draw profile catalog
type ProfilesHandler struct {
	store *ProfileStore
}

func NewProfilesHandler(store *ProfileStore) *ProfilesHandler {
	return &ProfilesHandler{store: store}
}

// ListProfiles handles GET /api/v1/profiles
func (h *ProfilesHandler) ListProfiles(c *gin.Context) {
	resp := models.ProfilesResponse{Profiles: h.store.Entries()}
	if h.store != nil && h.store.Catalog != nil {
		resp.UpdatedAt = h.store.Catalog.UpdatedAt
	}
	c.JSON(http.StatusOK, resp)
}
