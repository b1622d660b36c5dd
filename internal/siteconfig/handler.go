package siteconfig

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handler serves the loaded documents verbatim.
type Handler struct {
	docs *Documents
}

// NewHandler creates a siteconfig handler.
func NewHandler(docs *Documents) *Handler {
	return &Handler{docs: docs}
}

// GetConfig handles GET /api/config.
func (h *Handler) GetConfig(c *gin.Context) {
	c.Data(http.StatusOK, "application/json", h.docs.Config)
}

// GetImages handles GET /api/images.
func (h *Handler) GetImages(c *gin.Context) {
	c.Data(http.StatusOK, "application/json", h.docs.Images)
}
