package emaillog

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fahrschule-lenz/backend/pkg/response"
)

const defaultListLimit = 100

// Handler exposes the audit trail to the admin interface.
type Handler struct {
	repo *Repository
}

// NewHandler creates an email log handler. repo may be nil when no database
// is configured; the endpoint then reports the feature as unavailable.
func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// List handles GET /api/admin/emails. Returns the newest audit rows.
// Protected by the admin API key middleware.
func (h *Handler) List(c *gin.Context) {
	if h.repo == nil {
		response.ServiceUnavailable(c, "email audit trail is not configured")
		return
	}
	limit := defaultListLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 1000 {
			response.BadRequest(c, "invalid limit")
			return
		}
		limit = n
	}
	logs, err := h.repo.List(c.Request.Context(), limit)
	if err != nil {
		response.Internal(c, "failed to load email logs")
		return
	}
	response.OK(c, logs)
}
