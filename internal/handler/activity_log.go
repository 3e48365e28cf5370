package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/weftworks/garment-backoffice/internal/repository"
)

// ActivityLogHandler serves /activity_logs, the read side of the audit
// trail written by the queue consumer.
type ActivityLogHandler struct {
	Repo *repository.ActivityLogRepo
}

func NewActivityLogHandler(repo *repository.ActivityLogRepo) *ActivityLogHandler {
	return &ActivityLogHandler{Repo: repo}
}

// List handles GET /activity_logs?limit=N, newest first.
func (h *ActivityLogHandler) List(c echo.Context) error {
	limit := 100
	if s := c.QueryParam("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid limit"})
		}
		limit = n
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()
	items, err := h.Repo.List(ctx, limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}
