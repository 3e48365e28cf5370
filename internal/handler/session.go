package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/weftworks/garment-backoffice/internal/repository"
	"github.com/weftworks/garment-backoffice/internal/service"
)

// SessionHandler serves /tokens: the admin view over the token ledger, for
// inspecting and force-revoking live sessions.
type SessionHandler struct {
	Tokens   *repository.TokenRepo
	Sessions *service.Sessions
}

func NewSessionHandler(tokens *repository.TokenRepo, sessions *service.Sessions) *SessionHandler {
	return &SessionHandler{Tokens: tokens, Sessions: sessions}
}

// List handles GET /tokens.
func (h *SessionHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()
	items, err := h.Tokens.ListActive(ctx)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

// Revoke handles DELETE /tokens/:id, killing one session regardless of who
// owns it.
func (h *SessionHandler) Revoke(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()
	if err := h.Sessions.RevokeByID(ctx, id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Revoked"})
}
