package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/weftworks/garment-backoffice/internal/repository"
	"github.com/weftworks/garment-backoffice/internal/service"
)

// SizeHandler serves /sizes.
type SizeHandler struct {
	Repo *repository.SizeRepo
}

func NewSizeHandler(repo *repository.SizeRepo) *SizeHandler { return &SizeHandler{Repo: repo} }

func (h *SizeHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()
	items, err := h.Repo.List(ctx)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *SizeHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()
	s, err := h.Repo.GetByID(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, s)
}

func (h *SizeHandler) Create(c echo.Context) error {
	code := strings.ToUpper(strings.TrimSpace(c.FormValue("size_code")))
	useM, ok := formFloat(c, "use_m")
	if code == "" || useM == nil || !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "size_code & use_m are required"})
	}
	s := repository.Size{SizeCode: code, UseM: *useM}

	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()
	if err := h.Repo.Insert(ctx, &s); err != nil {
		return writeError(c, err)
	}
	service.Audit(actorID(c), "create", "sizes", s.ID)
	return c.JSON(http.StatusCreated, s)
}

func (h *SizeHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid id"})
	}
	useM, ok := formFloat(c, "use_m")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid use_m"})
	}
	patch := repository.SizePatch{SizeCode: formString(c, "size_code"), UseM: useM}

	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()
	if err := h.Repo.Update(ctx, id, patch); err != nil {
		return writeError(c, err)
	}
	service.Audit(actorID(c), "update", "sizes", id)
	return c.JSON(http.StatusOK, echo.Map{"message": "Updated"})
}

func (h *SizeHandler) SoftDelete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()
	if err := h.Repo.SoftDelete(ctx, id); err != nil {
		return writeError(c, err)
	}
	service.Audit(actorID(c), "delete", "sizes", id)
	return c.JSON(http.StatusOK, echo.Map{"message": "Deleted"})
}
