package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/weftworks/garment-backoffice/internal/repository"
	"github.com/weftworks/garment-backoffice/internal/service"
)

// ColorHandler serves /colors.
type ColorHandler struct {
	Repo *repository.ColorRepo
}

func NewColorHandler(repo *repository.ColorRepo) *ColorHandler { return &ColorHandler{Repo: repo} }

func (h *ColorHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()
	items, err := h.Repo.List(ctx)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *ColorHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()
	col, err := h.Repo.GetByID(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, col)
}

func (h *ColorHandler) Create(c echo.Context) error {
	name := strings.TrimSpace(c.FormValue("colors_name"))
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "colors_name is required"})
	}
	col := repository.Color{Name: name, Detail: formString(c, "colors_detail")}

	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()
	if err := h.Repo.Insert(ctx, &col); err != nil {
		return writeError(c, err)
	}
	service.Audit(actorID(c), "create", "colors", col.ID)
	return c.JSON(http.StatusCreated, col)
}

func (h *ColorHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid id"})
	}
	patch := repository.ColorPatch{
		Name:   formString(c, "colors_name"),
		Detail: formString(c, "colors_detail"),
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()
	if err := h.Repo.Update(ctx, id, patch); err != nil {
		return writeError(c, err)
	}
	service.Audit(actorID(c), "update", "colors", id)
	return c.JSON(http.StatusOK, echo.Map{"message": "Updated"})
}

func (h *ColorHandler) SoftDelete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()
	if err := h.Repo.SoftDelete(ctx, id); err != nil {
		return writeError(c, err)
	}
	service.Audit(actorID(c), "delete", "colors", id)
	return c.JSON(http.StatusOK, echo.Map{"message": "Deleted"})
}
