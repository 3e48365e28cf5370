package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/weftworks/garment-backoffice/internal/repository"
	"github.com/weftworks/garment-backoffice/internal/service"
)

// FabricTypeHandler serves /fabrictypes, the lookup table fabric_rolls.type_id
// resolves against.
type FabricTypeHandler struct {
	Repo *repository.FabricTypeRepo
}

func NewFabricTypeHandler(repo *repository.FabricTypeRepo) *FabricTypeHandler {
	return &FabricTypeHandler{Repo: repo}
}

func (h *FabricTypeHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()
	items, err := h.Repo.List(ctx)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *FabricTypeHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()
	t, err := h.Repo.GetByID(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

func (h *FabricTypeHandler) Create(c echo.Context) error {
	name := strings.TrimSpace(c.FormValue("type_name"))
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "type_name is required"})
	}
	t := repository.FabricType{
		TypeName: name,
		Detail:   formString(c, "detail"),
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()
	if err := h.Repo.Insert(ctx, &t); err != nil {
		return writeError(c, err)
	}
	service.Audit(actorID(c), "create", "fabrictypes", t.ID)
	return c.JSON(http.StatusCreated, t)
}

func (h *FabricTypeHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid id"})
	}
	patch := repository.FabricTypePatch{
		TypeName: formString(c, "type_name"),
		Detail:   formString(c, "detail"),
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()
	if err := h.Repo.Update(ctx, id, patch); err != nil {
		return writeError(c, err)
	}
	service.Audit(actorID(c), "update", "fabrictypes", id)
	return c.JSON(http.StatusOK, echo.Map{"message": "Updated"})
}

func (h *FabricTypeHandler) SoftDelete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()
	if err := h.Repo.SoftDelete(ctx, id); err != nil {
		return writeError(c, err)
	}
	service.Audit(actorID(c), "delete", "fabrictypes", id)
	return c.JSON(http.StatusOK, echo.Map{"message": "Deleted"})
}
