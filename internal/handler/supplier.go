package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/weftworks/garment-backoffice/internal/repository"
	"github.com/weftworks/garment-backoffice/internal/service"
)

// SupplierHandler serves /suppliers.
type SupplierHandler struct {
	Repo *repository.SupplierRepo
}

func NewSupplierHandler(repo *repository.SupplierRepo) *SupplierHandler {
	return &SupplierHandler{Repo: repo}
}

func (h *SupplierHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()
	items, err := h.Repo.List(ctx)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *SupplierHandler) Get(c echo.Context) error {
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

func (h *SupplierHandler) Create(c echo.Context) error {
	name := strings.TrimSpace(c.FormValue("name"))
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "name is required"})
	}
	s := repository.Supplier{
		Name:    name,
		Phone:   formString(c, "phone"),
		Address: formString(c, "address"),
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()
	if err := h.Repo.Insert(ctx, &s); err != nil {
		return writeError(c, err)
	}
	service.Audit(actorID(c), "create", "suppliers", s.ID)
	return c.JSON(http.StatusCreated, s)
}

func (h *SupplierHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid id"})
	}
	patch := repository.SupplierPatch{
		Name:    formString(c, "name"),
		Phone:   formString(c, "phone"),
		Address: formString(c, "address"),
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()
	if err := h.Repo.Update(ctx, id, patch); err != nil {
		return writeError(c, err)
	}
	service.Audit(actorID(c), "update", "suppliers", id)
	return c.JSON(http.StatusOK, echo.Map{"message": "Updated"})
}

func (h *SupplierHandler) SoftDelete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()
	if err := h.Repo.SoftDelete(ctx, id); err != nil {
		return writeError(c, err)
	}
	service.Audit(actorID(c), "delete", "suppliers", id)
	return c.JSON(http.StatusOK, echo.Map{"message": "Deleted"})
}
