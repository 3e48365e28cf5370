package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/weftworks/garment-backoffice/internal/repository"
	"github.com/weftworks/garment-backoffice/internal/service"
)

// EmployeeHandler serves /employee.
type EmployeeHandler struct {
	Repo *repository.EmployeeRepo
}

func NewEmployeeHandler(repo *repository.EmployeeRepo) *EmployeeHandler {
	return &EmployeeHandler{Repo: repo}
}

func (h *EmployeeHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()
	items, err := h.Repo.List(ctx)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *EmployeeHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()
	e, err := h.Repo.GetByID(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, e)
}

func (h *EmployeeHandler) Create(c echo.Context) error {
	first := strings.TrimSpace(c.FormValue("first_name"))
	last := strings.TrimSpace(c.FormValue("last_name"))
	if first == "" || last == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "first_name & last_name are required"})
	}
	e := repository.Employee{
		FirstName: first,
		LastName:  last,
		Phone:     formString(c, "phone"),
		Position:  formString(c, "position"),
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()
	if err := h.Repo.Insert(ctx, &e); err != nil {
		return writeError(c, err)
	}
	service.Audit(actorID(c), "create", "employee", e.ID)
	return c.JSON(http.StatusCreated, e)
}

func (h *EmployeeHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid id"})
	}
	patch := repository.EmployeePatch{
		FirstName: formString(c, "first_name"),
		LastName:  formString(c, "last_name"),
		Phone:     formString(c, "phone"),
		Position:  formString(c, "position"),
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()
	if err := h.Repo.Update(ctx, id, patch); err != nil {
		return writeError(c, err)
	}
	service.Audit(actorID(c), "update", "employee", id)
	return c.JSON(http.StatusOK, echo.Map{"message": "Updated"})
}

func (h *EmployeeHandler) SoftDelete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()
	if err := h.Repo.SoftDelete(ctx, id); err != nil {
		return writeError(c, err)
	}
	service.Audit(actorID(c), "delete", "employee", id)
	return c.JSON(http.StatusOK, echo.Map{"message": "Deleted"})
}
