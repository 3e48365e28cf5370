package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/weftworks/garment-backoffice/internal/repository"
	"github.com/weftworks/garment-backoffice/internal/service"
)

// BillHandler serves /bill: the bill head only, no line-item composition.
type BillHandler struct {
	Repo *repository.BillRepo
}

func NewBillHandler(repo *repository.BillRepo) *BillHandler { return &BillHandler{Repo: repo} }

func (h *BillHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()
	items, err := h.Repo.List(ctx)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *BillHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()
	b, err := h.Repo.GetByID(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, b)
}

func (h *BillHandler) Create(c echo.Context) error {
	code := strings.TrimSpace(c.FormValue("bill_code"))
	employeeID, okE := formUint(c, "employee_id")
	paymentID, okP := formUint(c, "payment_id")
	total, okT := formFloat(c, "total")
	if !okE || !okP || !okT {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid numeric field"})
	}
	if code == "" || employeeID == nil || paymentID == nil || total == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Missing required fields"})
	}
	b := repository.Bill{
		BillCode:   code,
		EmployeeID: *employeeID,
		PaymentID:  *paymentID,
		Total:      *total,
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()
	if err := h.Repo.Insert(ctx, &b); err != nil {
		return writeError(c, err)
	}
	service.Audit(actorID(c), "create", "bill", b.ID)
	return c.JSON(http.StatusCreated, b)
}

func (h *BillHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid id"})
	}
	employeeID, okE := formUint(c, "employee_id")
	paymentID, okP := formUint(c, "payment_id")
	total, okT := formFloat(c, "total")
	if !okE || !okP || !okT {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid numeric field"})
	}
	patch := repository.BillPatch{
		BillCode:   formString(c, "bill_code"),
		EmployeeID: employeeID,
		PaymentID:  paymentID,
		Total:      total,
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()
	if err := h.Repo.Update(ctx, id, patch); err != nil {
		return writeError(c, err)
	}
	service.Audit(actorID(c), "update", "bill", id)
	return c.JSON(http.StatusOK, echo.Map{"message": "Updated"})
}

func (h *BillHandler) SoftDelete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()
	if err := h.Repo.SoftDelete(ctx, id); err != nil {
		return writeError(c, err)
	}
	service.Audit(actorID(c), "delete", "bill", id)
	return c.JSON(http.StatusOK, echo.Map{"message": "Deleted"})
}
