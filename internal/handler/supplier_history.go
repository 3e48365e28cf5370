package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/weftworks/garment-backoffice/internal/repository"
	"github.com/weftworks/garment-backoffice/internal/service"
)

// SupplierHistoryHandler serves /supplier_fabric_history: the intake ledger
// of fabric deliveries per supplier and roll.
type SupplierHistoryHandler struct {
	Repo *repository.SupplierHistoryRepo
}

func NewSupplierHistoryHandler(repo *repository.SupplierHistoryRepo) *SupplierHistoryHandler {
	return &SupplierHistoryHandler{Repo: repo}
}

func (h *SupplierHistoryHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()
	items, err := h.Repo.List(ctx)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *SupplierHistoryHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()
	rec, err := h.Repo.GetByID(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, rec)
}

func (h *SupplierHistoryHandler) Create(c echo.Context) error {
	supplierID, okS := formUint(c, "supplier_id")
	rollID, okR := formUint(c, "roll_id")
	qty, okQ := formFloat(c, "qty_m")
	price, okP := formFloat(c, "price_per_m")
	received, okD := formDate(c, "received_at")
	if !okS || !okR || !okQ || !okP || !okD {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid field"})
	}
	if supplierID == nil || rollID == nil || qty == nil || price == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "supplier_id, roll_id, qty_m & price_per_m are required"})
	}

	rec := repository.SupplierHistory{
		SupplierID: *supplierID,
		RollID:     *rollID,
		QtyM:       *qty,
		PricePerM:  *price,
		ReceivedAt: received,
		Note:       formString(c, "note"),
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()
	if err := h.Repo.Insert(ctx, &rec); err != nil {
		return writeError(c, err)
	}
	service.Audit(actorID(c), "create", "supplier_fabric_history", rec.ID)
	return c.JSON(http.StatusCreated, rec)
}

func (h *SupplierHistoryHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid id"})
	}
	supplierID, okS := formUint(c, "supplier_id")
	rollID, okR := formUint(c, "roll_id")
	qty, okQ := formFloat(c, "qty_m")
	price, okP := formFloat(c, "price_per_m")
	received, okD := formDate(c, "received_at")
	if !okS || !okR || !okQ || !okP || !okD {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid field"})
	}
	patch := repository.SupplierHistoryPatch{
		SupplierID: supplierID,
		RollID:     rollID,
		QtyM:       qty,
		PricePerM:  price,
		ReceivedAt: received,
		Note:       formString(c, "note"),
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()
	if err := h.Repo.Update(ctx, id, patch); err != nil {
		return writeError(c, err)
	}
	service.Audit(actorID(c), "update", "supplier_fabric_history", id)
	return c.JSON(http.StatusOK, echo.Map{"message": "Updated"})
}

func (h *SupplierHistoryHandler) SoftDelete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()
	if err := h.Repo.SoftDelete(ctx, id); err != nil {
		return writeError(c, err)
	}
	service.Audit(actorID(c), "delete", "supplier_fabric_history", id)
	return c.JSON(http.StatusOK, echo.Map{"message": "Deleted"})
}
