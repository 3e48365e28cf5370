package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/weftworks/garment-backoffice/internal/repository"
	"github.com/weftworks/garment-backoffice/internal/service"
)

// FabricUsageHandler serves /fabricusage. This table records stock
// consumption and is the one resource that hard-deletes.
type FabricUsageHandler struct {
	Repo *repository.FabricUsageRepo
}

func NewFabricUsageHandler(repo *repository.FabricUsageRepo) *FabricUsageHandler {
	return &FabricUsageHandler{Repo: repo}
}

func (h *FabricUsageHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()
	items, err := h.Repo.List(ctx)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *FabricUsageHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()
	u, err := h.Repo.GetByID(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, u)
}

func (h *FabricUsageHandler) Create(c echo.Context) error {
	rollID, okR := formUint(c, "roll_id")
	sizeID, okS := formUint(c, "size_id")
	qty, okQ := formUint32(c, "qty")
	totalUseM, okT := formFloat(c, "total_use_m")
	if !okR || !okS || !okQ || !okT {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid numeric field"})
	}
	if rollID == nil || sizeID == nil || qty == nil || totalUseM == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Missing required fields"})
	}
	u := repository.FabricUsage{
		RollID:    *rollID,
		SizeID:    *sizeID,
		Qty:       *qty,
		TotalUseM: *totalUseM,
		Note:      formString(c, "note"),
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()
	if err := h.Repo.Insert(ctx, &u); err != nil {
		return writeError(c, err)
	}
	service.Audit(actorID(c), "create", "fabricusage", u.ID)
	return c.JSON(http.StatusCreated, u)
}

func (h *FabricUsageHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid id"})
	}
	rollID, okR := formUint(c, "roll_id")
	sizeID, okS := formUint(c, "size_id")
	qty, okQ := formUint32(c, "qty")
	totalUseM, okT := formFloat(c, "total_use_m")
	if !okR || !okS || !okQ || !okT {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid numeric field"})
	}
	patch := repository.FabricUsagePatch{
		RollID:    rollID,
		SizeID:    sizeID,
		Qty:       qty,
		TotalUseM: totalUseM,
		Note:      formString(c, "note"),
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()
	if err := h.Repo.Update(ctx, id, patch); err != nil {
		return writeError(c, err)
	}
	service.Audit(actorID(c), "update", "fabricusage", id)
	return c.JSON(http.StatusOK, echo.Map{"message": "Updated"})
}

// Delete handles DELETE /fabricusage/:id, removing the row permanently.
func (h *FabricUsageHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()
	if err := h.Repo.Delete(ctx, id); err != nil {
		return writeError(c, err)
	}
	service.Audit(actorID(c), "delete", "fabricusage", id)
	return c.JSON(http.StatusOK, echo.Map{"message": "Deleted"})
}
