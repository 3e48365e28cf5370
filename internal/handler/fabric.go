package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/weftworks/garment-backoffice/internal/repository"
	"github.com/weftworks/garment-backoffice/internal/service"
)

// defaultFabricStatus is assigned when a fabric is created without one.
const defaultFabricStatus = "ready"

// FabricHandler serves /fabric.
type FabricHandler struct {
	Repo *repository.FabricRepo
	Co   *service.Coordinator
}

func NewFabricHandler(repo *repository.FabricRepo, co *service.Coordinator) *FabricHandler {
	return &FabricHandler{Repo: repo, Co: co}
}

func (h *FabricHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()
	items, err := h.Repo.List(ctx)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *FabricHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()
	f, err := h.Repo.GetByID(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, f)
}

func (h *FabricHandler) Create(c echo.Context) error {
	name := strings.TrimSpace(c.FormValue("name_f"))
	width, okW := formFloat(c, "width_cm")
	weight, okG := formFloat(c, "weight_gm")
	thickness, okT := formFloat(c, "thickness_mm")
	if !okW || !okG || !okT {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid numeric field"})
	}
	if name == "" || width == nil || weight == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Missing required fields"})
	}
	status := strings.TrimSpace(c.FormValue("status_f"))
	if status == "" {
		status = defaultFabricStatus
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()

	f := repository.Fabric{
		Name:        name,
		WidthCm:     *width,
		WeightGm:    *weight,
		ThicknessMm: thickness,
		Status:      status,
	}
	err := h.Co.Create(ctx, imageFile(c), func(ctx context.Context, imageURL *string) error {
		f.Image = imageURL
		return h.Repo.Insert(ctx, &f)
	})
	if err != nil {
		return writeError(c, err)
	}
	service.Audit(actorID(c), "create", "fabric", f.ID)
	return c.JSON(http.StatusCreated, f)
}

func (h *FabricHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid id"})
	}
	width, okW := formFloat(c, "width_cm")
	weight, okG := formFloat(c, "weight_gm")
	thickness, okT := formFloat(c, "thickness_mm")
	if !okW || !okG || !okT {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid numeric field"})
	}
	patch := repository.FabricPatch{
		Name:        formString(c, "name_f"),
		WidthCm:     width,
		WeightGm:    weight,
		ThicknessMm: thickness,
		Status:      formString(c, "status_f"),
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()

	err = h.Co.Update(ctx, imageFile(c), service.AttachmentUpdate{
		ReadCurrent: func(ctx context.Context, tx *sql.Tx) (*string, error) {
			return h.Repo.CurrentImageTx(ctx, tx, id)
		},
		Apply: func(ctx context.Context, tx *sql.Tx, imageURL *string) (int64, error) {
			return h.Repo.UpdateTx(ctx, tx, id, patch, imageURL)
		},
	})
	if err != nil {
		return writeError(c, err)
	}
	service.Audit(actorID(c), "update", "fabric", id)
	return c.JSON(http.StatusOK, echo.Map{"message": "Updated"})
}

func (h *FabricHandler) SoftDelete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()
	if err := h.Repo.SoftDelete(ctx, id); err != nil {
		return writeError(c, err)
	}
	service.Audit(actorID(c), "delete", "fabric", id)
	return c.JSON(http.StatusOK, echo.Map{"message": "Deleted"})
}
