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

// FabricRollHandler serves /fabricrolls.
type FabricRollHandler struct {
	Repo *repository.FabricRollRepo
	Co   *service.Coordinator
}

func NewFabricRollHandler(repo *repository.FabricRollRepo, co *service.Coordinator) *FabricRollHandler {
	return &FabricRollHandler{Repo: repo, Co: co}
}

func (h *FabricRollHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()
	items, err := h.Repo.List(ctx)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *FabricRollHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()
	fr, err := h.Repo.GetByID(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, fr)
}

func (h *FabricRollHandler) Create(c echo.Context) error {
	rollCode := strings.TrimSpace(c.FormValue("roll_code"))
	name := strings.TrimSpace(c.FormValue("name"))
	typeID, okT := formUint(c, "type_id")
	pricePerM, okP := formFloat(c, "price_per_m")
	stockM, okS := formFloat(c, "stock_m")
	if !okT || !okP || !okS {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid numeric field"})
	}
	if rollCode == "" || name == "" || typeID == nil || pricePerM == nil || stockM == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Missing required fields"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()

	fr := repository.FabricRoll{
		RollCode:  rollCode,
		TypeID:    *typeID,
		Name:      name,
		PricePerM: *pricePerM,
		StockM:    *stockM,
	}
	err := h.Co.Create(ctx, imageFile(c), func(ctx context.Context, imageURL *string) error {
		fr.Image = imageURL
		return h.Repo.Insert(ctx, &fr)
	})
	if err != nil {
		return writeError(c, err)
	}
	service.Audit(actorID(c), "create", "fabricrolls", fr.ID)
	return c.JSON(http.StatusCreated, fr)
}

func (h *FabricRollHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid id"})
	}
	typeID, okT := formUint(c, "type_id")
	pricePerM, okP := formFloat(c, "price_per_m")
	stockM, okS := formFloat(c, "stock_m")
	if !okT || !okP || !okS {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid numeric field"})
	}
	patch := repository.FabricRollPatch{
		RollCode:  formString(c, "roll_code"),
		TypeID:    typeID,
		Name:      formString(c, "name"),
		PricePerM: pricePerM,
		StockM:    stockM,
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
	service.Audit(actorID(c), "update", "fabricrolls", id)
	return c.JSON(http.StatusOK, echo.Map{"message": "Updated"})
}

func (h *FabricRollHandler) SoftDelete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()
	if err := h.Repo.SoftDelete(ctx, id); err != nil {
		return writeError(c, err)
	}
	service.Audit(actorID(c), "delete", "fabricrolls", id)
	return c.JSON(http.StatusOK, echo.Map{"message": "Deleted"})
}
