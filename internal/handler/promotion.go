package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/weftworks/garment-backoffice/internal/repository"
	"github.com/weftworks/garment-backoffice/internal/service"
)

// PromotionHandler serves /promotion.
type PromotionHandler struct {
	Repo *repository.PromotionRepo
}

func NewPromotionHandler(repo *repository.PromotionRepo) *PromotionHandler {
	return &PromotionHandler{Repo: repo}
}

func (h *PromotionHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()
	items, err := h.Repo.List(ctx)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *PromotionHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()
	p, err := h.Repo.GetByID(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *PromotionHandler) Create(c echo.Context) error {
	code := strings.TrimSpace(c.FormValue("promo_code"))
	discount, okD := formFloat(c, "discount_percent")
	start, okS := formDate(c, "start_date")
	end, okE := formDate(c, "end_date")
	if !okD || !okS || !okE {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid field"})
	}
	if code == "" || discount == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "promo_code & discount_percent are required"})
	}
	p := repository.Promotion{
		PromoCode:       code,
		DiscountPercent: *discount,
		StartDate:       start,
		EndDate:         end,
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()
	if err := h.Repo.Insert(ctx, &p); err != nil {
		return writeError(c, err)
	}
	service.Audit(actorID(c), "create", "promotion", p.ID)
	return c.JSON(http.StatusCreated, p)
}

func (h *PromotionHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid id"})
	}
	discount, okD := formFloat(c, "discount_percent")
	start, okS := formDate(c, "start_date")
	end, okE := formDate(c, "end_date")
	if !okD || !okS || !okE {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid field"})
	}
	patch := repository.PromotionPatch{
		PromoCode:       formString(c, "promo_code"),
		DiscountPercent: discount,
		StartDate:       start,
		EndDate:         end,
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()
	if err := h.Repo.Update(ctx, id, patch); err != nil {
		return writeError(c, err)
	}
	service.Audit(actorID(c), "update", "promotion", id)
	return c.JSON(http.StatusOK, echo.Map{"message": "Updated"})
}

func (h *PromotionHandler) SoftDelete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()
	if err := h.Repo.SoftDelete(ctx, id); err != nil {
		return writeError(c, err)
	}
	service.Audit(actorID(c), "delete", "promotion", id)
	return c.JSON(http.StatusOK, echo.Map{"message": "Deleted"})
}
