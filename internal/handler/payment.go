package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/weftworks/garment-backoffice/internal/repository"
	"github.com/weftworks/garment-backoffice/internal/service"
)

// PaymentHandler serves /payment.
type PaymentHandler struct {
	Repo *repository.PaymentRepo
}

func NewPaymentHandler(repo *repository.PaymentRepo) *PaymentHandler {
	return &PaymentHandler{Repo: repo}
}

func (h *PaymentHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()
	items, err := h.Repo.List(ctx)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *PaymentHandler) Get(c echo.Context) error {
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

func (h *PaymentHandler) Create(c echo.Context) error {
	paymentType := strings.TrimSpace(c.FormValue("payment_type"))
	if paymentType == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "payment_type is required"})
	}
	p := repository.Payment{PaymentType: paymentType}

	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()
	if err := h.Repo.Insert(ctx, &p); err != nil {
		return writeError(c, err)
	}
	service.Audit(actorID(c), "create", "payment", p.ID)
	return c.JSON(http.StatusCreated, p)
}

func (h *PaymentHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()
	if err := h.Repo.Update(ctx, id, formString(c, "payment_type")); err != nil {
		return writeError(c, err)
	}
	service.Audit(actorID(c), "update", "payment", id)
	return c.JSON(http.StatusOK, echo.Map{"message": "Updated"})
}

func (h *PaymentHandler) SoftDelete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()
	if err := h.Repo.SoftDelete(ctx, id); err != nil {
		return writeError(c, err)
	}
	service.Audit(actorID(c), "delete", "payment", id)
	return c.JSON(http.StatusOK, echo.Map{"message": "Deleted"})
}
