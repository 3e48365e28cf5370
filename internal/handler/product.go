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

// ProductHandler serves /products. Create and update go through the mutation
// coordinator because products own an attachment.
type ProductHandler struct {
	Repo *repository.ProductRepo
	Co   *service.Coordinator
}

func NewProductHandler(repo *repository.ProductRepo, co *service.Coordinator) *ProductHandler {
	return &ProductHandler{Repo: repo, Co: co}
}

// List handles GET /products. Soft-deleted rows are excluded.
func (h *ProductHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()
	items, err := h.Repo.List(ctx)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

// Get handles GET /products/:id.
func (h *ProductHandler) Get(c echo.Context) error {
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

// Create handles POST /products: multipart form with name, price and an
// optional single image. Fields are validated before the upload is staged,
// so rejected requests never write a file.
func (h *ProductHandler) Create(c echo.Context) error {
	name := strings.TrimSpace(c.FormValue("name"))
	price, ok := formFloat(c, "price")
	if name == "" || price == nil || !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "name & price are required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()

	p := repository.Product{Name: name, Price: *price}
	err := h.Co.Create(ctx, imageFile(c), func(ctx context.Context, imageURL *string) error {
		p.Image = imageURL
		return h.Repo.Insert(ctx, &p)
	})
	if err != nil {
		return writeError(c, err)
	}
	service.Audit(actorID(c), "create", "products", p.ID)
	return c.JSON(http.StatusCreated, p)
}

// Update handles PUT /products/:id: partial multipart update with an
// optional replacement image. The coordinator stages the new file, applies
// the coalesce update in a transaction, and removes the superseded file only
// after the commit is durable.
func (h *ProductHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid id"})
	}
	price, ok := formFloat(c, "price")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid price"})
	}
	patch := repository.ProductPatch{Name: formString(c, "name"), Price: price}

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
	service.Audit(actorID(c), "update", "products", id)
	return c.JSON(http.StatusOK, echo.Map{"message": "Updated"})
}

// SoftDelete handles PUT /products/delete/:id. The row is timestamped, not
// removed; its attachment file is intentionally retained.
func (h *ProductHandler) SoftDelete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()
	if err := h.Repo.SoftDelete(ctx, id); err != nil {
		return writeError(c, err)
	}
	service.Audit(actorID(c), "delete", "products", id)
	return c.JSON(http.StatusOK, echo.Map{"message": "Deleted"})
}
