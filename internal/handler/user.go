package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/weftworks/garment-backoffice/internal/config"
	"github.com/weftworks/garment-backoffice/internal/repository"
	"github.com/weftworks/garment-backoffice/internal/service"
)

// UserHandler serves the /users management surface: staff accounts with an
// optional avatar image. Passwords are write-only; responses never carry
// the hash.
type UserHandler struct {
	Cfg  config.Config
	Repo *repository.UserRepo
	Co   *service.Coordinator
}

func NewUserHandler(cfg config.Config, repo *repository.UserRepo, co *service.Coordinator) *UserHandler {
	return &UserHandler{Cfg: cfg, Repo: repo, Co: co}
}

func (h *UserHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()
	items, err := h.Repo.List(ctx)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *UserHandler) Get(c echo.Context) error {
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

// Create handles POST /users: multipart form with name, email, password,
// optional role and avatar image.
func (h *UserHandler) Create(c echo.Context) error {
	name := strings.TrimSpace(c.FormValue("name"))
	email := strings.ToLower(strings.TrimSpace(c.FormValue("email")))
	password := c.FormValue("password")
	if name == "" || email == "" || password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "name, email & password are required"})
	}
	role := strings.ToLower(strings.TrimSpace(c.FormValue("role")))
	if role != "admin" {
		role = "user"
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()

	var id uint64
	err := h.Co.Create(ctx, imageFile(c), func(ctx context.Context, imageURL *string) error {
		var err error
		id, err = h.Repo.Create(ctx, name, email, password, role, imageURL, h.Cfg.BcryptCost)
		return err
	})
	if err != nil {
		return writeError(c, err)
	}
	service.Audit(actorID(c), "create", "users", id)

	u, err := h.Repo.GetByID(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, u)
}

// Update handles PUT /users/:id: partial update of name, email, role and the
// avatar image. Password changes are not part of this surface.
func (h *UserHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid id"})
	}
	var role *string
	if r := strings.ToLower(strings.TrimSpace(c.FormValue("role"))); r != "" {
		if r != "admin" && r != "user" {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid role"})
		}
		role = &r
	}
	patch := repository.UserPatch{
		Name:  formString(c, "name"),
		Email: formString(c, "email"),
		Role:  role,
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
	service.Audit(actorID(c), "update", "users", id)
	return c.JSON(http.StatusOK, echo.Map{"message": "Updated"})
}

func (h *UserHandler) SoftDelete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()
	if err := h.Repo.SoftDelete(ctx, id); err != nil {
		return writeError(c, err)
	}
	service.Audit(actorID(c), "delete", "users", id)
	return c.JSON(http.StatusOK, echo.Map{"message": "Deleted"})
}
