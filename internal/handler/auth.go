package handler

import (
	"context"  // provides context with cancellation for DB calls
	"net/http" // HTTP status codes and primitives
	"strings"  // string manipulation utilities

	"github.com/labstack/echo/v4" // Echo framework for HTTP routing

	"github.com/weftworks/garment-backoffice/internal/config"
	"github.com/weftworks/garment-backoffice/internal/middleware"
	"github.com/weftworks/garment-backoffice/internal/repository"
	"github.com/weftworks/garment-backoffice/internal/service"
	"github.com/weftworks/garment-backoffice/internal/utils"
)

// AuthHandler bundles dependencies for the authentication endpoints.
type AuthHandler struct {
	Cfg      config.Config
	Users    *repository.UserRepo
	Sessions *service.Sessions
}

func NewAuthHandler(cfg config.Config, users *repository.UserRepo, sessions *service.Sessions) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users, Sessions: sessions}
}

type registerReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"` // user | admin, defaults to user
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a user with a salted password hash.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "name, email & password are required"})
	}
	role := strings.ToLower(strings.TrimSpace(req.Role))
	if role != "admin" {
		role = "user"
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()

	id, err := h.Users.Create(ctx, req.Name, req.Email, req.Password, role, nil, h.Cfg.BcryptCost)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "Registered", "id": id})
}

// Login verifies credentials, signs a session token and records it in the
// ledger. The ledger row is what keeps the token alive; the signature alone
// is never enough.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "email & password are required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Email not found"})
		}
		return writeError(c, err)
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid password"})
	}

	token, err := utils.NewSessionToken(h.Cfg.JWTSecret, utils.Claims{
		UserID: u.ID, Role: u.Role, Email: u.Email,
	}, h.Cfg.TokenTTLHour)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.Sessions.Issue(ctx, u.ID, token); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Logged in", "token": token})
}

// Logout revokes the presented token. Revoking an already-absent token is
// not an error, so repeating a logout is harmless.
func (h *AuthHandler) Logout(c echo.Context) error {
	auth := c.Request().Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "No token provided"})
	}
	raw := strings.TrimPrefix(auth, "Bearer ")

	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()
	if err := h.Sessions.Revoke(ctx, raw); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Logged out"})
}

// Me returns the authenticated identity; a cheap way for clients to check a
// token and for tests to observe the Principal.
func (h *AuthHandler) Me(c echo.Context) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthorized"})
	}
	return c.JSON(http.StatusOK, echo.Map{"user_id": p.UserID, "role": p.Role, "email": p.Email})
}
