// Package router registers the HTTP surface: the public authentication and
// static-file routes, and the admin-only entity resources behind the bearer
// middleware chain.
package router

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/weftworks/garment-backoffice/internal/handler"
	"github.com/weftworks/garment-backoffice/internal/middleware"
	"github.com/weftworks/garment-backoffice/internal/service"
)

// Handlers bundles every handler the router mounts.
type Handlers struct {
	Auth        *handler.AuthHandler
	Products    *handler.ProductHandler
	Fabrics     *handler.FabricHandler
	FabricRolls *handler.FabricRollHandler
	Users       *handler.UserHandler
	Employees   *handler.EmployeeHandler
	Sizes       *handler.SizeHandler
	Colors      *handler.ColorHandler
	Promotions  *handler.PromotionHandler
	Payments    *handler.PaymentHandler
	Bills       *handler.BillHandler
	FabricUsage *handler.FabricUsageHandler
	Suppliers   *handler.SupplierHandler
	FabricTypes *handler.FabricTypeHandler
	SupplierLog *handler.SupplierHistoryHandler
	Activity    *handler.ActivityLogHandler
	Sessions    *handler.SessionHandler
}

// Register wires all routes onto the Echo instance. uploadsDir is served
// read-only under /uploads with no access control: any holder of a file URL
// can fetch it. sessions backs the auth middleware; rdb backs the login
// rate limiter and may be nil.
func Register(e *echo.Echo, h Handlers, sessions *service.Sessions, jwtSecret, uploadsDir string, rdb *redis.Client) {
	e.HTTPErrorHandler = errorHandler

	e.GET("/healthz", handler.Health)
	e.Static("/uploads", uploadsDir)

	auth := e.Group("/auth")
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login, middleware.LoginRateLimit(rdb, 10, time.Minute))
	auth.POST("/logout", h.Auth.Logout)

	authed := middleware.Authenticated(jwtSecret, sessions)
	admin := middleware.RequireRole("admin")

	// /auth/me only needs a live token, no particular role.
	e.GET("/auth/me", h.Auth.Me, authed)

	// The back office is operated by admins; every entity surface requires
	// the admin role.
	register := func(prefix string, list, get, create, update, remove echo.HandlerFunc) {
		g := e.Group(prefix, authed, admin)
		g.GET("", list)
		g.GET("/:id", get)
		g.POST("", create)
		g.PUT("/:id", update)
		g.PUT("/delete/:id", remove)
	}

	register("/products", h.Products.List, h.Products.Get, h.Products.Create, h.Products.Update, h.Products.SoftDelete)
	register("/fabric", h.Fabrics.List, h.Fabrics.Get, h.Fabrics.Create, h.Fabrics.Update, h.Fabrics.SoftDelete)
	register("/fabricrolls", h.FabricRolls.List, h.FabricRolls.Get, h.FabricRolls.Create, h.FabricRolls.Update, h.FabricRolls.SoftDelete)
	register("/users", h.Users.List, h.Users.Get, h.Users.Create, h.Users.Update, h.Users.SoftDelete)
	register("/employee", h.Employees.List, h.Employees.Get, h.Employees.Create, h.Employees.Update, h.Employees.SoftDelete)
	register("/sizes", h.Sizes.List, h.Sizes.Get, h.Sizes.Create, h.Sizes.Update, h.Sizes.SoftDelete)
	register("/colors", h.Colors.List, h.Colors.Get, h.Colors.Create, h.Colors.Update, h.Colors.SoftDelete)
	register("/promotion", h.Promotions.List, h.Promotions.Get, h.Promotions.Create, h.Promotions.Update, h.Promotions.SoftDelete)
	register("/payment", h.Payments.List, h.Payments.Get, h.Payments.Create, h.Payments.Update, h.Payments.SoftDelete)
	register("/bill", h.Bills.List, h.Bills.Get, h.Bills.Create, h.Bills.Update, h.Bills.SoftDelete)
	register("/suppliers", h.Suppliers.List, h.Suppliers.Get, h.Suppliers.Create, h.Suppliers.Update, h.Suppliers.SoftDelete)
	register("/fabrictypes", h.FabricTypes.List, h.FabricTypes.Get, h.FabricTypes.Create, h.FabricTypes.Update, h.FabricTypes.SoftDelete)
	register("/supplier_fabric_history", h.SupplierLog.List, h.SupplierLog.Get, h.SupplierLog.Create, h.SupplierLog.Update, h.SupplierLog.SoftDelete)

	// fabric_usage hard-deletes instead of soft-deleting.
	usage := e.Group("/fabricusage", authed, admin)
	usage.GET("", h.FabricUsage.List)
	usage.GET("/:id", h.FabricUsage.Get)
	usage.POST("", h.FabricUsage.Create)
	usage.PUT("/:id", h.FabricUsage.Update)
	usage.DELETE("/:id", h.FabricUsage.Delete)

	logs := e.Group("/activity_logs", authed, admin)
	logs.GET("", h.Activity.List)

	tokens := e.Group("/tokens", authed, admin)
	tokens.GET("", h.Sessions.List)
	tokens.DELETE("/:id", h.Sessions.Revoke)
}

// errorHandler keeps error bodies uniform: unmatched routes get the generic
// not-found body, everything else a message without internal detail.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	message := "Server error"
	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		if code == http.StatusNotFound {
			message = "Route Not Found"
		} else if s, ok := he.Message.(string); ok {
			message = s
		}
	}
	_ = c.JSON(code, echo.Map{"message": message})
}
