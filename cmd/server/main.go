package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/weftworks/garment-backoffice/internal/config"
	"github.com/weftworks/garment-backoffice/internal/database"
	"github.com/weftworks/garment-backoffice/internal/handler"
	"github.com/weftworks/garment-backoffice/internal/queue"
	"github.com/weftworks/garment-backoffice/internal/repository"
	"github.com/weftworks/garment-backoffice/internal/router"
	"github.com/weftworks/garment-backoffice/internal/service"
	"github.com/weftworks/garment-backoffice/internal/storage"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, relying on environment")
	}
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBMaxConns)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, running without session cache or rate limiting")
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	products := repository.NewProductRepo(db)
	fabrics := repository.NewFabricRepo(db)
	rolls := repository.NewFabricRollRepo(db)
	employees := repository.NewEmployeeRepo(db)
	sizes := repository.NewSizeRepo(db)
	colors := repository.NewColorRepo(db)
	promotions := repository.NewPromotionRepo(db)
	payments := repository.NewPaymentRepo(db)
	bills := repository.NewBillRepo(db)
	usage := repository.NewFabricUsageRepo(db)
	suppliers := repository.NewSupplierRepo(db)
	fabricTypes := repository.NewFabricTypeRepo(db)
	supplierLog := repository.NewSupplierHistoryRepo(db)
	logs := repository.NewActivityLogRepo(db)

	files := storage.New(cfg.Upload)
	co := service.NewCoordinator(db, files)
	sessions := service.NewSessions(tokens, rdb)

	go queue.StartActivityConsumer(logs)

	h := router.Handlers{
		Auth:        handler.NewAuthHandler(cfg, users, sessions),
		Products:    handler.NewProductHandler(products, co),
		Fabrics:     handler.NewFabricHandler(fabrics, co),
		FabricRolls: handler.NewFabricRollHandler(rolls, co),
		Users:       handler.NewUserHandler(cfg, users, co),
		Employees:   handler.NewEmployeeHandler(employees),
		Sizes:       handler.NewSizeHandler(sizes),
		Colors:      handler.NewColorHandler(colors),
		Promotions:  handler.NewPromotionHandler(promotions),
		Payments:    handler.NewPaymentHandler(payments),
		Bills:       handler.NewBillHandler(bills),
		FabricUsage: handler.NewFabricUsageHandler(usage),
		Suppliers:   handler.NewSupplierHandler(suppliers),
		FabricTypes: handler.NewFabricTypeHandler(fabricTypes),
		SupplierLog: handler.NewSupplierHistoryHandler(supplierLog),
		Activity:    handler.NewActivityLogHandler(logs),
		Sessions:    handler.NewSessionHandler(tokens, sessions),
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	router.Register(e, h, sessions, cfg.JWTSecret, files.Dir(), rdb)

	log.Fatal(e.Start(":" + cfg.Port))
}
