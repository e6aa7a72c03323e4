package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/almacen-api/internal/application/auth"
	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/internal/application/usecase"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	LedgerUC    *inventory.LedgerUseCase
	ProductUC   *usecase.ProductUseCase
	UserUC      *usecase.UserUseCase
	WarehouseUC *usecase.WarehouseUseCase
	JWTSecret   string
	Log         *logger.Logger
	Metrics     prometheus.Gatherer // nil = sin /metrics
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Use(RequestLogger(deps.Log))

	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Metrics, promhttp.HandlerOpts{})))
	}

	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/verify-session", authHandler.VerifySession)

	// Rutas protegidas: Bearer Token + sesión vigente
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret), SessionGate(deps.AuthUC))

	protected.Post("/auth/logout", authHandler.Logout)

	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	protected.Get("/warehouses", warehouseHandler.List)

	// Products
	productHandler := NewProductHandler(deps.ProductUC)
	inventoryHandler := NewInventoryHandler(deps.LedgerUC)
	products := protected.Group("/products")
	products.Get("/", productHandler.List)
	products.Post("/", productHandler.Create)
	products.Post("/bulk", productHandler.BulkImport)
	products.Post("/import-csv", productHandler.ImportCSV)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)
	products.Get("/:id/movements", inventoryHandler.ProductHistory)

	// Movements
	movements := protected.Group("/movements")
	movements.Get("/", inventoryHandler.List)
	movements.Post("/", inventoryHandler.RecordMovement)

	reportHandler := NewReportHandler(deps.ProductUC)
	protected.Get("/reports/stock", reportHandler.StockReport)

	// Administración (solo Admin)
	userHandler := NewUserHandler(deps.UserUC)
	adminOnly := RequireRole(entity.RoleAdmin)
	users := protected.Group("/users", adminOnly)
	users.Get("/", userHandler.List)
	users.Post("/", userHandler.Create)
	users.Delete("/:id", userHandler.Delete)
	protected.Get("/access-log", adminOnly, userHandler.AccessLog)
}
