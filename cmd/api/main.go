package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/jhoicas/almacen-api/internal/application/auth"
	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/internal/application/usecase"
	"github.com/jhoicas/almacen-api/internal/infrastructure/backend"
	infrapdf "github.com/jhoicas/almacen-api/internal/infrastructure/pdf"
	httpRouter "github.com/jhoicas/almacen-api/internal/interfaces/http"
	"github.com/jhoicas/almacen-api/pkg/config"
	"github.com/jhoicas/almacen-api/pkg/logger"
	"github.com/jhoicas/almacen-api/pkg/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:        cfg.App.Env,
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("configuración inválida")
	}
	if cfg.JWT.Secret == "" {
		cfg.JWT.Secret = "dev-secret-no-usar-en-produccion"
		log.Warn().Msg("JWT_SECRET vacío, usando secreto de desarrollo")
	}
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store, err := backend.Open(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacén")
	}
	defer store.Close()

	var (
		reg      *prometheus.Registry
		invStats *metrics.Inventory
	)
	if cfg.Metrics.Enabled {
		reg = prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		invStats = metrics.NewInventory(reg)
	}

	ledgerUC := inventory.NewLedgerUseCase(store.TxRunner, store.Read, log, invStats)
	productUC := usecase.NewProductUseCase(store.TxRunner, store.Read, infrapdf.NewStockReportGenerator(""), log, invStats)
	warehouseUC := usecase.NewWarehouseUseCase(store.Read.Warehouses)
	userUC := usecase.NewUserUseCase(store.TxRunner, store.Read, cfg.Auth.MasterCode, log)
	authUC := auth.NewAuthUseCase(store.TxRunner, store.Read, auth.JWTConfig{
		Secret:      cfg.JWT.Secret,
		ExpMinutes:  cfg.JWT.Expiration,
		Issuer:      cfg.JWT.Issuer,
		PollSeconds: cfg.Auth.SessionPollSeconds,
	}, log, invStats)

	if _, err := userUC.EnsurePrimaryAdmin(ctx, usecase.PrimaryAdmin{
		Name:     cfg.Admin.Name,
		Email:    cfg.Admin.Email,
		Password: cfg.Admin.Password,
	}); err != nil {
		log.Fatal().Err(err).Msg("sembrar administrador principal")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    16 * 1024 * 1024,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if cfg.Docs.Enabled {
		if _, err := os.Stat(cfg.Docs.FilePath); err == nil {
			app.Use(swagger.New(swagger.Config{
				BasePath: "/",
				FilePath: cfg.Docs.FilePath,
				Path:     "docs",
				Title:    "Almacén API",
			}))
		} else {
			log.Warn().Str("file", cfg.Docs.FilePath).Msg("documentación no encontrada, /docs deshabilitado")
		}
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "driver": store.Driver})
	})

	deps := httpRouter.RouterDeps{
		AuthUC:      authUC,
		LedgerUC:    ledgerUC,
		ProductUC:   productUC,
		UserUC:      userUC,
		WarehouseUC: warehouseUC,
		JWTSecret:   cfg.JWT.Secret,
		Log:         log,
	}
	if reg != nil {
		deps.Metrics = reg
	}
	httpRouter.Router(app, deps)

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
