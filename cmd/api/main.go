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

	"github.com/jhoicas/gestion-prep/docs"
	"github.com/jhoicas/gestion-prep/internal/bootstrap"
	httpRouter "github.com/jhoicas/gestion-prep/internal/interfaces/http"
	"github.com/jhoicas/gestion-prep/pkg/config"
	"github.com/jhoicas/gestion-prep/pkg/logger"
)

// @title                       Gestion PREP API
// @version                     1.0
// @description                 Motor de Bons de Mouvement de Matériel: validación, ledger de stock e historial.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
// @description                 Bearer <token>
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}

	ctx := context.Background()
	// En memoria no hay esquema; en postgres se aplican las migraciones pendientes al arrancar.
	svc, closeStore, err := bootstrap.Open(ctx, cfg, log, true)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer closeStore()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http").Zerolog()))

	// Swagger UI en local: http://localhost:<port>/docs
	docs.SwaggerInfo.Host = cfg.HTTP.Addr()
	app.Use(swagger.New(swagger.Config{
		BasePath:    "/",
		FileContent: []byte(docs.SwaggerInfo.ReadDoc()),
		Path:        "docs",
		Title:       "Gestion PREP API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		status := fiber.Map{"status": "ok", "service": cfg.App.Name, "store": cfg.Store.Driver}
		if svc.Pool != nil {
			pingCtx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()
			if err := svc.Pool.Ping(pingCtx); err != nil {
				status["status"] = "degraded"
				return c.Status(fiber.StatusServiceUnavailable).JSON(status)
			}
		}
		return c.JSON(status)
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		MovementUC:    svc.Movement,
		ArticleUC:     svc.Article,
		LowStockUC:    svc.LowStock,
		ReferentialUC: svc.Referential,
		MovementPDF:   svc.MovementPDF,
		JWTSecret:     cfg.JWT.Secret,
	})

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
