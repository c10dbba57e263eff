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

	"github.com/tu-usuario/solar-inventario/internal/application/auth"
	"github.com/tu-usuario/solar-inventario/internal/application/dispatch"
	"github.com/tu-usuario/solar-inventario/internal/application/inventory"
	"github.com/tu-usuario/solar-inventario/internal/application/stats"
	infrapdf "github.com/tu-usuario/solar-inventario/internal/infrastructure/pdf"
	"github.com/tu-usuario/solar-inventario/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/solar-inventario/internal/interfaces/http"
	"github.com/tu-usuario/solar-inventario/pkg/config"
	"github.com/tu-usuario/solar-inventario/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Repositorios sobre el pool (lecturas fuera de transacción).
	// Las escrituras pasan por el TxRunner, que liga los repos a una tx.
	userRepo := postgres.NewUserRepository(pool)
	itemRepo := postgres.NewItemRepository(pool)
	txRepo := postgres.NewTransactionRepository(pool)
	dispatchRepo := postgres.NewDispatchRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	itemUC := inventory.NewItemUseCase(txRunner, itemRepo, txRepo, cfg.Inventory.PageSize)
	statsUC := stats.NewUseCase(txRunner)

	// PDF: remisión de entrega para los despachos a beneficiarios
	noteGenerator := infrapdf.NewDispatchNoteGenerator()
	dispatchUC := dispatch.NewUseCase(txRunner, dispatchRepo, itemRepo, noteGenerator)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.AccessLog(log))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Solar Inventario API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ItemUC:     itemUC,
		StatsUC:    statsUC,
		DispatchUC: dispatchUC,
		AuthUC:     authUC,
		JWTSecret:  cfg.JWT.Secret,
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
