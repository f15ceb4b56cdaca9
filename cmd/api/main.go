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

	"github.com/OscarV-prog/gasera-sub000/internal/application/fulfillment"
	"github.com/OscarV-prog/gasera-sub000/internal/application/incident"
	"github.com/OscarV-prog/gasera-sub000/internal/application/reconciliation"
	"github.com/OscarV-prog/gasera-sub000/internal/application/registry"
	"github.com/OscarV-prog/gasera-sub000/internal/application/routeload"
	"github.com/OscarV-prog/gasera-sub000/internal/infrastructure/postgres"
	httpRouter "github.com/OscarV-prog/gasera-sub000/internal/interfaces/http"
	"github.com/OscarV-prog/gasera-sub000/internal/jobs"
	"github.com/OscarV-prog/gasera-sub000/pkg/config"
	"github.com/OscarV-prog/gasera-sub000/pkg/logger"
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

	assetRepo := postgres.NewAssetRepository(pool)
	assetHistoryRepo := postgres.NewAssetHistoryRepository(pool)
	routeLoadRepo := postgres.NewRouteLoadRepository(pool)
	summaryRepo := postgres.NewDailyLoadSummaryRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	orderHistoryRepo := postgres.NewOrderHistoryRepository(pool)
	returnLoadRepo := postgres.NewReturnLoadRepository(pool)
	discrepancyRepo := postgres.NewDiscrepancyRepository(pool)
	incidentRepo := postgres.NewIncidentRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	registryUC := registry.NewUseCase(assetRepo, assetHistoryRepo)
	routeLoadUC := routeload.NewUseCase(txRunner, routeLoadRepo, summaryRepo)
	fulfillmentUC := fulfillment.NewUseCase(txRunner, orderRepo, orderHistoryRepo, cfg.Engine.DeliveryRadiusMeters)
	reconciliationUC := reconciliation.NewUseCase(txRunner, returnLoadRepo, routeLoadRepo, discrepancyRepo)
	incidentUC := incident.NewUseCase(incidentRepo)

	// Refresco nocturno del caché de resumen diario de cargas.
	summaryJob := jobs.NewSummaryJob(routeLoadUC, cfg.Engine.SummaryCronSpec, log.WithComponent("jobs"))
	if err := summaryJob.Start(); err != nil {
		log.Fatal().Err(err).Str("spec", cfg.Engine.SummaryCronSpec).Msg("job de resumen diario")
	}
	defer summaryJob.Stop()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Gasera Engine API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		RegistryUC:       registryUC,
		RouteLoadUC:      routeLoadUC,
		FulfillmentUC:    fulfillmentUC,
		ReconciliationUC: reconciliationUC,
		IncidentUC:       incidentUC,
		JWTSecret:        cfg.JWT.Secret,
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
