// @title                       Rochas API
// @version                     1.0
// @description                 Inventario multiempresa de rocas ornamentales: kardex, saldos, catálogo y vacantes.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/rochas-api/docs"
	"github.com/jhoicas/rochas-api/internal/application/auth"
	"github.com/jhoicas/rochas-api/internal/application/identity"
	"github.com/jhoicas/rochas-api/internal/application/inventory"
	"github.com/jhoicas/rochas-api/internal/application/ports"
	"github.com/jhoicas/rochas-api/internal/application/usecase"
	"github.com/jhoicas/rochas-api/internal/domain/repository"
	"github.com/jhoicas/rochas-api/internal/infrastructure/blob"
	"github.com/jhoicas/rochas-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/rochas-api/internal/infrastructure/pdf"
	"github.com/jhoicas/rochas-api/internal/infrastructure/postgres"
	"github.com/jhoicas/rochas-api/internal/infrastructure/scheduler"
	httpRouter "github.com/jhoicas/rochas-api/internal/interfaces/http"
	"github.com/jhoicas/rochas-api/pkg/config"
	"github.com/jhoicas/rochas-api/pkg/logger"
)

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

	var (
		txRunner ports.TxRunner
		repos    repository.Registry
	)
	switch cfg.Store.Driver {
	case "memory":
		st := memory.New()
		txRunner, repos = st, st
		log.Warn().Msg("almacén en memoria: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		txRunner = postgres.NewTxRunner(pool, cfg.Store.TxMaxAttempts, log.Named("tx"))
		repos = postgres.NewRegistry(pool)
	}

	var photos ports.PhotoStorage
	if cfg.Storage.Bucket != "" {
		gcs, err := blob.NewGCSStorage(ctx, cfg.Storage, log.Named("blob"))
		if err != nil {
			log.Fatal().Err(err).Msg("cliente de Cloud Storage")
		}
		photos = gcs
	} else {
		log.Warn().Msg("GCS_BUCKET vacío: las rocas se registran sin foto")
	}

	resolver := identity.NewResolver(repos.Profiles(), log.Named("identity"))
	authUC := auth.NewAuthUseCase(txRunner, repos, resolver, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log.Named("auth"))
	companyUC := usecase.NewCompanyUseCase(txRunner, repos, log.Named("companies"))
	vacancyUC := usecase.NewVacancyUseCase(repos, log.Named("vacancies"))
	rockUC := inventory.NewRockUseCase(txRunner, repos, photos, log.Named("rocks"), cfg.Store.WriteTimeout)
	movementUC := inventory.NewMovementUseCase(txRunner, repos, log.Named("movements"), cfg.Store.WriteTimeout)
	stockUC := inventory.NewStockQueryUseCase(repos, infrapdf.NewStockReportGenerator())
	reconciler := inventory.NewReconciler(txRunner, repos, log.Named("reconcile"))

	var sched *scheduler.Scheduler
	if cfg.Reconcile.Cron != "" {
		sched, err = scheduler.NewScheduler(cfg.Reconcile.Cron, cfg.Reconcile.Repair, reconciler, log.Named("scheduler"))
		if err != nil {
			log.Fatal().Err(err).Str("cron", cfg.Reconcile.Cron).Msg("RECONCILE_CRON inválido")
		}
		if err := sched.Start(); err != nil {
			log.Fatal().Err(err).Msg("arrancar scheduler")
		}
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    10 * 1024 * 1024, // fotos
	})
	app.Use(recover.New())

	// Swagger UI: http://localhost:<port>/docs
	if swaggerFile, err := writeSwaggerDoc(); err != nil {
		log.Warn().Err(err).Msg("swagger deshabilitado")
	} else {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Rochas API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "store": cfg.Store.Driver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:     authUC,
		CompanyUC:  companyUC,
		VacancyUC:  vacancyUC,
		RockUC:     rockUC,
		MovementUC: movementUC,
		StockUC:    stockUC,
		Reconciler: reconciler,
		Resolver:   resolver,
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

	if sched != nil {
		sched.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// writeSwaggerDoc vuelca el documento registrado por swag a un archivo para el middleware de Swagger UI.
func writeSwaggerDoc() (string, error) {
	path := filepath.Join(os.TempDir(), "rochas-api-swagger.json")
	if err := os.WriteFile(path, []byte(docs.SwaggerInfo.ReadDoc()), 0o644); err != nil {
		return "", err
	}
	return path, nil
}
