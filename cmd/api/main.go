package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/swaggo/swag"

	"github.com/jhoicas/sitetrack-api/docs"
	appanalytics "github.com/jhoicas/sitetrack-api/internal/application/analytics"
	"github.com/jhoicas/sitetrack-api/internal/application/auth"
	"github.com/jhoicas/sitetrack-api/internal/application/inventory"
	"github.com/jhoicas/sitetrack-api/internal/application/project"
	"github.com/jhoicas/sitetrack-api/internal/application/task"
	"github.com/jhoicas/sitetrack-api/internal/application/upload"
	"github.com/jhoicas/sitetrack-api/internal/application/usecase"
	"github.com/jhoicas/sitetrack-api/internal/domain/repository"
	"github.com/jhoicas/sitetrack-api/internal/infrastructure/cache"
	"github.com/jhoicas/sitetrack-api/internal/infrastructure/excel"
	"github.com/jhoicas/sitetrack-api/internal/infrastructure/memory"
	"github.com/jhoicas/sitetrack-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/sitetrack-api/internal/infrastructure/pdf"
	"github.com/jhoicas/sitetrack-api/internal/infrastructure/postgres"
	"github.com/jhoicas/sitetrack-api/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/sitetrack-api/internal/interfaces/http"
	"github.com/jhoicas/sitetrack-api/pkg/config"
	"github.com/jhoicas/sitetrack-api/pkg/fileurl"
	"github.com/jhoicas/sitetrack-api/pkg/logger"
)

// txRunner une los puertos transaccionales de inventario, proyectos y tareas.
type txRunner interface {
	inventory.TxRunner
	project.TxRunner
	task.TxRunner
}

type repositories struct {
	users      repository.UserRepository
	products   repository.ProductRepository
	warehouses repository.WarehouseRepository
	stock      repository.StockRepository
	logs       repository.StockLogRepository
	projects   repository.ProjectRepository
	tasks      repository.TaskRepository
	stats      repository.StatsRepository
	tx         txRunner
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("db_driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var repos repositories
	switch cfg.DB.Driver {
	case "memory":
		log.Warn().Msg("usando repositorios en memoria: los datos se pierden al reiniciar")
		store := memory.NewStore()
		repos = repositories{
			users:      memory.NewUserRepository(store),
			products:   memory.NewProductRepository(store),
			warehouses: memory.NewWarehouseRepository(store),
			stock:      memory.NewStockRepository(store),
			logs:       memory.NewStockLogRepository(store),
			projects:   memory.NewProjectRepository(store),
			tasks:      memory.NewTaskRepository(store),
			stats:      memory.NewStatsRepository(store),
			tx:         memory.NewTxRunner(store),
		}
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if cfg.DB.Migrate {
			if err := postgres.Migrate(pool); err != nil {
				log.Fatal().Err(err).Msg("migraciones")
			}
		}
		repos = repositories{
			users:      postgres.NewUserRepository(pool),
			products:   postgres.NewProductRepository(pool),
			warehouses: postgres.NewWarehouseRepository(pool),
			stock:      postgres.NewStockRepository(pool),
			logs:       postgres.NewStockLogRepository(pool),
			projects:   postgres.NewProjectRepository(pool),
			tasks:      postgres.NewTaskRepository(pool),
			stats:      postgres.NewStatsRepository(pool),
			tx:         postgres.NewTxRunner(pool),
		}
	}

	// Redis es opcional: sin él no hay caché de estadísticas ni bloqueo de importación.
	var (
		statsCache appanalytics.StatsCache
		importLock inventory.ImportLocker
	)
	if cfg.Redis.Address != "" {
		rdb, err := cache.Connect(ctx, cfg.Redis.Address, cfg.Redis.Password)
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Address).Msg("redis no disponible, se continúa sin caché")
		} else {
			defer rdb.Close()
			statsCache = cache.NewStatsCache(rdb, cfg.Redis.StatsTTL)
			importLock = cache.NewLocker(rdb, 5*time.Minute, 10*time.Second)
		}
	}

	var fileStore upload.FileStore
	switch cfg.Storage.Provider {
	case "gcs":
		gcs, err := storage.NewGCSStore(ctx, cfg.Storage.GCSBucket, cfg.Storage.GCSCredentials)
		if err != nil {
			log.Fatal().Err(err).Msg("cliente GCS")
		}
		defer gcs.Close()
		fileStore = gcs
	default:
		fileStore = storage.NewLocalStore(cfg.Storage.UploadDir)
	}

	m := metrics.New(cfg.App.Env)
	resolver := fileurl.NewResolver(cfg.Storage.FileBaseURL)

	authUC := auth.NewAuthUseCase(repos.users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	if _, err := authUC.EnsureAdmin(ctx, cfg.Bootstrap.AdminEmail, cfg.Bootstrap.AdminPassword, cfg.Bootstrap.AdminName); err != nil {
		log.Fatal().Err(err).Msg("crear administrador inicial")
	}

	productUC := usecase.NewProductUseCase(repos.products, repos.stock, repos.warehouses)
	stockCheck := inventory.NewStockCheckUseCase(repos.products, repos.stock)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    int(cfg.Storage.MaxBytes) + 1<<20,
		ReadTimeout:  time.Second * 30,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(m.Middleware())
	app.Use(httpRouter.AccessLog())

	// Swagger UI: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.App.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.App.SwaggerFile,
			Path:     "docs",
			Title:    "SiteTrack API",
		}))
	} else {
		app.Get("/docs/doc.json", func(c *fiber.Ctx) error {
			doc, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
			if err != nil {
				return err
			}
			c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			return c.SendString(doc)
		})
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})))
	if cfg.Storage.Provider == "local" {
		app.Static("/uploads", cfg.Storage.UploadDir)
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		UserUC:      usecase.NewUserUseCase(repos.users),
		ProductUC:   productUC,
		WarehouseUC: usecase.NewWarehouseUseCase(repos.warehouses, repos.stock, repos.products),
		Ledger:      inventory.NewLedgerUseCase(repos.tx, repos.products, repos.warehouses, repos.logs, m),
		ImportUC:    inventory.NewImportUseCase(productUC, importLock, m),
		ProjectUC: project.NewProjectUseCase(
			repos.tx, repos.projects, repos.tasks, repos.products, repos.users,
			stockCheck, resolver, infrapdf.NewMarotoReportGenerator(),
		),
		TaskUC:         task.NewTaskUseCase(repos.tx, repos.tasks, repos.users, resolver, m),
		DashboardUC:    appanalytics.NewDashboardUseCase(repos.stats, statsCache),
		PerformanceUC:  appanalytics.NewPerformanceUseCase(repos.stats, excel.NewPerformanceExporter()),
		UploadUC:       upload.NewUploadUseCase(fileStore, storage.NewThumbnailer(200), resolver, cfg.Storage.MaxBytes),
		UploadMaxBytes: cfg.Storage.MaxBytes,
		JWTSecret:      cfg.JWT.Secret,
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
