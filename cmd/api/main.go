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
	"github.com/jackc/pgx/v5/pgxpool"

	_ "github.com/jhoicas/service-stock-api/docs"
	"github.com/jhoicas/service-stock-api/internal/application/auth"
	"github.com/jhoicas/service-stock-api/internal/application/ledger"
	"github.com/jhoicas/service-stock-api/internal/application/usecase"
	"github.com/jhoicas/service-stock-api/internal/domain/repository"
	"github.com/jhoicas/service-stock-api/internal/infrastructure/events"
	"github.com/jhoicas/service-stock-api/internal/infrastructure/memory"
	"github.com/jhoicas/service-stock-api/internal/infrastructure/postgres"
	"github.com/jhoicas/service-stock-api/internal/infrastructure/redislock"
	httpRouter "github.com/jhoicas/service-stock-api/internal/interfaces/http"
	"github.com/jhoicas/service-stock-api/migrations"
	"github.com/jhoicas/service-stock-api/pkg/config"
	"github.com/jhoicas/service-stock-api/pkg/logger"
)

// stores adaptadores de persistencia según STORE_DRIVER.
type stores struct {
	tx         ledger.TxRunner
	holders    repository.HolderRepository
	users      repository.UserRepository
	categories repository.CategoryRepository
	models     repository.ModelRepository
	items      repository.ItemRepository
	skus       repository.SKUCodeRepository
	stock      repository.StockRepository
	transfers  repository.TransferRepository
	jobs       repository.JobRepository
	events     repository.LedgerEventRepository
}

func postgresStores(pool *pgxpool.Pool) stores {
	return stores{
		tx:         postgres.NewTxRunner(pool),
		holders:    postgres.NewHolderRepository(pool),
		users:      postgres.NewUserRepository(pool),
		categories: postgres.NewCategoryRepository(pool),
		models:     postgres.NewModelRepository(pool),
		items:      postgres.NewItemRepository(pool),
		skus:       postgres.NewSKUCodeRepository(pool),
		stock:      postgres.NewStockRepository(pool),
		transfers:  postgres.NewTransferRepository(pool),
		jobs:       postgres.NewJobRepository(pool),
		events:     postgres.NewLedgerEventRepository(pool),
	}
}

func memoryStores(s *memory.Store) stores {
	return stores{
		tx:         s,
		holders:    s.Holders(),
		users:      s.Users(),
		categories: s.Categories(),
		models:     s.Models(),
		items:      s.Items(),
		skus:       s.SKUCodes(),
		stock:      s.Stock(),
		transfers:  s.Transfers(),
		jobs:       s.Jobs(),
		events:     s.LedgerEvents(),
	}
}

// @title                       Service Stock API
// @version                     1.0
// @description                 Conciliación de stock multi-sucursal: catálogo, ledger por buckets, traslados, trabajos y reportes.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
// @description                 Token JWT con el prefijo Bearer
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
		Str("store", cfg.App.StoreDriver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var st stores
	if cfg.App.StoreDriver == "memory" {
		log.Warn().Msg("store en memoria: los datos se pierden al reiniciar")
		st = memoryStores(memory.NewStore())
	} else {
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if cfg.DB.AutoMigrate {
			if err := postgres.Migrate(ctx, pool, migrations.FS); err != nil {
				log.Fatal().Err(err).Msg("migraciones")
			}
		}
		st = postgresStores(pool)
	}

	// Bloqueo por clave: Redis si está configurado (varias réplicas), si no en proceso.
	var locker ledger.KeyLocker = memory.NewKeyLocker()
	if cfg.Redis.Address != "" {
		rdb, err := redislock.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Str("address", cfg.Redis.Address).Msg("conexión a Redis")
		}
		defer rdb.Close()
		locker = redislock.New(rdb, time.Duration(cfg.Redis.LockTTLSeconds)*time.Second, log)
		log.Info().Str("address", cfg.Redis.Address).Msg("bloqueo distribuido con Redis")
	}

	publishers := events.Fanout{events.NewLogPublisher(log)}
	if cfg.PubSub.ProjectID != "" {
		ps, err := events.NewPubSubPublisher(ctx, cfg.PubSub)
		if err != nil {
			log.Fatal().Err(err).Str("project", cfg.PubSub.ProjectID).Msg("cliente Pub/Sub")
		}
		defer ps.Close()
		publishers = append(publishers, ps)
	}

	deps := ledger.Deps{
		Tx:         st.tx,
		SKUs:       st.skus,
		Holders:    st.holders,
		Stock:      st.stock,
		Transfers:  st.transfers,
		Jobs:       st.jobs,
		Locker:     locker,
		Publisher:  publishers,
		Logger:     log,
		MaxRetries: cfg.Ledger.MaxRetries,
	}

	authUC := auth.NewAuthUseCase(st.users, st.holders, auth.JWTConfig{
		Secret:            cfg.JWT.Secret,
		ExpMinutes:        cfg.JWT.Expiration,
		RefreshExpMinutes: cfg.JWT.RefreshExpiration,
		Issuer:            cfg.JWT.Issuer,
	})
	if created, err := authUC.EnsureAdmin(ctx, cfg.Bootstrap.AdminEmail, cfg.Bootstrap.AdminPassword); err != nil {
		log.Fatal().Err(err).Msg("crear admin inicial")
	} else if created {
		log.Info().Str("email", cfg.Bootstrap.AdminEmail).Msg("admin inicial creado")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    10 * 1024 * 1024,
		ErrorHandler: httpRouter.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Service Stock API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:   authUC,
		HolderUC: usecase.NewHolderUseCase(st.holders),
		UserUC:   usecase.NewUserUseCase(st.users),
		CatalogUC: usecase.NewCatalogUseCase(usecase.CatalogRepos{
			Categories: st.categories,
			Models:     st.models,
			Items:      st.items,
			SKUCodes:   st.skus,
			Stock:      st.stock,
			Transfers:  st.transfers,
			Jobs:       st.jobs,
			Holders:    st.holders,
			Locker:     locker,
		}),
		ReportUC:     usecase.NewReportUseCase(st.stock, st.transfers, st.jobs, st.events),
		LedgerUC:     ledger.NewLedgerUseCase(deps),
		TransferUC:   ledger.NewTransferUseCase(deps),
		JobUC:        ledger.NewJobUseCase(deps),
		JWTSecret:    cfg.JWT.Secret,
		RefreshTTL:   time.Duration(cfg.JWT.RefreshExpiration) * time.Minute,
		SecureCookie: cfg.App.Env == "production",
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
