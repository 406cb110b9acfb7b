// @title           Inventario Stock API
// @version         1.0
// @description     API de inventario: productos, movimientos de entrada/salida, rotación y alertas de stock bajo.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey Bearer
// @in              header
// @name            Authorization
// @description     Bearer <token JWT>
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
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"

	_ "github.com/jhoicas/inventario-stock/docs"
	"github.com/jhoicas/inventario-stock/internal/application/alert"
	"github.com/jhoicas/inventario-stock/internal/application/inventory"
	"github.com/jhoicas/inventario-stock/internal/application/usecase"
	domaininventory "github.com/jhoicas/inventario-stock/internal/domain/inventory"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
	"github.com/jhoicas/inventario-stock/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-stock/internal/infrastructure/notify"
	infrapdf "github.com/jhoicas/inventario-stock/internal/infrastructure/pdf"
	"github.com/jhoicas/inventario-stock/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/inventario-stock/internal/interfaces/http"
	"github.com/jhoicas/inventario-stock/pkg/config"
	"github.com/jhoicas/inventario-stock/pkg/logger"
)

// storage agrupa los repositorios y el runner del driver elegido.
type storage struct {
	products  repository.ProductRepository
	movements repository.MovementRepository
	logs      repository.StockLogRepository
	tx        inventory.TxRunner
	close     func()
}

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) storage {
	if cfg.Storage.Driver == config.StorageDriverMemory {
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		store := memory.NewStore()
		return storage{
			products:  store.Products(),
			movements: store.Movements(),
			logs:      store.StockLogs(),
			tx:        memory.NewTxRunner(store),
			close:     func() {},
		}
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	if cfg.DB.AutoMigrate {
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			log.Fatal().Err(err).Msg("crear esquema")
		}
	}
	return storage{
		products:  postgres.NewProductRepository(pool),
		movements: postgres.NewMovementRepository(pool),
		logs:      postgres.NewStockLogRepository(pool),
		tx:        postgres.NewTxRunner(pool),
		close:     pool.Close,
	}
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
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store := openStorage(ctx, cfg, log)
	defer store.close()

	// Observadores de stock bajo: siempre log; Redis si hay servidor configurado.
	subject := alert.NewStockSubject(log.Component("alertas"))
	subject.Register(notify.NewLogObserver(log.Component("alertas")))
	if cfg.Redis.Enabled() {
		rdb := redis.NewClient(&redis.Options{
			Addr:                  cfg.Redis.Addr,
			Password:              cfg.Redis.Password,
			DB:                    cfg.Redis.DB,
			DialTimeout:           time.Second,
			ContextTimeoutEnabled: true,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis no disponible; las alertas se publicarán cuando responda")
		}
		ttl := time.Duration(cfg.Redis.AlertTTLSeconds) * time.Second
		subject.Register(notify.NewRedisObserver(rdb, cfg.Redis.Channel, ttl))
	}

	metric, ok := domaininventory.ParseTurnoverMetric(cfg.Stock.TurnoverMetric)
	if !ok {
		log.Fatal().Str("metric", cfg.Stock.TurnoverMetric).Msg("métrica de rotación inválida")
	}
	ledger := inventory.NewStockLedger(metric)
	threshold := cfg.Stock.LowStockThreshold

	movementUC := inventory.NewMovementUseCase(store.tx, store.movements, ledger, subject, threshold, log.Component("movimientos"))
	productUC := usecase.NewProductUseCase(
		store.products, store.movements, store.logs,
		store.tx, ledger, subject, threshold,
		infrapdf.NewKardexGenerator(),
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Inventario Stock API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	if cfg.JWT.Secret == "" {
		log.Warn().Msg("JWT_SECRET vacío: /api sin autenticación")
	}
	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:  productUC,
		MovementUC: movementUC,
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
