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
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/erp-api/internal/application/auth"
	"github.com/jhoicas/erp-api/internal/application/usecase"
	infrapdf "github.com/jhoicas/erp-api/internal/infrastructure/pdf"
	"github.com/jhoicas/erp-api/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/erp-api/internal/infrastructure/redis"
	"github.com/jhoicas/erp-api/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/erp-api/internal/interfaces/http"
	"github.com/jhoicas/erp-api/pkg/config"
	"github.com/jhoicas/erp-api/pkg/logger"
	"github.com/jhoicas/erp-api/pkg/metrics"
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
	defer log.Close()
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB, log.Zerolog())
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.AutoMigrate {
		applied, err := postgres.Migrate(ctx, pool, log.Zerolog())
		if err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		log.Info().Strs("applied", applied).Msg("migraciones al día")
	}

	// Blacklist de access tokens: solo con REDIS_URL; sin ella el logout invalida el refresh token.
	var blacklist auth.TokenBlacklist
	if cfg.Redis.URL != "" {
		client, err := infraredis.Connect(ctx, cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer client.Close()
		blacklist = infraredis.NewTokenBlacklist(client, cfg.Redis.KeyPrefix)
	} else {
		log.Warn().Msg("REDIS_URL vacío: los access tokens no se revocan en logout")
	}

	categoryRepo := postgres.NewCategoryRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	unitRepo := postgres.NewUnitRepository(pool)
	roleRepo := postgres.NewRoleRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	images := storage.NewLocalImageStore(cfg.Upload.Dir, cfg.Upload.PublicURL, cfg.Upload.MaxSizeMB)
	reports := infrapdf.NewStockReportGenerator(cfg.App.Name)

	categoryUC := usecase.NewCategoryUseCase(categoryRepo, productRepo, txRunner, usecase.CategoryOptions{
		StrictLocking: cfg.Category.StrictLocking,
	})
	productUC := usecase.NewProductUseCase(productRepo, categoryRepo, unitRepo, movementRepo, txRunner, images, reports)
	unitUC := usecase.NewUnitUseCase(unitRepo, productRepo)
	roleUC := usecase.NewRoleUseCase(roleRepo, userRepo)
	userUC := usecase.NewUserUseCase(userRepo, roleRepo)
	authUC := auth.NewAuthUseCase(userRepo, blacklist, auth.JWTConfig{
		Secret:          cfg.JWT.Secret,
		ExpMinutes:      cfg.JWT.Expiration,
		Issuer:          cfg.JWT.Issuer,
		RefreshExpHours: cfg.JWT.RefreshExpiration * 24,
	})

	if cfg.Bootstrap.Enabled() {
		if err := bootstrapAdmin(ctx, cfg.Bootstrap, userRepo, roleRepo, userUC); err != nil {
			log.Fatal().Err(err).Msg("crear admin inicial")
		}
	}

	collector := metrics.NewCollector("erp")

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    cfg.HTTP.BodyLimitMB * 1024 * 1024,
		ErrorHandler: httpRouter.ErrorHandler(log.Zerolog(), collector),
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.HTTP.CORSOrigins}))
	app.Use(httpRouter.RequestLogger(log.Zerolog()))
	app.Use(httpRouter.Metrics(collector))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "ERP API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", adaptor.HTTPHandler(collector.Handler()))
	app.Static(cfg.Upload.PublicURL, cfg.Upload.Dir)

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:     authUC,
		CategoryUC: categoryUC,
		ProductUC:  productUC,
		UnitUC:     unitUC,
		RoleUC:     roleUC,
		UserUC:     userUC,
		Validator:  httpRouter.NewValidator(),
		JWTSecret:  cfg.JWT.Secret,
		Revoked:    authUC,
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
