package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/robfig/cron/v3"

	"akademikku_backend/internals/configs"
	database "akademikku_backend/internals/databases"
	helper "akademikku_backend/internals/helpers"
	"akademikku_backend/internals/helpers/apiclient"
	middlewares "akademikku_backend/internals/middlewares"
	routes "akademikku_backend/internals/route"

	kkRepo "akademikku_backend/internals/features/akademik/kelompok_kecil/repository"
	kkScheduler "akademikku_backend/internals/features/akademik/kelompok_kecil/scheduler"
	kkService "akademikku_backend/internals/features/akademik/kelompok_kecil/service"
	pbScheduler "akademikku_backend/internals/features/akademik/peta_blok/scheduler"
	pbService "akademikku_backend/internals/features/akademik/peta_blok/service"
	scService "akademikku_backend/internals/features/support_center/service"
)

func main() {
	configs.LoadEnv()

	app := fiber.New(fiber.Config{
		JSONEncoder:             sonic.Marshal,
		JSONDecoder:             sonic.Unmarshal,
		DisableStartupMessage:   true,
		BodyLimit:               configs.GetEnvInt("BODY_LIMIT_MB", 30) * 1024 * 1024,
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"0.0.0.0/0"},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("[ERROR] %s %s: %v", c.Method(), c.OriginalURL(), err)
			return helper.FromFiberError(c, err)
		},
	})

	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())
	app.Use(middlewares.RequestContext(configs.UpstreamTimeout + 10*time.Second))
	middlewares.SetupMiddlewares(app)

	// 🔌 DB opsional (draft kelompok kecil) + Redis opsional (cache peta blok)
	database.ConnectDB()
	database.TunePool()
	database.Migrate(kkRepo.Models()...)
	configs.ConnectRedis()

	client := apiclient.New(configs.APIBaseURL, configs.UpstreamTimeout)

	var repo kkRepo.Repository
	if database.DB != nil {
		repo = kkRepo.NewGormRepository(database.DB)
	} else {
		repo = kkRepo.NewInmemRepository()
	}

	svcs := routes.Services{
		PetaBlok: pbService.New(
			client,
			pbService.NewRedisCache(configs.RDB),
			time.Duration(configs.GetEnvInt("PETA_BLOK_CACHE_TTL_MINUTES", 10))*time.Minute,
			configs.UpstreamMaxParallel,
		),
		KelompokKecil: kkService.New(client, repo, configs.UpstreamMaxParallel),
		SupportCenter: scService.New(client),
	}

	// ⏱ scheduler setelah storage siap
	crons := []*cron.Cron{
		pbScheduler.StartCacheWarmer(svcs.PetaBlok, pbScheduler.WarmerConfigFromEnv()),
		kkScheduler.StartDraftReaper(repo, kkScheduler.ReaperConfigFromEnv()),
	}

	routes.SetupRoutes(app, svcs)

	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 60 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	port := configs.GetEnv("PORT", "3000")
	go func() {
		log.Printf("✅ Listening on :%s", port)
		if err := app.Listen("0.0.0.0:" + port); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown: stop cron → stop server → tutup DB & Redis
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("[INFO] shutting down...")

	for _, c := range crons {
		if c != nil {
			<-c.Stop().Done()
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)

	database.Close()
	if configs.RDB != nil {
		_ = configs.RDB.Close()
	}
}
