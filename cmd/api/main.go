package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	giftplayHttp "gift-playback-service/internal/giftplay/adapters/http/fiber"
	giftplayPg "gift-playback-service/internal/giftplay/adapters/postgres"
	"gift-playback-service/internal/giftplay/adapters/render"
	giftplayWs "gift-playback-service/internal/giftplay/adapters/ws"
	"gift-playback-service/internal/giftplay/core/ports"
	giftplayUsecase "gift-playback-service/internal/giftplay/core/usecase"

	giftstatsHttp "gift-playback-service/internal/giftstats/adapters/http/fiber"
	giftstatsMem "gift-playback-service/internal/giftstats/adapters/memory"
	giftstatsRedis "gift-playback-service/internal/giftstats/adapters/redis"
	giftstatsPorts "gift-playback-service/internal/giftstats/core/ports"
	giftstatsUsecase "gift-playback-service/internal/giftstats/core/usecase"

	"gift-playback-service/internal/config"
	"gift-playback-service/internal/metrics"

	"github.com/gofiber/fiber/v2"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	_ "gift-playback-service/docs"
)

func main() {
	// Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Gift archive (optional: runs without persistence when no DSN is set)
	var archive ports.GiftArchivePort
	if cfg.Postgres.DSN != "" {
		db, err := giftplayPg.Open(cfg.Postgres.DSN)
		if err != nil {
			log.Fatalf("failed to open postgres: %v", err)
		}
		defer db.Close()

		db.SetMaxOpenConns(20)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(30 * time.Minute)

		archive = giftplayPg.NewGiftRepository(giftplayPg.NewSQLDB(db))
	} else {
		log.Println("postgres.dsn not set, gift archive disabled")
	}

	// Stats store: redis when configured, in-memory otherwise
	var statsStore giftstatsPorts.StatsStorePort
	if cfg.Redis.Addr != "" {
		redisStore := giftstatsRedis.NewStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		defer redisStore.Close()
		statsStore = redisStore
	} else {
		statsStore = giftstatsMem.NewStore()
	}

	// Renderer: media gateway when configured, log fallback otherwise
	var renderer ports.RendererPort
	if cfg.Stream.RendererURL != "" {
		wsRenderer := giftplayWs.NewRenderer(cfg.Stream.RendererURL)
		if err := wsRenderer.Connect(ctx); err != nil {
			log.Fatalf("failed to connect renderer gateway: %v", err)
		}
		defer wsRenderer.Close()
		renderer = wsRenderer
	} else {
		renderer = render.LogRenderer{}
	}

	// Room sessions
	sessions := giftplayUsecase.NewSessionManager(renderer, giftplayUsecase.SessionConfig{
		ComboWindow:      time.Duration(cfg.Playback.ComboWindowMS) * time.Millisecond,
		TransitionBuffer: time.Duration(cfg.Playback.TransitionBufferMS) * time.Millisecond,
		QueueCapacity:    cfg.Playback.QueueCapacity,
	})
	sessions.CloseHook = func(roomID string) {
		if err := statsStore.Reset(context.Background(), roomID); err != nil {
			log.Printf("failed to reset stats for room %s: %v", roomID, err)
		}
	}
	defer sessions.CloseAll()

	// Usecases
	recordGiftUC := giftstatsUsecase.NewRecordGiftUseCase(statsStore)
	getRoomStatsUC := giftstatsUsecase.NewGetRoomStatsUseCase(statsStore)
	sendGiftUC := giftplayUsecase.NewSendGiftUseCase(sessions, archive, recordGiftUC)

	// Upstream room stream (optional)
	if cfg.Stream.URL != "" {
		stream := giftplayWs.NewStreamClient(cfg.Stream.URL, sendGiftUC)
		go stream.Run(ctx)
	}

	// HTTP (Fiber) app + handlers
	app := fiber.New()

	// gift + room endpoints
	giftHandler := giftplayHttp.NewGiftHandler(sendGiftUC, sessions)
	app.Post("/rooms/:room_id/gifts", giftHandler.SendGift)
	app.Post("/rooms/:room_id/gifts/batch", giftHandler.SendGiftBatch)
	app.Post("/rooms/:room_id/open", giftHandler.OpenRoom)
	app.Post("/rooms/:room_id/playback/skip", giftHandler.SkipPlayback)
	app.Delete("/rooms/:room_id", giftHandler.LeaveRoom)

	// stats endpoints
	statsHandler := giftstatsHttp.NewStatsHandler(getRoomStatsUC, sessions)
	app.Get("/rooms/:room_id/stats", statsHandler.GetRoomStats)

	// Prometheus
	promHandler := fasthttpadaptor.NewFastHTTPHandler(metrics.Handler())
	app.Get("/metrics", func(c *fiber.Ctx) error {
		promHandler(c.Context())
		return nil
	})

	// Swagger
	app.Get("/docs/*", fiberSwagger.WrapHandler)

	// Graceful shutdown
	go func() {
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			log.Printf("fiber stopped: %v", err)
		}
	}()

	log.Printf("server started on :%s", cfg.Server.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit

	log.Println("shutting down...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("fiber shutdown error: %v", err)
	}

	log.Println("server exiting")
}
