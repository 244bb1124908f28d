package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Praveenkumar76/skypad-backend/internal/config"
	"github.com/Praveenkumar76/skypad-backend/internal/exec"
	"github.com/Praveenkumar76/skypad-backend/internal/handlers"
	"github.com/Praveenkumar76/skypad-backend/internal/metrics"
	"github.com/Praveenkumar76/skypad-backend/internal/problems"
	"github.com/Praveenkumar76/skypad-backend/internal/rewards"
	"github.com/Praveenkumar76/skypad-backend/internal/rooms"
	"github.com/Praveenkumar76/skypad-backend/internal/routers"
	"github.com/Praveenkumar76/skypad-backend/internal/session"
	"github.com/Praveenkumar76/skypad-backend/internal/store"
	"github.com/Praveenkumar76/skypad-backend/internal/timers"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config load failed", zap.Error(err))
	}

	db, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{})
	if err != nil {
		logger.Fatal("postgres connect failed", zap.Error(err))
	}
	if err := store.AutoMigrate(db); err != nil {
		logger.Fatal("migrate failed", zap.Error(err))
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPass})
	defer rdb.Close()

	bootCtx, bootCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer bootCancel()
	mongoClient, err := problems.NewClient(bootCtx, cfg.MongoURI)
	if err != nil {
		logger.Fatal("mongo connect failed", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		mongoClient.Close(ctx)
	}()
	catalog, err := problems.NewRepo(mongoClient)
	if err != nil {
		logger.Fatal("problem repo init failed", zap.Error(err))
	}

	hub := session.NewHub()
	lobby := timers.NewLobbyTimerManager(logger)
	sandbox := exec.NewSandbox(cfg.SandboxDir, logger)
	runner := exec.NewRunner(sandbox, cfg.CaseTimeLimit)
	publisher := rewards.NewPublisher(rdb, logger)

	svc := rooms.NewService(
		store.NewRoomStore(db), catalog, runner, hub, lobby, publisher, logger,
		rooms.Config{JWTSecret: cfg.JWTSecret, LobbyTTL: cfg.LobbyTTL},
	)

	monitor := timers.NewTimeoutMonitor(cfg.SweepEvery, func() {
		svc.Sweep(context.Background())
	}, logger)
	if err := monitor.Start(); err != nil {
		logger.Fatal("timeout monitor start failed", zap.Error(err))
	}

	router := chi.NewRouter()
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
	router.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer, metrics.Middleware)

	routers.RoomRoutes(router, handlers.NewRoomHandlers(svc, hub, logger))

	// No Read/WriteTimeout: the ws endpoint holds connections open for the
	// whole match.
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("skypad room service starting", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)
	<-shutdownChan

	logger.Info("skypad room service shutting down")
	monitor.Stop()
	lobby.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}
	logger.Info("skypad room service exited")
}
