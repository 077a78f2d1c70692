package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jwebster45206/token-hud/internal/bus"
	"github.com/jwebster45206/token-hud/internal/config"
	"github.com/jwebster45206/token-hud/internal/handlers"
	"github.com/jwebster45206/token-hud/internal/logger"
	"github.com/jwebster45206/token-hud/internal/metrics"
	"github.com/jwebster45206/token-hud/internal/storage"
	"github.com/jwebster45206/token-hud/internal/worker"
	"github.com/jwebster45206/token-hud/pkg/hud"
	"github.com/jwebster45206/token-hud/pkg/panel"
	"github.com/jwebster45206/token-hud/pkg/render"
	"github.com/jwebster45206/token-hud/pkg/schedule"
	pkgstorage "github.com/jwebster45206/token-hud/pkg/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg)

	if cfg.SceneID == "" {
		log.Error("SCENE_ID is required")
		os.Exit(1)
	}
	log = logger.WithScene(log, cfg.SceneID)

	log.Info("Starting HUD daemon",
		"environment", cfg.Environment,
		"redis_url", cfg.RedisURL,
		"viewer_id", cfg.ViewerID,
		"viewer_is_gm", cfg.ViewerIsGM)

	// Initialize storage service
	storageService, err := storage.NewRedisStorage(cfg.RedisURL, cfg.DataDir, log)
	if err != nil {
		log.Error("Failed to create storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := storageService.Close(); err != nil {
			log.Error("Error closing storage", "error", err)
		}
	}()

	storageCtx, storageCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer storageCancel()
	if err := storageService.WaitForConnection(storageCtx, 30, 2*time.Second); err != nil {
		log.Error("Failed to connect to storage", "error", err)
		os.Exit(1)
	}
	log.Info("Storage service initialized successfully")

	// Initialize event bus
	busClient, err := bus.NewClient(cfg.RedisURL, log)
	if err != nil {
		log.Error("Failed to create bus client", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := busClient.Close(); err != nil {
			log.Error("Error closing bus client", "error", err)
		}
	}()

	m := metrics.New(prometheus.DefaultRegisterer)

	surface := bus.NewPatchPublisher(busClient, cfg.SceneID, log)
	renderer := render.NewHTML()
	clock := schedule.NewClock(cfg.FrameInterval)
	source := pkgstorage.SceneSource(storageService, cfg.SceneID)
	viewer := hud.Viewer{UserID: cfg.ViewerID, IsGM: cfg.ViewerIsGM}

	engine := hud.New(renderer, surface, clock, log,
		hud.WithRemovalDelay(cfg.RemovalDelay),
		hud.WithEffectDuration(cfg.EffectDuration),
		hud.WithObserver(m),
	)
	router := hud.NewRouter(engine, source,
		pkgstorage.SettingsFor(storageService, cfg.SceneID, cfg.OnlyCombatants),
		viewer, log)

	controller := panel.NewController(source, renderer, surface, viewer, nil,
		schedule.NewDebouncer(cfg.Debounce, clock), log)
	defer controller.Close()
	router.Subscribe(controller)

	w := worker.New(bus.NewSubscriber(busClient, cfg.SceneID, log), router, busClient.Redis(), m, log,
		cfg.SceneID, os.Getenv("WORKER_ID"))

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/health", handlers.NewHealthHandler(cfg.SceneID,
		map[string]handlers.Pinger{"storage": storageService, "bus": busClient},
		func() int { return len(engine.CardIDs()) },
		log))
	srv := &http.Server{
		Addr:              cfg.MetricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("Metrics server listening", "addr", cfg.MetricsAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Metrics server error", "error", err)
		}
	}()

	// Handle graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	workerDone := make(chan error, 1)
	go func() {
		workerDone <- w.Start()
	}()

	log.Info("Worker started, waiting for host events...", "worker_id", w.ID())

	select {
	case <-quit:
		log.Info("Shutdown signal received")
		w.Stop()
		<-workerDone
	case err := <-workerDone:
		if err != nil {
			log.Error("Worker error", "error", err)
		}
	}

	engine.Reset()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Metrics server shutdown error", "error", err)
	}

	log.Info("HUD daemon exited")
}
