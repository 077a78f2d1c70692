package main

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jwebster45206/token-hud/internal/config"
	"github.com/jwebster45206/token-hud/pkg/hud"
	"github.com/jwebster45206/token-hud/pkg/panel"
	"github.com/jwebster45206/token-hud/pkg/scene"
	"github.com/jwebster45206/token-hud/pkg/schedule"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <scene.yaml|scene.json>\n", os.Args[0])
		os.Exit(1)
	}
	path := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// The terminal belongs to the UI, so logs go to a file.
	logFile, err := os.OpenFile("hud-console.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	log := slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: cfg.LogLevel}))

	sc, err := scene.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load scene: %v\n", err)
		os.Exit(1)
	}

	rng := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	sim, err := newSimulator(sc, rng)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up combat: %v\n", err)
		os.Exit(1)
	}

	// A console without a viewer identity is run by the GM.
	viewer := hud.Viewer{UserID: cfg.ViewerID, IsGM: cfg.ViewerIsGM || cfg.ViewerID == ""}

	ref := &sceneRef{sc: sc}
	surface := newTermSurface()
	clock := schedule.NewClock(cfg.FrameInterval)

	engine := hud.New(termRenderer{}, surface, clock, log,
		hud.WithRemovalDelay(cfg.RemovalDelay),
		hud.WithEffectDuration(cfg.EffectDuration),
	)
	router := hud.NewRouter(engine, ref.Source(), ref, viewer, log)
	controller := panel.NewController(ref.Source(), termRenderer{}, surface, viewer, panel.Labels{},
		schedule.NewDebouncer(cfg.Debounce, clock), log)
	defer controller.Close()
	router.Subscribe(controller)

	ui := NewConsoleUI(ref, &dispatcher{router: router}, engine, controller, surface, sim, rng, viewer)
	p := tea.NewProgram(ui, tea.WithAltScreen(), tea.WithMouseCellMotion())

	watcher, err := scene.NewWatcher(path,
		func(f *scene.File) { p.Send(reloadMsg{file: f}) },
		scene.WithOnError(func(err error) { p.Send(watchErrMsg{err: err}) }),
		scene.WithLogger(log),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to watch scene: %v\n", err)
		os.Exit(1)
	}
	if err := watcher.Start(); err != nil {
		log.Warn("Scene reload disabled", "error", err)
	}
	defer watcher.Stop()

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
	engine.Reset()
}
