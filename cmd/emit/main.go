package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jwebster45206/token-hud/internal/bus"
	"github.com/jwebster45206/token-hud/internal/config"
	"github.com/jwebster45206/token-hud/internal/logger"
	"github.com/jwebster45206/token-hud/internal/storage"
	"github.com/jwebster45206/token-hud/pkg/actor"
	"github.com/jwebster45206/token-hud/pkg/hud"
	"github.com/jwebster45206/token-hud/pkg/scene"
)

// step mutates the scene and returns the host event describing the change.
type step struct {
	name string
	run  func(s *scene.Scene) (hud.Event, error)
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <scene.yaml|scene.json> [step-delay]\n", os.Args[0])
		os.Exit(1)
	}

	delay := time.Second
	if len(os.Args) > 2 {
		d, err := time.ParseDuration(os.Args[2])
		if err != nil {
			log.Fatal("Invalid step delay:", err)
		}
		delay = d
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logr := logger.Setup(cfg)

	sc, err := scene.Load(os.Args[1])
	if err != nil {
		log.Fatal("Failed to load scene:", err)
	}

	store, err := storage.NewRedisStorage(cfg.RedisURL, cfg.DataDir, logr)
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer store.Close()

	client, err := bus.NewClient(cfg.RedisURL, logr)
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer client.Close()

	ctx := context.Background()
	pub := bus.NewEventPublisher(client, sc.ID(), logr)

	fmt.Printf("Connected to Redis, emitting to %s\n", bus.EventsChannel(sc.ID()))

	for _, st := range script(sc) {
		ev, err := st.run(sc)
		if err != nil {
			fmt.Printf("⏭  %s: %v\n", st.name, err)
			continue
		}
		// The worker reads the scene on every event, so state lands first.
		if err := store.SaveScene(ctx, sc.File()); err != nil {
			log.Fatal("Failed to save scene:", err)
		}
		if ev.Kind == hud.EventSettingChanged {
			only, _ := sc.OnlyCombatants(ctx)
			if err := store.SetOnlyCombatants(ctx, sc.ID(), only); err != nil {
				log.Fatal("Failed to save setting:", err)
			}
		}
		if err := pub.Publish(ctx, ev); err != nil {
			log.Fatal("Failed to publish event:", err)
		}
		fmt.Printf("✅ %s (%s)\n", st.name, ev.Kind)
		time.Sleep(delay)
	}

	fmt.Println("\n💡 Start the daemon first to watch the cards react:")
	fmt.Printf("   SCENE_ID=%s go run ./cmd/hudd\n", sc.ID())
}

// script is a short combat exercising every effect.
func script(sc *scene.Scene) []step {
	var hero, foe string
	for _, a := range sc.Actors() {
		switch {
		case hero == "" && len(a.Owners) > 0:
			hero = a.ID
		case foe == "" && len(a.Owners) == 0:
			foe = a.ID
		}
	}

	return []step{
		{"scene ready", func(s *scene.Scene) (hud.Event, error) { return s.Ready(), nil }},
		{"foe is struck", func(s *scene.Scene) (hud.Event, error) { return s.Damage(foe, 12) }},
		{"hero casts", func(s *scene.Scene) (hud.Event, error) { return s.SpendMP(hero, 10) }},
		{"hero is healed", func(s *scene.Scene) (hud.Event, error) { return s.Heal(hero, 15) }},
		{"hero rage builds", func(s *scene.Scene) (hud.Event, error) { return s.AddRage(hero, 3) }},
		{"hero unleashes", func(s *scene.Scene) (hud.Event, error) { return s.AddRage(hero, -actor.MaxRage) }},
		{"hero recovers", func(s *scene.Scene) (hud.Event, error) { return s.RestoreMP(hero, 10) }},
		{"next round", func(s *scene.Scene) (hud.Event, error) { return s.NextRound(), nil }},
		{"only combatants", func(s *scene.Scene) (hud.Event, error) { return s.SetOnlyCombatants(true), nil }},
		{"foe falls", func(s *scene.Scene) (hud.Event, error) { return s.Damage(foe, 1000) }},
		{"combat ends", func(s *scene.Scene) (hud.Event, error) { return s.EndCombat(), nil }},
	}
}
