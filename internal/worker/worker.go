package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jwebster45206/token-hud/internal/bus"
	"github.com/jwebster45206/token-hud/internal/logger"
	"github.com/jwebster45206/token-hud/pkg/hud"
)

const (
	leaseTTL     = 30 * time.Second
	leaseRenewal = 10 * time.Second
)

// ErrSceneLocked is returned by Start when another worker owns the scene.
var ErrSceneLocked = errors.New("scene is owned by another worker")

var renewScript = redis.NewScript(`
	if redis.call("get", KEYS[1]) == ARGV[1] then
		return redis.call("pexpire", KEYS[1], ARGV[2])
	else
		return 0
	end
`)

var releaseScript = redis.NewScript(`
	if redis.call("get", KEYS[1]) == ARGV[1] then
		return redis.call("del", KEYS[1])
	else
		return 0
	end
`)

// EventRecorder is notified of every handled host event.
type EventRecorder interface {
	EventHandled(kind hud.EventKind, err error)
}

// Worker drives a HUD router from the host events of one scene.
type Worker struct {
	id          string
	sceneID     string
	subscriber  *bus.Subscriber
	router      *hud.Router
	redisClient *redis.Client
	recorder    EventRecorder
	log         *slog.Logger
	ctx         context.Context
	cancel      context.CancelFunc
	ready       chan struct{}

	// handleMu serialises event handling so scene.ready resets never
	// interleave with other events.
	handleMu sync.Mutex
}

// New creates a new worker instance. recorder may be nil.
func New(subscriber *bus.Subscriber, router *hud.Router, redisClient *redis.Client, recorder EventRecorder, log *slog.Logger, sceneID, workerID string) *Worker {
	ctx, cancel := context.WithCancel(context.Background())

	if workerID == "" {
		workerID = fmt.Sprintf("worker-%s", uuid.New().String()[:8])
	}

	return &Worker{
		id:          workerID,
		sceneID:     sceneID,
		subscriber:  subscriber,
		router:      router,
		redisClient: redisClient,
		recorder:    recorder,
		log:         logger.WithWorker(log, workerID),
		ctx:         ctx,
		cancel:      cancel,
		ready:       make(chan struct{}),
	}
}

// ID returns the worker ID.
func (w *Worker) ID() string {
	return w.id
}

// Ready is closed once the worker is subscribed and has built the scene's cards.
func (w *Worker) Ready() <-chan struct{} {
	return w.ready
}

// Start takes ownership of the scene and handles its events until Stop.
func (w *Worker) Start() error {
	w.log.Info("Worker starting")

	locked, err := w.acquireSceneLock()
	if err != nil {
		return fmt.Errorf("failed to acquire scene lock: %w", err)
	}
	if !locked {
		return ErrSceneLocked
	}
	defer w.releaseSceneLock()

	go w.renewSceneLock()

	subscribed := make(chan struct{})
	go func() {
		select {
		case <-subscribed:
		case <-w.ctx.Done():
			return
		}
		// Cards are built from scratch once nothing can be missed.
		w.handle(w.ctx, hud.Event{ID: uuid.NewString(), Kind: hud.EventSceneReady})
		close(w.ready)
	}()

	if err := w.subscriber.Run(w.ctx, w.handleEvent, subscribed); err != nil {
		return fmt.Errorf("failed to receive events: %w", err)
	}

	w.log.Info("Worker shutting down")
	return nil
}

// Stop gracefully shuts down the worker
func (w *Worker) Stop() {
	w.log.Info("Worker stop requested")
	w.cancel()
}

func (w *Worker) handleEvent(ctx context.Context, ev hud.Event) error {
	select {
	case <-w.ready:
	case <-ctx.Done():
		return ctx.Err()
	}
	return w.handle(ctx, ev)
}

func (w *Worker) handle(ctx context.Context, ev hud.Event) error {
	w.handleMu.Lock()
	defer w.handleMu.Unlock()

	start := time.Now()
	err := w.router.Handle(ctx, ev)
	if w.recorder != nil {
		w.recorder.EventHandled(ev.Kind, err)
	}
	if err != nil {
		logger.WithError(w.log, err).Error("Error handling event",
			"event_id", ev.ID,
			"event_kind", ev.Kind,
		)
		return err
	}

	w.log.Debug("Event handled",
		"event_id", ev.ID,
		"event_kind", ev.Kind,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

func (w *Worker) lockKey() string {
	return fmt.Sprintf("hud-worker-lock:%s", w.sceneID)
}

// acquireSceneLock attempts to take the scene.
// Returns true if lock was acquired, false if already locked
func (w *Worker) acquireSceneLock() (bool, error) {
	return w.redisClient.SetNX(w.ctx, w.lockKey(), w.id, leaseTTL).Result()
}

// renewSceneLock extends the lock while the worker runs.
func (w *Worker) renewSceneLock() {
	ticker := time.NewTicker(leaseRenewal)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			n, err := renewScript.Run(w.ctx, w.redisClient, []string{w.lockKey()}, w.id, leaseTTL.Milliseconds()).Int()
			if err != nil {
				if !errors.Is(err, context.Canceled) {
					logger.WithError(w.log, err).Error("Failed to renew scene lock")
				}
				continue
			}
			if n == 0 {
				w.log.Warn("Scene lock lost")
			}
		}
	}
}

// releaseSceneLock releases the lock if this worker still owns it
func (w *Worker) releaseSceneLock() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := releaseScript.Run(ctx, w.redisClient, []string{w.lockKey()}, w.id).Err(); err != nil {
		logger.WithError(w.log, err).Error("Failed to release scene lock")
	}
}
