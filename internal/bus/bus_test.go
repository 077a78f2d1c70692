package bus

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/token-hud/pkg/hud"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func setupTestRedis(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client, err := NewClient("redis://"+mr.Addr(), testLogger())
	if err != nil {
		t.Fatalf("Failed to create bus client: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	return client, mr
}

func TestNewClientRejectsBadURL(t *testing.T) {
	_, err := NewClient("not a url", testLogger())
	assert.Error(t, err)
}

func TestChannels(t *testing.T) {
	assert.Equal(t, "hud-events:grove", EventsChannel("grove"))
	assert.Equal(t, "hud-patches:grove", PatchesChannel("grove"))
}

func startSubscriber(t *testing.T, client *Client, sceneID string) <-chan hud.Event {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	got := make(chan hud.Event, 8)
	ready := make(chan struct{})
	done := make(chan struct{})

	sub := NewSubscriber(client, sceneID, testLogger())
	go func() {
		defer close(done)
		_ = sub.Run(ctx, func(_ context.Context, ev hud.Event) error {
			got <- ev
			return nil
		}, ready)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	select {
	case <-ready:
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber never became ready")
	}
	return got
}

func receive(t *testing.T, ch <-chan hud.Event) hud.Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return hud.Event{}
	}
}

func TestPublishAndSubscribe(t *testing.T) {
	client, _ := setupTestRedis(t)
	got := startSubscriber(t, client, "grove")

	pub := NewEventPublisher(client, "grove", testLogger())
	err := pub.Publish(context.Background(), hud.Event{
		Kind:     hud.EventEntityUpdated,
		EntityID: "t-lin",
		Changed:  []string{"hidden"},
	})
	require.NoError(t, err)

	ev := receive(t, got)
	assert.NotEmpty(t, ev.ID, "publisher assigns an id")
	assert.Equal(t, hud.EventEntityUpdated, ev.Kind)
	assert.Equal(t, "t-lin", ev.EntityID)
	assert.Equal(t, []string{"hidden"}, ev.Changed)
}

func TestSubscriberSkipsMalformedMessages(t *testing.T) {
	client, mr := setupTestRedis(t)
	got := startSubscriber(t, client, "grove")

	mr.Publish(EventsChannel("grove"), "{not json")
	mr.Publish(EventsChannel("grove"), `{"id":"e1","kind":"scene.ready"}`)

	ev := receive(t, got)
	assert.Equal(t, "e1", ev.ID)
	assert.Equal(t, hud.EventSceneReady, ev.Kind)
}

func TestSubscriberIgnoresOtherScenes(t *testing.T) {
	client, _ := setupTestRedis(t)
	got := startSubscriber(t, client, "grove")

	ctx := context.Background()
	require.NoError(t, NewEventPublisher(client, "cave", testLogger()).Publish(ctx, hud.Event{ID: "other", Kind: hud.EventSceneReady}))
	require.NoError(t, NewEventPublisher(client, "grove", testLogger()).Publish(ctx, hud.Event{ID: "mine", Kind: hud.EventSceneReady}))

	assert.Equal(t, "mine", receive(t, got).ID)
}

func subscribePatches(t *testing.T, client *Client, sceneID string) <-chan *redis.Message {
	t.Helper()
	ctx := context.Background()
	sub := client.Redis().Subscribe(ctx, PatchesChannel(sceneID))
	_, err := sub.Receive(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { sub.Close() })
	return sub.Channel()
}

func nextPatch(t *testing.T, ch <-chan *redis.Message) PatchMessage {
	t.Helper()
	select {
	case msg := <-ch:
		var pm PatchMessage
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &pm))
		return pm
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for patch")
		return PatchMessage{}
	}
}

func TestPatchPublisherSerialisesSurfaceOps(t *testing.T) {
	client, _ := setupTestRedis(t)
	ch := subscribePatches(t, client, "grove")
	p := NewPatchPublisher(client, "grove", testLogger())

	require.NoError(t, p.Insert(hud.ContainerEnemies, "t-bandit-1", `<div class="hud-card"></div>`))
	p.SetActive("t-bandit-1", true)
	p.Apply("t-bandit-1", hud.Patch{Name: "Bandit", Primary: hud.BarPatch{Meter: hud.Meter{Percent: 40, Text: "20/50"}}})
	p.PlayEffect("t-bandit-1", hud.EffectShake)
	p.HidePanel()

	insert := nextPatch(t, ch)
	assert.Equal(t, OpInsert, insert.Op)
	assert.Equal(t, uint64(1), insert.Seq)
	assert.Equal(t, hud.ContainerEnemies, insert.Container)
	assert.Contains(t, insert.Markup, "hud-card")

	active := nextPatch(t, ch)
	assert.Equal(t, OpActive, active.Op)
	require.NotNil(t, active.Active)
	assert.True(t, *active.Active)

	apply := nextPatch(t, ch)
	assert.Equal(t, OpApply, apply.Op)
	require.NotNil(t, apply.Patch)
	assert.Equal(t, "20/50", apply.Patch.Primary.Text)

	effect := nextPatch(t, ch)
	assert.Equal(t, OpPlayEffect, effect.Op)
	assert.Equal(t, hud.EffectShake, effect.Effect)

	hide := nextPatch(t, ch)
	assert.Equal(t, OpHidePanel, hide.Op)
	assert.Equal(t, uint64(5), hide.Seq)
}

func TestPatchPublisherReportsInsertFailure(t *testing.T) {
	client, mr := setupTestRedis(t)
	p := NewPatchPublisher(client, "grove", testLogger())

	mr.Close()
	assert.Error(t, p.Insert(hud.ContainerFriends, "t-lin", "<div></div>"))
}
