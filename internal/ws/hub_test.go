package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karuteens/moderation/internal/models"
)

func newTestClient(hub *Hub) *Client {
	return &Client{hub: hub, moderatorID: uuid.New(), send: make(chan []byte, 4)}
}

func TestHub_NotifyAutoFlagReachesAllClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub()
	go hub.Run(ctx)

	a, b := newTestClient(hub), newTestClient(hub)
	require.True(t, hub.Register(a))
	require.True(t, hub.Register(b))
	assert.Eventually(t, func() bool { return hub.ClientCount() == 2 }, time.Second, 10*time.Millisecond)

	flag := &models.AutoFlag{ID: uuid.New(), ContentType: models.ContentTypePost, FlagType: models.FlagTypeSpam, Status: models.AutoFlagStatusPending}
	hub.NotifyAutoFlag(flag)

	for _, c := range []*Client{a, b} {
		select {
		case raw := <-c.send:
			var msg struct {
				Type string          `json:"type"`
				Data models.AutoFlag `json:"data"`
			}
			require.NoError(t, json.Unmarshal(raw, &msg))
			assert.Equal(t, EventAutoFlagCreated, msg.Type)
			assert.Equal(t, flag.ID, msg.Data.ID)
		case <-time.After(time.Second):
			t.Fatal("событие не доставлено")
		}
	}
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub()
	go hub.Run(ctx)

	c := newTestClient(hub)
	require.True(t, hub.Register(c))
	hub.Unregister(c)

	select {
	case _, ok := <-c.send:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("канал не закрыт")
	}
	assert.Equal(t, 0, hub.ClientCount())
}

func TestHub_StoppedHubRejectsClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub()
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	assert.False(t, hub.Register(newTestClient(hub)))
	// Не блокируется после остановки.
	hub.Unregister(newTestClient(hub))
}
