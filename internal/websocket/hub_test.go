package websocket

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type noopLogger struct{}

func (noopLogger) Debug(module, message string, details map[string]interface{}) {}
func (noopLogger) Info(module, message string, details map[string]interface{})  {}
func (noopLogger) Warn(module, message string, details map[string]interface{})  {}
func (noopLogger) Error(module, message string, details map[string]interface{}) {}
func (noopLogger) Sync() error                                                  { return nil }

func waitForClientCount(t *testing.T, hub *Hub, userID uuid.UUID, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		hub.mu.RLock()
		got := len(hub.clients[userID])
		hub.mu.RUnlock()
		if got == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("client count for %s never reached %d", userID, want)
}

func TestHubSendDropsSlowClientWithoutPanic(t *testing.T) {
	hub := NewHub(nil, noopLogger{})
	go hub.Run()

	userID := uuid.New()
	// Nobody drains Send, so the first push already finds the buffer full.
	client := &Client{Hub: hub, UserID: userID, Send: make(chan []byte)}
	hub.register <- client
	waitForClientCount(t, hub, userID, 1)

	hub.Send(userID, StatusUpdate{Status: "ready"})

	// The unregister path is the only closer of Send; once it runs the
	// channel reads as closed exactly once.
	select {
	case _, open := <-client.Send:
		assert.False(t, open)
	case <-time.After(2 * time.Second):
		t.Fatal("slow client was never unregistered")
	}
	waitForClientCount(t, hub, userID, 0)

	// A second push to the same user must not find the dropped client.
	hub.Send(userID, StatusUpdate{Status: "failed"})

	// A late unregister from the read pump of the same client is a no-op.
	hub.unregister <- client
	hub.Send(userID, StatusUpdate{Status: "ready"})
}

func TestHubDeliversToRegisteredClient(t *testing.T) {
	hub := NewHub(nil, noopLogger{})
	go hub.Run()

	userID := uuid.New()
	client := &Client{Hub: hub, UserID: userID, Send: make(chan []byte, 4)}
	hub.register <- client
	waitForClientCount(t, hub, userID, 1)

	hub.Send(userID, StatusUpdate{FileId: "f1", Status: "ready", ChunkCount: 3})

	select {
	case msg := <-client.Send:
		assert.Contains(t, string(msg), `"source_status"`)
		assert.Contains(t, string(msg), `"ready"`)
	case <-time.After(2 * time.Second):
		t.Fatal("registered client never received the update")
	}
}
