package dashboard

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/specfuzzer/specfuzzer/internal/upload"
)

// Hub fans state changes out to SSE subscribers. Each subscriber holds at
// most one pending state; a newer state replaces an unread one, so a slow
// client skips intermediate states but always sees the latest.
type Hub struct {
	mu      sync.RWMutex
	clients map[*sseClient]struct{}
}

type sseClient struct {
	send chan upload.State
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[*sseClient]struct{})}
}

// Publish queues s for every subscriber without blocking. It is safe to call
// from a Controller observer.
func (hub *Hub) Publish(s upload.State) {
	hub.mu.RLock()
	defer hub.mu.RUnlock()
	for c := range hub.clients {
		c.offer(s)
	}
}

func (c *sseClient) offer(s upload.State) {
	select {
	case c.send <- s:
		return
	default:
	}
	// Replace the unread state.
	select {
	case <-c.send:
	default:
	}
	select {
	case c.send <- s:
	default:
	}
}

func (hub *Hub) subscribe() *sseClient {
	c := &sseClient{send: make(chan upload.State, 1)}
	hub.mu.Lock()
	hub.clients[c] = struct{}{}
	hub.mu.Unlock()
	return c
}

func (hub *Hub) unsubscribe(c *sseClient) {
	hub.mu.Lock()
	delete(hub.clients, c)
	hub.mu.Unlock()
}

// ActiveConnections returns the number of connected SSE clients.
func (hub *Hub) ActiveConnections() int {
	hub.mu.RLock()
	defer hub.mu.RUnlock()
	return len(hub.clients)
}

// writeSSEEvent writes one named event with a JSON data line and flushes it.
func writeSSEEvent(w io.Writer, flusher http.Flusher, event string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", event, err)
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}
