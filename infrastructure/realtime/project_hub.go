package realtime

import (
	"context"
	"encoding/json"
	"sync"

	"crowdfund-service/domain/model"
	"crowdfund-service/infrastructure/logger"

	"github.com/gin-gonic/gin"
)

// Hub fans project events out to dashboard clients over Server-Sent Events.
type Hub struct {
	mu   sync.RWMutex
	subs map[chan model.ProjectEvent]struct{}

	done      chan struct{}
	closeOnce sync.Once
}

func NewProjectHub() *Hub {
	return &Hub{
		subs: make(map[chan model.ProjectEvent]struct{}),
		done: make(chan struct{}),
	}
}

// Close ends every open stream. Register it with http.Server.RegisterOnShutdown
// so Shutdown does not wait on idle dashboards.
func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}

// Serve streams project events until the client goes away or the hub closes.
func (h *Hub) Serve(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // disable nginx buffering

	ch := make(chan model.ProjectEvent, 8)
	h.addSubscriber(ch)
	defer h.removeSubscriber(ch)

	_, _ = c.Writer.Write([]byte(":ok\n\n"))
	c.Writer.Flush()

	for {
		select {
		case <-c.Request.Context().Done():
			return
		case <-h.done:
			return
		case evt := <-ch:
			data, err := json.Marshal(evt)
			if err != nil {
				logger.GetLogger().WithField("error", err).Error("Error while encoding project event")
				continue
			}
			c.SSEvent(evt.Type, json.RawMessage(data))
			c.Writer.Flush()
		}
	}
}

// PublishProjectEvent never blocks; slow subscribers miss events.
func (h *Hub) PublishProjectEvent(ctx context.Context, event model.ProjectEvent) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs {
		select {
		case ch <- event:
		default:
		}
	}
	return nil
}

func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

func (h *Hub) addSubscriber(ch chan model.ProjectEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subs[ch] = struct{}{}
}

func (h *Hub) removeSubscriber(ch chan model.ProjectEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs, ch)
	close(ch)
}
