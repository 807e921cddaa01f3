package orderControllers

import (
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	socket "github.com/vansh565/Nexus-store/controllers/socket"
	"github.com/vansh565/Nexus-store/models"
)

// FeedEvent is pushed to admin dashboards for every placed order batch.
type FeedEvent struct {
	Type   string         `json:"type"`
	Orders []models.Order `json:"orders"`
}

// Feed fans new orders out to connected admin dashboards.
type Feed struct {
	mu      sync.Mutex
	clients map[*socket.Client]struct{}
	log     *zap.Logger
}

func NewFeed(log *zap.Logger) *Feed {
	return &Feed{clients: make(map[*socket.Client]struct{}), log: log}
}

// OrderWebSocketHandler keeps an admin connection open until it goes away.
// Inbound frames are ignored.
func (f *Feed) OrderWebSocketHandler(c *gin.Context) {
	client, err := socket.Upgrade(c)
	if err != nil {
		f.log.Warn("order feed upgrade failed", zap.Error(err))
		return
	}
	defer client.Close()

	f.mu.Lock()
	f.clients[client] = struct{}{}
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		delete(f.clients, client)
		f.mu.Unlock()
	}()

	for {
		if _, err := client.ReadMessage(); err != nil {
			return
		}
	}
}

// Publish sends the orders to every dashboard and returns how many received
// them.
func (f *Feed) Publish(orders []models.Order) int {
	f.mu.Lock()
	clients := make([]*socket.Client, 0, len(f.clients))
	for c := range f.clients {
		clients = append(clients, c)
	}
	f.mu.Unlock()

	event := FeedEvent{Type: "newOrder", Orders: orders}
	sent := 0
	for _, c := range clients {
		if err := c.Send(event); err != nil {
			f.log.Warn("order feed send failed", zap.Error(err))
			continue
		}
		sent++
	}
	return sent
}

// Count reports connected dashboards.
func (f *Feed) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.clients)
}
