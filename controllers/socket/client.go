package socketControllers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 1 << 20
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Client is one browser tab. Writes are serialised because gorilla/websocket
// allows a single concurrent writer.
type Client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *Client) Send(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteJSON(v)
}

// Upgrade switches the request to a websocket and wraps it for concurrent
// writers.
func Upgrade(c *gin.Context) (*Client, error) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return nil, err
	}
	conn.SetReadLimit(maxMessageSize)
	return &Client{conn: conn}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// ReadMessage blocks until the next frame arrives.
func (c *Client) ReadMessage() ([]byte, error) {
	_, data, err := c.conn.ReadMessage()
	return data, err
}

// ServeWS upgrades the request and feeds every frame to the dispatcher. Each
// frame is handled on its own goroutine; the connection leaves the session
// directory only after all of them finish.
func ServeWS(d *Dispatcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		client, err := Upgrade(c)
		if err != nil {
			d.log.Warn("websocket upgrade failed", zap.Error(err))
			return
		}
		defer client.Close()

		ctx := context.WithoutCancel(c.Request.Context())
		d.log.Debug("client connected", zap.String("remote", c.ClientIP()))

		var wg sync.WaitGroup
		defer func() {
			wg.Wait()
			d.directory.Unregister(client)
			d.log.Debug("client disconnected", zap.String("remote", c.ClientIP()))
		}()

		for {
			data, err := client.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
					d.log.Warn("websocket read failed", zap.Error(err))
				}
				return
			}

			wg.Add(1)
			go func() {
				defer wg.Done()
				d.Handle(ctx, client, data)
			}()
		}
	}
}
