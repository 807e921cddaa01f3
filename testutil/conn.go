package testutil

import (
	"encoding/json"
	"errors"
	"sync"
)

var ErrConnClosed = errors.New("connection closed")

// Conn records every message sent to it as raw JSON.
type Conn struct {
	mu     sync.Mutex
	msgs   []json.RawMessage
	Closed bool
}

func (c *Conn) Send(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.Closed {
		return ErrConnClosed
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.msgs = append(c.msgs, b)
	return nil
}

// Messages returns a copy of everything received so far.
func (c *Conn) Messages() []json.RawMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]json.RawMessage(nil), c.msgs...)
}

// Last decodes the most recent message into a generic map, or returns nil.
func (c *Conn) Last() map[string]any {
	msgs := c.Messages()
	if len(msgs) == 0 {
		return nil
	}
	var out map[string]any
	if err := json.Unmarshal(msgs[len(msgs)-1], &out); err != nil {
		return nil
	}
	return out
}
