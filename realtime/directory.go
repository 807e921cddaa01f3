// Package realtime tracks which live connections belong to which session so
// that state changes can be pushed to every tab a user has open.
package realtime

import (
	"sync"

	"go.uber.org/zap"
)

// Conn is a connection that can receive JSON messages.
type Conn interface {
	Send(v any) error
}

type connSet map[Conn]struct{}

// Directory maps session tokens to their live connections. It is safe for
// concurrent use.
type Directory struct {
	mu      sync.Mutex
	byToken map[string]connSet
	byConn  map[Conn]map[string]struct{}
	log     *zap.Logger
}

func NewDirectory(log *zap.Logger) *Directory {
	return &Directory{
		byToken: make(map[string]connSet),
		byConn:  make(map[Conn]map[string]struct{}),
		log:     log,
	}
}

// Register adds c under token. Registering twice is a no-op.
func (d *Directory) Register(token string, c Conn) {
	if token == "" || c == nil {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	conns, ok := d.byToken[token]
	if !ok {
		conns = make(connSet)
		d.byToken[token] = conns
	}
	conns[c] = struct{}{}

	tokens, ok := d.byConn[c]
	if !ok {
		tokens = make(map[string]struct{})
		d.byConn[c] = tokens
	}
	tokens[token] = struct{}{}
}

// Unregister removes c from every token it was registered under.
func (d *Directory) Unregister(c Conn) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for token := range d.byConn[c] {
		conns := d.byToken[token]
		delete(conns, c)
		if len(conns) == 0 {
			delete(d.byToken, token)
		}
	}
	delete(d.byConn, c)
}

// Drop forgets token entirely, e.g. after logout.
func (d *Directory) Drop(token string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for c := range d.byToken[token] {
		tokens := d.byConn[c]
		delete(tokens, token)
		if len(tokens) == 0 {
			delete(d.byConn, c)
		}
	}
	delete(d.byToken, token)
}

// Broadcast sends msg to every connection under token and returns how many
// accepted it. A failing connection does not stop delivery to the others.
func (d *Directory) Broadcast(token string, msg any) int {
	d.mu.Lock()
	recipients := make([]Conn, 0, len(d.byToken[token]))
	for c := range d.byToken[token] {
		recipients = append(recipients, c)
	}
	d.mu.Unlock()

	delivered := 0
	for _, c := range recipients {
		if err := c.Send(msg); err != nil {
			d.log.Warn("broadcast send failed", zap.Error(err))
			continue
		}
		delivered++
	}
	return delivered
}

// Count returns the number of connections registered under token.
func (d *Directory) Count(token string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.byToken[token])
}
