package socketControllers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/vansh565/Nexus-store/apperr"
	"github.com/vansh565/Nexus-store/auth"
	"github.com/vansh565/Nexus-store/realtime"
)

// HandlerFunc performs one command. A nil reply with a nil error sends a bare
// success frame.
type HandlerFunc func(ctx context.Context, req *Request) (*Reply, error)

type Delivery int

const (
	// Direct replies to the originating connection only.
	Direct Delivery = iota
	// Broadcast sends the reply to every connection of the session.
	Broadcast
)

type Command struct {
	Name      string
	ReplyType string
	Auth      bool
	Delivery  Delivery
	// EndsSession forgets the request token's connections after the reply.
	EndsSession bool
	// Validate, when set, checks the payload before the session is.
	Validate func(req *Request) error
	Handle   HandlerFunc
}

// Dispatcher routes envelopes to commands by their type tag.
type Dispatcher struct {
	db        *gorm.DB
	directory *realtime.Directory
	timeout   time.Duration
	log       *zap.Logger
	commands  map[string]Command
}

func NewDispatcher(db *gorm.DB, directory *realtime.Directory, timeout time.Duration, log *zap.Logger) *Dispatcher {
	return &Dispatcher{
		db:        db,
		directory: directory,
		timeout:   timeout,
		log:       log,
		commands:  make(map[string]Command),
	}
}

// Register adds commands. Registering a name twice panics.
func (d *Dispatcher) Register(cmds ...Command) {
	for _, cmd := range cmds {
		if _, dup := d.commands[cmd.Name]; dup {
			panic(fmt.Sprintf("socket: command %q registered twice", cmd.Name))
		}
		if cmd.ReplyType == "" {
			cmd.ReplyType = cmd.Name
		}
		d.commands[cmd.Name] = cmd
	}
}

func (d *Dispatcher) Directory() *realtime.Directory {
	return d.directory
}

// Handle processes one raw frame from conn. Every outcome, including
// malformed input, produces exactly one frame to the originator or a
// broadcast that includes it.
func (d *Dispatcher) Handle(ctx context.Context, conn realtime.Conn, raw []byte) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		d.send(conn, &Reply{Status: StatusError, Message: "Invalid message format"})
		return
	}

	cmd, ok := d.commands[env.Type]
	if !ok {
		d.send(conn, &Reply{Status: StatusError, Message: "Invalid request type"})
		return
	}

	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	req := newRequest(env)
	if cmd.Validate != nil {
		if err := cmd.Validate(req); err != nil {
			d.send(conn, ErrorReply(cmd.ReplyType, err))
			return
		}
	}

	reply, err := d.run(ctx, conn, cmd, req)
	if err != nil {
		if apperr.KindOf(err) == apperr.ServerError {
			d.log.Error("command failed", zap.String("type", cmd.Name), zap.Error(err))
		}
		d.send(conn, ErrorReply(cmd.ReplyType, err))
		return
	}

	reply.Type = cmd.ReplyType
	reply.Status = StatusSuccess

	if reply.SessionToken != "" {
		d.directory.Register(reply.SessionToken, conn)
	}
	if cmd.EndsSession {
		d.directory.Drop(req.Token)
	}

	if cmd.Delivery == Broadcast && req.Token != "" {
		if d.directory.Broadcast(req.Token, reply) > 0 {
			return
		}
	}
	d.send(conn, reply)
}

func (d *Dispatcher) run(ctx context.Context, conn realtime.Conn, cmd Command, req *Request) (reply *Reply, err error) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error("command panicked", zap.String("type", cmd.Name), zap.Any("panic", r))
			reply, err = nil, apperr.New(apperr.ServerError, "Server error")
		}
	}()

	if cmd.Auth {
		email, err := auth.ValidateSession(ctx, d.db, req.Token)
		if err != nil {
			return nil, err
		}
		req.Email = email
		d.directory.Register(req.Token, conn)
	}

	reply, err = cmd.Handle(ctx, req)
	if err != nil {
		return nil, err
	}
	if reply == nil {
		reply = &Reply{}
	}
	return reply, nil
}

func (d *Dispatcher) send(conn realtime.Conn, reply *Reply) {
	if err := conn.Send(reply); err != nil {
		d.log.Warn("failed to send reply", zap.String("type", reply.Type), zap.Error(err))
	}
}
