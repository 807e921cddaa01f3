package mailer

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/vansh565/Nexus-store/models"
)

// Notifier is what request handlers use to trigger email. Calls never block
// on delivery and never fail the caller.
type Notifier interface {
	SendOTP(email, code string, ttl time.Duration)
	OrderPlaced(email string, orders []models.Order)
	OrderCancelled(email string, order models.Order)
	OrderStatusChanged(order models.Order)
}

var _ Notifier = (*Queue)(nil)

// Queue renders messages on the caller's goroutine and delivers them from a
// single background worker.
type Queue struct {
	sender      Sender
	adminEmail  string
	sendTimeout time.Duration
	log         *zap.Logger

	jobs chan Message
	wg   sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

func NewQueue(sender Sender, adminEmail string, size int, log *zap.Logger) *Queue {
	if size <= 0 {
		size = 1
	}
	return &Queue{
		sender:      sender,
		adminEmail:  adminEmail,
		sendTimeout: 30 * time.Second,
		log:         log,
		jobs:        make(chan Message, size),
	}
}

// Start runs the delivery worker until ctx is cancelled or Close is called.
func (q *Queue) Start(ctx context.Context) {
	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-q.jobs:
				if !ok {
					return
				}
				q.deliver(ctx, m)
			}
		}
	}()
}

// Close stops accepting mail, lets the worker drain what is queued and waits
// for it to exit.
func (q *Queue) Close() {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.jobs)
	}
	q.mu.Unlock()

	q.wg.Wait()
}

func (q *Queue) deliver(ctx context.Context, m Message) {
	ctx, cancel := context.WithTimeout(ctx, q.sendTimeout)
	defer cancel()

	if err := q.sender.Send(ctx, m); err != nil {
		q.log.Error("failed to send email",
			zap.String("to", m.To),
			zap.String("subject", m.Subject),
			zap.Error(err),
		)
		return
	}
	q.log.Info("email sent", zap.String("to", m.To), zap.String("subject", m.Subject))
}

func (q *Queue) enqueue(msgs ...Message) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, m := range msgs {
		if q.closed {
			q.log.Warn("mail queue closed, dropping email", zap.String("to", m.To))
			continue
		}
		select {
		case q.jobs <- m:
		default:
			q.log.Warn("mail queue full, dropping email", zap.String("to", m.To), zap.String("subject", m.Subject))
		}
	}
}

func (q *Queue) SendOTP(email, code string, ttl time.Duration) {
	m, err := OTPMessage(email, code, ttl)
	if err != nil {
		q.log.Error("failed to render otp email", zap.Error(err))
		return
	}
	q.enqueue(m)
}

func (q *Queue) OrderPlaced(email string, orders []models.Order) {
	msgs, err := OrderPlacedMessages(email, q.adminEmail, orders, time.Now())
	if err != nil {
		q.log.Error("failed to render order emails", zap.Error(err))
		return
	}
	q.enqueue(msgs...)
}

func (q *Queue) OrderCancelled(email string, order models.Order) {
	msgs, err := OrderCancelledMessages(email, q.adminEmail, order)
	if err != nil {
		q.log.Error("failed to render cancellation emails", zap.Error(err))
		return
	}
	q.enqueue(msgs...)
}

func (q *Queue) OrderStatusChanged(order models.Order) {
	m, err := OrderStatusMessage(order)
	if err != nil {
		q.log.Error("failed to render status email", zap.Error(err))
		return
	}
	q.enqueue(m)
}
