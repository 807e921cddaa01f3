package mailer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vansh565/Nexus-store/models"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []Message
	err  error
}

func (s *recordingSender) Send(_ context.Context, m Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, m)
	return s.err
}

func (s *recordingSender) messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.sent...)
}

func sampleOrders() []models.Order {
	return []models.Order{
		{ID: 1, UserEmail: "a@example.com", Name: "Headphones", Price: "$10.00", Quantity: 2, Image: "/images/h.png", ShippingAddress: "1 Main St", PaymentMethod: "card"},
		{ID: 2, UserEmail: "a@example.com", Name: "Cable", Price: "$5", Quantity: 1, ShippingAddress: "1 Main St", PaymentMethod: "card"},
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleOrders())

	require.Len(t, s.Lines, 2)
	assert.InDelta(t, 20.0, s.Lines[0].Amount, 0.001)
	assert.InDelta(t, 25.0, s.Subtotal, 0.001)
	assert.InDelta(t, 2.5, s.Discount, 0.001)
	assert.InDelta(t, 10.0, s.DeliveryFee, 0.001)
	assert.InDelta(t, 32.5, s.Total, 0.001)
	assert.Equal(t, "1 Main St", s.ShippingAddress)
	assert.Equal(t, "card", s.PaymentMethod)
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	assert.Empty(t, s.Lines)
	assert.InDelta(t, 10.0, s.Total, 0.001)
}

func TestOTPMessage(t *testing.T) {
	m, err := OTPMessage("a@example.com", "123456", 10*time.Minute)
	require.NoError(t, err)

	assert.Equal(t, "a@example.com", m.To)
	assert.Equal(t, "NEXUS Store OTP Verification", m.Subject)
	assert.Contains(t, m.HTML, "<strong>123456</strong>")
	assert.Contains(t, m.HTML, "valid for 10 minutes")
}

func TestOrderPlacedMessages(t *testing.T) {
	msgs, err := OrderPlacedMessages("a@example.com", "admin@example.com", sampleOrders(), time.Now())
	require.NoError(t, err)
	require.Len(t, msgs, 2)

	assert.Equal(t, "a@example.com", msgs[0].To)
	assert.Contains(t, msgs[0].HTML, "Headphones")
	assert.Contains(t, msgs[0].HTML, "$32.50")
	assert.Contains(t, msgs[0].HTML, "$20.00")

	assert.Equal(t, "admin@example.com", msgs[1].To)
	assert.Equal(t, "New Order Received from User: a@example.com", msgs[1].Subject)
	assert.Contains(t, msgs[1].HTML, "1 Main St")
}

func TestOrderCancelledMessages_EscapesHTML(t *testing.T) {
	order := sampleOrders()[0]
	order.Name = "<script>alert(1)</script>"

	msgs, err := OrderCancelledMessages("a@example.com", "admin@example.com", order)
	require.NoError(t, err)
	require.Len(t, msgs, 2)

	assert.NotContains(t, msgs[0].HTML, "<script>")
	assert.Contains(t, msgs[0].HTML, "&lt;script&gt;")
	assert.Contains(t, msgs[1].HTML, "<strong>Order ID:</strong> 1")
}

func TestOrderStatusMessage(t *testing.T) {
	order := sampleOrders()[0]
	order.Status = models.OrderStatusShipped

	m, err := OrderStatusMessage(order)
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", m.To)
	assert.Contains(t, m.HTML, "<strong>shipped</strong>")
}

func TestQueue_DeliversInBackground(t *testing.T) {
	sender := &recordingSender{}
	q := NewQueue(sender, "admin@example.com", 10, zap.NewNop())
	q.Start(context.Background())

	q.OrderPlaced("a@example.com", sampleOrders())
	q.SendOTP("b@example.com", "654321", 10*time.Minute)
	q.Close()

	sent := sender.messages()
	require.Len(t, sent, 3)
	assert.Equal(t, "a@example.com", sent[0].To)
	assert.Equal(t, "admin@example.com", sent[1].To)
	assert.Equal(t, "b@example.com", sent[2].To)
}

func TestQueue_SenderErrorsAreSwallowed(t *testing.T) {
	sender := &recordingSender{err: errors.New("smtp down")}
	q := NewQueue(sender, "admin@example.com", 10, zap.NewNop())
	q.Start(context.Background())

	q.OrderCancelled("a@example.com", sampleOrders()[0])
	q.Close()

	assert.Len(t, sender.messages(), 2)
}

func TestQueue_DropsWhenFull(t *testing.T) {
	sender := &recordingSender{}
	q := NewQueue(sender, "admin@example.com", 1, zap.NewNop())

	q.SendOTP("a@example.com", "111111", time.Minute)
	q.SendOTP("b@example.com", "222222", time.Minute)

	q.Start(context.Background())
	q.Close()

	sent := sender.messages()
	require.Len(t, sent, 1)
	assert.Equal(t, "a@example.com", sent[0].To)
}

func TestQueue_EnqueueAfterClose(t *testing.T) {
	sender := &recordingSender{}
	q := NewQueue(sender, "admin@example.com", 1, zap.NewNop())
	q.Start(context.Background())
	q.Close()
	q.Close()

	assert.NotPanics(t, func() {
		q.OrderStatusChanged(sampleOrders()[0])
	})
	assert.Empty(t, sender.messages())
}

func TestLogSender(t *testing.T) {
	err := NewLogSender(zap.NewNop()).Send(context.Background(), Message{To: "a@example.com"})
	assert.NoError(t, err)
}
