package testutil

import (
	"sync"
	"time"

	"github.com/vansh565/Nexus-store/mailer"
	"github.com/vansh565/Nexus-store/models"
)

var _ mailer.Notifier = (*Notifier)(nil)

// Notifier records notifications instead of sending email.
type Notifier struct {
	mu            sync.Mutex
	OTPs          map[string]string
	Placed        [][]models.Order
	Cancelled     []models.Order
	StatusChanges []models.Order
}

func NewNotifier() *Notifier {
	return &Notifier{OTPs: make(map[string]string)}
}

func (n *Notifier) SendOTP(email, code string, _ time.Duration) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.OTPs[email] = code
}

func (n *Notifier) OrderPlaced(_ string, orders []models.Order) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Placed = append(n.Placed, orders)
}

func (n *Notifier) OrderCancelled(_ string, order models.Order) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Cancelled = append(n.Cancelled, order)
}

func (n *Notifier) OrderStatusChanged(order models.Order) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.StatusChanges = append(n.StatusChanges, order)
}

// OTP returns the last code sent to email.
func (n *Notifier) OTP(email string) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.OTPs[email]
}

// PlacedCount reports how many order batches were announced.
func (n *Notifier) PlacedCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.Placed)
}
