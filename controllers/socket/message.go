package socketControllers

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"

	"github.com/vansh565/Nexus-store/apperr"
	"github.com/vansh565/Nexus-store/models"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Envelope is one inbound frame. Only Type is common to every command; the
// other fields are decoded by the command that needs them.
type Envelope struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Product   json.RawMessage `json:"product,omitempty"`
	Order     json.RawMessage `json:"order,omitempty"`
	ProductID Text            `json:"productId,omitempty"`
}

// Text accepts either a JSON string or a JSON number. Browsers send product
// ids and prices both ways.
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*t = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*t = Text(n.String())
	return nil
}

func (t Text) String() string {
	return strings.TrimSpace(string(t))
}

// Quantity is an optional JSON number that must be a positive integer when
// present.
type Quantity struct {
	Value   float64
	Present bool
}

func (q *Quantity) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*q = Quantity{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*q = Quantity{Value: v, Present: true}
	return nil
}

// Int returns the quantity when it is a positive integer.
func (q Quantity) Int() (int, bool) {
	if !q.Present || q.Value < 1 || q.Value != math.Trunc(q.Value) || q.Value > math.MaxInt32 {
		return 0, false
	}
	return int(q.Value), true
}

// Product is the item shape shared by cart, wishlist and order requests.
type Product struct {
	ID       Text     `json:"id"`
	Name     string   `json:"name"`
	Price    Text     `json:"price"`
	Image    string   `json:"image"`
	Quantity Quantity `json:"quantity"`
}

var ErrInvalidProduct = apperr.New(apperr.ValidationError, "Invalid product data")

// Validate checks the fields every product must carry. A quantity, when
// given, must be a positive integer.
func (p Product) Validate() error {
	if p.ID.String() == "" || strings.TrimSpace(p.Name) == "" || p.Price.String() == "" {
		return ErrInvalidProduct
	}
	if p.Quantity.Present {
		if _, ok := p.Quantity.Int(); !ok {
			return ErrInvalidProduct
		}
	}
	return nil
}

// ImageOrDefault falls back to the placeholder product image.
func (p Product) ImageOrDefault() string {
	if strings.TrimSpace(p.Image) == "" {
		return models.DefaultProfileImage
	}
	return p.Image
}

// Reply is the outbound frame. Collections are pointers so that an empty list
// is sent as [] while an absent one is omitted.
type Reply struct {
	Type         string                 `json:"type,omitempty"`
	Status       string                 `json:"status"`
	Message      string                 `json:"message,omitempty"`
	User         *models.User           `json:"user,omitempty"`
	SessionToken string                 `json:"sessionToken,omitempty"`
	Cart         *[]models.CartItem     `json:"cart,omitempty"`
	Wishlist     *[]models.WishlistItem `json:"wishlist,omitempty"`
	Orders       *[]models.Order        `json:"orders,omitempty"`
	ProfileImage string                 `json:"profileImage,omitempty"`
}

func CartOf(items []models.CartItem) *[]models.CartItem {
	if items == nil {
		items = []models.CartItem{}
	}
	return &items
}

func WishlistOf(items []models.WishlistItem) *[]models.WishlistItem {
	if items == nil {
		items = []models.WishlistItem{}
	}
	return &items
}

func OrdersOf(orders []models.Order) *[]models.Order {
	if orders == nil {
		orders = []models.Order{}
	}
	return &orders
}

// ErrorReply builds the frame sent to the originator when a command fails.
func ErrorReply(replyType string, err error) *Reply {
	return &Reply{Type: replyType, Status: StatusError, Message: apperr.MessageOf(err)}
}
