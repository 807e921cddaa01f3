package mailer

import "github.com/vansh565/Nexus-store/models"

const (
	DiscountRate = 0.10
	DeliveryFee  = 10.0
)

type Line struct {
	Name     string
	Image    string
	Quantity int
	Amount   float64
}

// Summary is the priced view of one checkout used by the order emails.
type Summary struct {
	Lines           []Line
	Subtotal        float64
	Discount        float64
	DeliveryFee     float64
	Total           float64
	ShippingAddress string
	PaymentMethod   string
}

// Summarize prices orders placed together. Unparseable prices count as zero.
func Summarize(orders []models.Order) Summary {
	s := Summary{DeliveryFee: DeliveryFee}
	for _, o := range orders {
		amount := o.LineTotal()
		s.Lines = append(s.Lines, Line{Name: o.Name, Image: o.Image, Quantity: o.Quantity, Amount: amount})
		s.Subtotal += amount
	}
	if len(orders) > 0 {
		s.ShippingAddress = orders[0].ShippingAddress
		s.PaymentMethod = orders[0].PaymentMethod
	}
	s.Discount = s.Subtotal * DiscountRate
	s.Total = s.Subtotal - s.Discount + s.DeliveryFee
	return s
}
