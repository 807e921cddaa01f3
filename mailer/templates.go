package mailer

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/vansh565/Nexus-store/models"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(
	template.New("mail").
		Funcs(template.FuncMap{"money": money}).
		ParseFS(templateFS, "templates/*.html"),
)

func money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

type otpData struct {
	Code    string
	Minutes int
}

type placedData struct {
	Email   string
	Date    time.Time
	Summary Summary
}

type orderData struct {
	Email   string
	Order   models.Order
	Summary Summary
}

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.String(), nil
}

func OTPMessage(to, code string, ttl time.Duration) (Message, error) {
	html, err := render("otp.html", otpData{Code: code, Minutes: int(ttl.Minutes())})
	if err != nil {
		return Message{}, err
	}
	return Message{To: to, Subject: "NEXUS Store OTP Verification", HTML: html}, nil
}

// OrderPlacedMessages returns the customer confirmation and the admin notice.
func OrderPlacedMessages(email, adminEmail string, orders []models.Order, at time.Time) ([]Message, error) {
	data := placedData{Email: email, Date: at, Summary: Summarize(orders)}

	customer, err := render("order_placed.html", data)
	if err != nil {
		return nil, err
	}
	admin, err := render("order_placed_admin.html", data)
	if err != nil {
		return nil, err
	}
	return []Message{
		{To: email, Subject: "Your NEXUS Store Order Confirmation", HTML: customer},
		{To: adminEmail, Subject: "New Order Received from User: " + email, HTML: admin},
	}, nil
}

func OrderCancelledMessages(email, adminEmail string, order models.Order) ([]Message, error) {
	data := orderData{Email: email, Order: order, Summary: Summarize([]models.Order{order})}

	customer, err := render("order_cancelled.html", data)
	if err != nil {
		return nil, err
	}
	admin, err := render("order_cancelled_admin.html", data)
	if err != nil {
		return nil, err
	}
	return []Message{
		{To: email, Subject: "Your NEXUS Store Order Cancellation", HTML: customer},
		{To: adminEmail, Subject: "Order Cancellation Notification from User: " + email, HTML: admin},
	}, nil
}

func OrderStatusMessage(order models.Order) (Message, error) {
	data := orderData{Email: order.UserEmail, Order: order, Summary: Summarize([]models.Order{order})}

	html, err := render("order_status.html", data)
	if err != nil {
		return Message{}, err
	}
	return Message{To: order.UserEmail, Subject: "Your NEXUS Store Order Status Update", HTML: html}, nil
}
