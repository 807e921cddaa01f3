package socketControllers

import (
	"bytes"
	"encoding/json"

	"github.com/vansh565/Nexus-store/apperr"
)

var ErrInvalidPayload = apperr.New(apperr.ValidationError, "Invalid payload")

// Request is a decoded envelope plus what the dispatcher learned about the
// sender. Email is set only for commands that require a session.
type Request struct {
	Envelope
	Token string
	Email string
}

func newRequest(env Envelope) *Request {
	var p struct {
		SessionToken Text `json:"sessionToken"`
	}
	if isObject(env.Payload) {
		_ = json.Unmarshal(env.Payload, &p)
	}
	return &Request{Envelope: env, Token: p.SessionToken.String()}
}

func isObject(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '{'
}

// Bind decodes the payload object into v. A missing payload leaves v zero.
func (r *Request) Bind(v any) error {
	if len(bytes.TrimSpace(r.Payload)) == 0 || bytes.Equal(bytes.TrimSpace(r.Payload), []byte("null")) {
		return nil
	}
	if !isObject(r.Payload) {
		return ErrInvalidPayload
	}
	if err := json.Unmarshal(r.Payload, v); err != nil {
		return apperr.Wrap(apperr.ValidationError, ErrInvalidPayload.Message, err)
	}
	return nil
}

// BindProduct decodes and validates the top-level product.
func (r *Request) BindProduct() (Product, error) {
	var p Product
	if !isObject(r.Product) {
		return p, ErrInvalidProduct
	}
	if err := json.Unmarshal(r.Product, &p); err != nil {
		return p, apperr.Wrap(apperr.ValidationError, ErrInvalidProduct.Message, err)
	}
	if err := p.Validate(); err != nil {
		return p, err
	}
	return p, nil
}

// BindOrder decodes the top-level order object into v. invalid is returned
// when the order is absent or malformed.
func (r *Request) BindOrder(v any, invalid error) error {
	if !isObject(r.Order) {
		return invalid
	}
	if err := json.Unmarshal(r.Order, v); err != nil {
		return invalid
	}
	return nil
}
