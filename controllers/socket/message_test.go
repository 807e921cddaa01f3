package socketControllers

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vansh565/Nexus-store/apperr"
)

func TestText_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Text
		wantErr bool
	}{
		{name: "string", in: `"p-1"`, want: "p-1"},
		{name: "integer", in: `42`, want: "42"},
		{name: "decimal", in: `19.99`, want: "19.99"},
		{name: "null", in: `null`, want: ""},
		{name: "object", in: `{}`, wantErr: true},
		{name: "bool", in: `true`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Text
			err := json.Unmarshal([]byte(tt.in), &got)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQuantity_Int(t *testing.T) {
	tests := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{in: `{"quantity":3}`, want: 3, wantOK: true},
		{in: `{"quantity":0}`},
		{in: `{"quantity":-2}`},
		{in: `{"quantity":1.5}`},
		{in: `{}`},
		{in: `{"quantity":null}`},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var v struct {
				Quantity Quantity `json:"quantity"`
			}
			require.NoError(t, json.Unmarshal([]byte(tt.in), &v))
			got, ok := v.Quantity.Int()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRequest_BindProduct(t *testing.T) {
	tests := []struct {
		name    string
		product string
		wantErr bool
	}{
		{name: "valid", product: `{"id":"p1","name":"Phone","price":"$10"}`},
		{name: "numeric id and price", product: `{"id":7,"name":"Phone","price":10}`},
		{name: "with quantity", product: `{"id":"p1","name":"Phone","price":"$10","quantity":2}`},
		{name: "missing name", product: `{"id":"p1","price":"$10"}`, wantErr: true},
		{name: "missing id", product: `{"name":"Phone","price":"$10"}`, wantErr: true},
		{name: "zero quantity", product: `{"id":"p1","name":"Phone","price":"$10","quantity":0}`, wantErr: true},
		{name: "string quantity", product: `{"id":"p1","name":"Phone","price":"$10","quantity":"2"}`, wantErr: true},
		{name: "absent", product: ``, wantErr: true},
		{name: "not an object", product: `"p1"`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &Request{Envelope: Envelope{Product: json.RawMessage(tt.product)}}
			p, err := req.BindProduct()
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, apperr.ValidationError, apperr.KindOf(err))
				assert.Equal(t, "Invalid product data", apperr.MessageOf(err))
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, p.ID)
		})
	}
}

func TestProduct_ImageOrDefault(t *testing.T) {
	assert.Equal(t, "/images/v2.jpg", Product{}.ImageOrDefault())
	assert.Equal(t, "/images/a.png", Product{Image: "/images/a.png"}.ImageOrDefault())
}

func TestNewRequest_Token(t *testing.T) {
	var env Envelope
	require.NoError(t, json.Unmarshal([]byte(`{"type":"getCart","payload":{"sessionToken":"abc"},"productId":12}`), &env))

	req := newRequest(env)
	assert.Equal(t, "abc", req.Token)
	assert.Equal(t, Text("12"), req.ProductID)

	require.NoError(t, json.Unmarshal([]byte(`{"type":"getCart","payload":"junk"}`), &env))
	assert.Empty(t, newRequest(env).Token)
}

func TestRequest_Bind(t *testing.T) {
	var v struct {
		Email string `json:"email"`
	}

	req := &Request{Envelope: Envelope{Payload: json.RawMessage(`{"email":"a@example.com"}`)}}
	require.NoError(t, req.Bind(&v))
	assert.Equal(t, "a@example.com", v.Email)

	req = &Request{}
	assert.NoError(t, req.Bind(&v))

	req = &Request{Envelope: Envelope{Payload: json.RawMessage(`[1,2]`)}}
	assert.Equal(t, apperr.ValidationError, apperr.KindOf(req.Bind(&v)))

	req = &Request{Envelope: Envelope{Payload: json.RawMessage(`{"email":5}`)}}
	assert.Equal(t, apperr.ValidationError, apperr.KindOf(req.Bind(&v)))
}

func TestReply_EmptyCollections(t *testing.T) {
	b, err := json.Marshal(Reply{Status: StatusSuccess, Cart: CartOf(nil)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"success","cart":[]}`, string(b))
}
