package wishlistControllers

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vansh565/Nexus-store/apperr"
	socket "github.com/vansh565/Nexus-store/controllers/socket"
	"github.com/vansh565/Nexus-store/models"
	"github.com/vansh565/Nexus-store/testutil"
)

const email = "ann@example.com"

func rawJSON(t *testing.T, v any) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func TestAddToWishlist(t *testing.T) {
	db := testutil.NewDB(t)
	handle := AddToWishlist(db)
	req := &socket.Request{
		Envelope: socket.Envelope{Product: rawJSON(t, map[string]any{"id": 3, "name": "Chair", "price": 45})},
		Email:    email,
	}

	reply, err := handle(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "Item added to wishlist", reply.Message)
	require.Len(t, *reply.Wishlist, 1)
	assert.Equal(t, "3", (*reply.Wishlist)[0].ProductID)
	assert.Equal(t, "45", (*reply.Wishlist)[0].Price)

	_, err = handle(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, apperr.Conflict, apperr.KindOf(err))

	items, err := models.WishlistItems(db, email)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestRemoveFromWishlist(t *testing.T) {
	db := testutil.NewDB(t)
	for _, id := range []string{"a", "b"} {
		_, err := AddToWishlist(db)(context.Background(), &socket.Request{
			Envelope: socket.Envelope{Product: rawJSON(t, map[string]any{"id": id, "name": id, "price": "1"})},
			Email:    email,
		})
		require.NoError(t, err)
	}
	handle := RemoveFromWishlist(db)

	t.Run("payload productId", func(t *testing.T) {
		reply, err := handle(context.Background(), &socket.Request{
			Envelope: socket.Envelope{Payload: rawJSON(t, map[string]any{"productId": "a"})},
			Email:    email,
		})
		require.NoError(t, err)
		assert.Equal(t, "Item removed from wishlist", reply.Message)
		require.Len(t, *reply.Wishlist, 1)
		assert.Equal(t, "b", (*reply.Wishlist)[0].ProductID)
	})

	t.Run("missing item", func(t *testing.T) {
		_, err := handle(context.Background(), &socket.Request{
			Envelope: socket.Envelope{Payload: rawJSON(t, map[string]any{"productId": "zzz"})},
			Email:    email,
		})
		assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
	})

	t.Run("top-level productId", func(t *testing.T) {
		reply, err := handle(context.Background(), &socket.Request{
			Envelope: socket.Envelope{ProductID: "b"},
			Email:    email,
		})
		require.NoError(t, err)
		assert.Empty(t, *reply.Wishlist)
	})

	t.Run("empty wishlist", func(t *testing.T) {
		_, err := handle(context.Background(), &socket.Request{Envelope: socket.Envelope{ProductID: "b"}, Email: email})
		assert.Equal(t, "Wishlist not found or empty", apperr.MessageOf(err))
	})

	t.Run("no productId", func(t *testing.T) {
		_, err := handle(context.Background(), &socket.Request{Email: email})
		assert.Equal(t, apperr.ValidationError, apperr.KindOf(err))
	})
}

func TestGetWishlist_Empty(t *testing.T) {
	db := testutil.NewDB(t)

	reply, err := GetWishlist(db)(context.Background(), &socket.Request{Email: email})
	require.NoError(t, err)
	require.NotNil(t, reply.Wishlist)
	assert.Empty(t, *reply.Wishlist)
}
