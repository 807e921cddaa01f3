package otp

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCode(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := GenerateCode()
		require.NoError(t, err)
		require.Len(t, code, 6)

		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 100000)
		assert.LessOrEqual(t, n, 999999)
	}
}

// storeContract runs the behaviour every Store must share. advance moves the
// store's clock forward.
func storeContract(t *testing.T, s Store, advance func(time.Duration)) {
	ctx := context.Background()

	t.Run("wrong code", func(t *testing.T) {
		require.NoError(t, s.Save(ctx, "a@example.com", "123456", 10*time.Minute))

		ok, err := s.Verify(ctx, "a@example.com", "654321")
		require.NoError(t, err)
		assert.False(t, ok)

		verified, err := s.Verified(ctx, "a@example.com")
		require.NoError(t, err)
		assert.False(t, verified)
	})

	t.Run("right code marks verified", func(t *testing.T) {
		require.NoError(t, s.Save(ctx, "b@example.com", "111111", 10*time.Minute))

		ok, err := s.Verify(ctx, "b@example.com", "111111")
		require.NoError(t, err)
		assert.True(t, ok)

		verified, err := s.Verified(ctx, "b@example.com")
		require.NoError(t, err)
		assert.True(t, verified)

		require.NoError(t, s.Clear(ctx, "b@example.com"))
		verified, err = s.Verified(ctx, "b@example.com")
		require.NoError(t, err)
		assert.False(t, verified)
	})

	t.Run("save replaces pending code", func(t *testing.T) {
		require.NoError(t, s.Save(ctx, "c@example.com", "222222", 10*time.Minute))
		require.NoError(t, s.Save(ctx, "c@example.com", "333333", 10*time.Minute))

		ok, err := s.Verify(ctx, "c@example.com", "222222")
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = s.Verify(ctx, "c@example.com", "333333")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("unknown email", func(t *testing.T) {
		ok, err := s.Verify(ctx, "nobody@example.com", "123456")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("expired code", func(t *testing.T) {
		require.NoError(t, s.Save(ctx, "d@example.com", "444444", 10*time.Minute))
		ok, err := s.Verify(ctx, "d@example.com", "444444")
		require.NoError(t, err)
		require.True(t, ok)

		advance(11 * time.Minute)

		verified, err := s.Verified(ctx, "d@example.com")
		require.NoError(t, err)
		assert.False(t, verified)

		ok, err = s.Verify(ctx, "d@example.com", "444444")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	now := time.Now()
	s.now = func() time.Time { return now }

	storeContract(t, s, func(d time.Duration) { now = now.Add(d) })
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedisClient(context.Background(), mr.Addr(), "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	storeContract(t, NewRedisStore(client), mr.FastForward)
}

func TestRedisStore_KeyLayout(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedisClient(context.Background(), mr.Addr(), "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, NewRedisStore(client).Save(context.Background(), "k@example.com", "555555", 10*time.Minute))
	assert.True(t, mr.Exists("otp:k@example.com"))
	assert.Equal(t, 10*time.Minute, mr.TTL("otp:k@example.com"))
}

func TestRedisStore_RejectsNonPositiveTTL(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedisClient(context.Background(), mr.Addr(), "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	err = NewRedisStore(client).Save(context.Background(), "a@example.com", "123456", 0)
	assert.Error(t, err)
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisClient(context.Background(), addr, "", 0)
	assert.Error(t, err)
}
