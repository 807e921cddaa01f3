package otp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects to Redis and checks the connection.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

// RedisStore shares codes between server instances. Expiry is enforced by
// the key TTL.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: "otp:",
	}
}

func (r *RedisStore) key(email string) string {
	return r.prefix + email
}

func (r *RedisStore) Save(ctx context.Context, email, code string, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("otp: ttl must be positive")
	}
	data, err := json.Marshal(entry{Code: code, ExpiresAt: time.Now().Add(ttl)})
	if err != nil {
		return fmt.Errorf("otp: failed to marshal: %w", err)
	}
	return r.client.Set(ctx, r.key(email), data, ttl).Err()
}

func (r *RedisStore) Verify(ctx context.Context, email, code string) (bool, error) {
	e, err := r.get(ctx, email)
	if err != nil || e == nil {
		return false, err
	}
	if !codesEqual(e.Code, code) {
		return false, nil
	}

	e.Verified = true
	data, err := json.Marshal(e)
	if err != nil {
		return false, fmt.Errorf("otp: failed to marshal: %w", err)
	}
	if err := r.client.SetArgs(ctx, r.key(email), data, redis.SetArgs{KeepTTL: true, Mode: "XX"}).Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			// expired between GET and SET
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *RedisStore) Verified(ctx context.Context, email string) (bool, error) {
	e, err := r.get(ctx, email)
	if err != nil || e == nil {
		return false, err
	}
	return e.Verified, nil
}

func (r *RedisStore) Clear(ctx context.Context, email string) error {
	return r.client.Del(ctx, r.key(email)).Err()
}

func (r *RedisStore) get(ctx context.Context, email string) (*entry, error) {
	val, err := r.client.Get(ctx, r.key(email)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var e entry
	if err := json.Unmarshal([]byte(val), &e); err != nil {
		return nil, fmt.Errorf("otp: failed to unmarshal: %w", err)
	}
	return &e, nil
}
