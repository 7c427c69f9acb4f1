package database

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/arch-i-tect/api/internal/models"
)

// Redis wraps the Redis client
type Redis struct {
	client *redis.Client
}

// NewRedis creates a new Redis client
func NewRedis(redisURL string) (*Redis, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return &Redis{client: client}, nil
}

// Client returns the underlying Redis client
func (r *Redis) Client() *redis.Client {
	return r.client
}

// Ping checks the Redis connection
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (r *Redis) Close() error {
	return r.client.Close()
}

func imageKey(id string) string { return "image:" + id }

// CacheImage stores upload metadata with the retention TTL so cache
// entries expire alongside the on-disk bytes. Nil receivers are a no-op.
func (r *Redis) CacheImage(ctx context.Context, img *models.UploadedImage, ttl time.Duration) error {
	if r == nil {
		return nil
	}
	payload, err := json.Marshal(img)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, imageKey(img.ID.String()), payload, ttl).Err()
}

// GetImage fetches cached upload metadata. A cache miss returns (nil, nil).
func (r *Redis) GetImage(ctx context.Context, id string) (*models.UploadedImage, error) {
	if r == nil {
		return nil, nil
	}
	payload, err := r.client.Get(ctx, imageKey(id)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var img models.UploadedImage
	if err := json.Unmarshal(payload, &img); err != nil {
		return nil, err
	}
	return &img, nil
}
