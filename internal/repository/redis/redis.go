package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/meetmart/meetmart/internal/models"
	"github.com/meetmart/meetmart/internal/repository"
)

// Redis-backed repositories for shared-terminal setups where several
// machines should see the same cart and session. Values are stored as JSON
// under fixed keys.

const (
	cartKey    = "meetmart:cart"
	sessionKey = "meetmart:session"
	prefPrefix = "meetmart:pref:"
)

// NewClient connects to redis and verifies the connection.
func NewClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

type cartRepository struct {
	client *redis.Client
}

// NewCartRepository creates a redis-backed cart repository
func NewCartRepository(client *redis.Client) repository.CartRepository {
	return &cartRepository{client: client}
}

func (r *cartRepository) Load(ctx context.Context) ([]models.CartLine, error) {
	data, err := r.client.Get(ctx, cartKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	var lines []models.CartLine
	if err := json.Unmarshal(data, &lines); err != nil {
		// Corrupt cart payloads degrade to an empty cart.
		return nil, nil
	}
	return lines, nil
}

func (r *cartRepository) Save(ctx context.Context, lines []models.CartLine) error {
	data, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	if err := r.client.Set(ctx, cartKey, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

func (r *cartRepository) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, cartKey).Err(); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

type sessionRepository struct {
	client *redis.Client
}

// NewSessionRepository creates a redis-backed session repository
func NewSessionRepository(client *redis.Client) repository.SessionRepository {
	return &sessionRepository{client: client}
}

func (r *sessionRepository) Load(ctx context.Context) (*models.Session, error) {
	data, err := r.client.Get(ctx, sessionKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	var session models.Session
	if err := json.Unmarshal(data, &session); err != nil || session.Token == "" {
		return nil, nil
	}
	return &session, nil
}

func (r *sessionRepository) Save(ctx context.Context, session *models.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := r.client.Set(ctx, sessionKey, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (r *sessionRepository) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, sessionKey).Err(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

type preferenceRepository struct {
	client *redis.Client
}

// NewPreferenceRepository creates a redis-backed preference repository
func NewPreferenceRepository(client *redis.Client) repository.PreferenceRepository {
	return &preferenceRepository{client: client}
}

func (r *preferenceRepository) Get(ctx context.Context, key string) (string, error) {
	value, err := r.client.Get(ctx, prefPrefix+key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get preference %s: %w", key, err)
	}
	return value, nil
}

func (r *preferenceRepository) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, prefPrefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set preference %s: %w", key, err)
	}
	return nil
}
