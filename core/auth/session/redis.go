package session

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/IsaacT30/airport-console/errors"
)

// RedisConfig configures the redis-backed credential store.
type RedisConfig struct {
	Addr     string
	Username string
	Password string
	DB       int

	// Prefix namespaces the three session keys.
	Prefix string `default:"airport:session"`
}

// RedisStore keeps the session in redis, for deployments where several
// console hosts share one operator session.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisStore connects to redis and verifies the connection.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	if cfg.Prefix == "" {
		cfg.Prefix = "airport:session"
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.ServiceUnavailable("redis unreachable: %v", err)
	}

	return &RedisStore{client: client, prefix: cfg.Prefix}, nil
}

// NewRedisStoreWithClient wraps an existing client, used by tests.
func NewRedisStoreWithClient(client redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "airport:session"
	}
	return &RedisStore{client: client, prefix: prefix}
}

// Close releases the underlying client.
func (s *RedisStore) Close() error { return s.client.Close() }

func (s *RedisStore) key(name string) string { return s.prefix + ":" + name }

func (s *RedisStore) get(ctx context.Context, name string) (string, error) {
	val, err := s.client.Get(ctx, s.key(name)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", errors.Internal("redis get %s: %v", name, err)
	}
	return val, nil
}

func (s *RedisStore) AccessToken(ctx context.Context) (string, error) {
	return s.get(ctx, KeyAccessToken)
}

func (s *RedisStore) RefreshToken(ctx context.Context) (string, error) {
	return s.get(ctx, KeyRefreshToken)
}

func (s *RedisStore) Identity(ctx context.Context) (*Identity, error) {
	raw, err := s.get(ctx, KeyIdentity)
	if err != nil || raw == "" {
		return nil, err
	}
	var identity Identity
	if err := json.Unmarshal([]byte(raw), &identity); err != nil {
		return nil, nil
	}
	return &identity, nil
}

func (s *RedisStore) SetTokenPair(ctx context.Context, access, refresh string) error {
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.key(KeyAccessToken), access, 0)
	pipe.Set(ctx, s.key(KeyRefreshToken), refresh, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Internal("redis set token pair: %v", err)
	}
	return nil
}

func (s *RedisStore) SetAccessToken(ctx context.Context, access string) error {
	if err := s.client.Set(ctx, s.key(KeyAccessToken), access, 0).Err(); err != nil {
		return errors.Internal("redis set access token: %v", err)
	}
	return nil
}

func (s *RedisStore) SetIdentity(ctx context.Context, identity *Identity) error {
	if identity == nil {
		if err := s.client.Del(ctx, s.key(KeyIdentity)).Err(); err != nil {
			return errors.Internal("redis clear identity: %v", err)
		}
		return nil
	}
	raw, err := json.Marshal(identity)
	if err != nil {
		return errors.Internal("encode identity: %v", err)
	}
	if err := s.client.Set(ctx, s.key(KeyIdentity), raw, 0).Err(); err != nil {
		return errors.Internal("redis set identity: %v", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	keys := []string{s.key(KeyAccessToken), s.key(KeyRefreshToken), s.key(KeyIdentity)}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return errors.Internal("redis clear session: %v", err)
	}
	return nil
}
