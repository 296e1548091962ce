package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig configures a Redis storage.
type RedisConfig struct {
	Addr        string        `mapstructure:"addr"`
	Username    string        `mapstructure:"username"`
	Password    string        `mapstructure:"password"`
	DB          int           `mapstructure:"db"`
	Prefix      string        `mapstructure:"prefix"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
}

// Redis stores keys in a Redis server, with no expiration.
type Redis struct {
	rdb    redis.UniversalClient
	prefix string
}

// NewRedis connects to the server described by cfg and pings it.
func NewRedis(ctx context.Context, cfg RedisConfig) (*Redis, error) {
	if cfg.Addr == "" {
		cfg.Addr = "localhost:6379"
	}
	if cfg.DialTimeout == 0 {
		cfg.DialTimeout = 5 * time.Second
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Username:    cfg.Username,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: cfg.DialTimeout,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("cannot connect to redis %q: %w", cfg.Addr, err)
	}
	return NewRedisFromClient(rdb, cfg.Prefix), nil
}

// NewRedisFromClient wraps an existing client. Every key is prefixed.
func NewRedisFromClient(rdb redis.UniversalClient, prefix string) *Redis {
	return &Redis{rdb: rdb, prefix: prefix}
}

// Get reads the content of key.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	content, err := r.rdb.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("key %q: %w", key, fs.ErrNotExist)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read %q from redis: %w", key, err)
	}
	return content, nil
}

// Put replaces the content of key.
func (r *Redis) Put(ctx context.Context, key string, data []byte) error {
	if err := r.rdb.Set(ctx, r.prefix+key, data, 0).Err(); err != nil {
		return fmt.Errorf("cannot write %q to redis: %w", key, err)
	}
	return nil
}

// Close closes the connection.
func (r *Redis) Close() error { return r.rdb.Close() }
