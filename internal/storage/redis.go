package storage

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultRedisPoolSize    = 20
	defaultRedisMaxRetries  = 3
	defaultRedisDialTimeout = 5 * time.Second
)

// RedisConfig configures the Redis backend.
type RedisConfig struct {
	Host         string        `json:"host" yaml:"host"`
	Port         int           `json:"port" yaml:"port"`
	Password     string        `json:"password,omitempty" yaml:"password,omitempty"`
	DB           int           `json:"db" yaml:"db"`
	Cluster      bool          `json:"cluster" yaml:"cluster"`
	ClusterNodes []string      `json:"cluster_nodes,omitempty" yaml:"cluster_nodes,omitempty"`
	PoolSize     int           `json:"pool_size" yaml:"pool_size"`
	MaxRetries   int           `json:"max_retries" yaml:"max_retries"`
	DialTimeout  time.Duration `json:"dial_timeout" yaml:"dial_timeout"`
}

// RedisStorage is a Redis-backed implementation of Storage, used when
// several lab machines share one recording archive.
type RedisStorage struct {
	client redis.UniversalClient

	closeOnce sync.Once
	closeErr  error
}

// Addr returns the single-node address.
func (c RedisConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// withDefaults fills zero tuning fields and checks the addressing mode.
func (c RedisConfig) withDefaults() (RedisConfig, error) {
	if c.PoolSize <= 0 {
		c.PoolSize = defaultRedisPoolSize
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = defaultRedisMaxRetries
	}
	if c.DialTimeout <= 0 {
		c.DialTimeout = defaultRedisDialTimeout
	}

	switch {
	case c.Cluster && len(c.ClusterNodes) == 0:
		return c, fmt.Errorf("redis: cluster_nodes is required in cluster mode")
	case c.Cluster:
		return c, nil
	case c.Host == "":
		return c, fmt.Errorf("redis: host is required")
	case c.Port <= 0:
		return c, fmt.Errorf("redis: port must be positive, got %d", c.Port)
	}
	return c, nil
}

func (c RedisConfig) client() redis.UniversalClient {
	if c.Cluster {
		return redis.NewClusterClient(&redis.ClusterOptions{
			Addrs:       c.ClusterNodes,
			Password:    c.Password,
			PoolSize:    c.PoolSize,
			MaxRetries:  c.MaxRetries,
			DialTimeout: c.DialTimeout,
		})
	}
	return redis.NewClient(&redis.Options{
		Addr:        c.Addr(),
		Password:    c.Password,
		DB:          c.DB,
		PoolSize:    c.PoolSize,
		MaxRetries:  c.MaxRetries,
		DialTimeout: c.DialTimeout,
	})
}

// NewRedisStorage connects to Redis and waits for it to answer a ping.
func NewRedisStorage(cfg *RedisConfig) (*RedisStorage, error) {
	if cfg == nil {
		return nil, fmt.Errorf("redis: config is required")
	}
	conf, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}

	s := &RedisStorage{client: conf.client()}
	if err := s.waitReady(context.Background(), conf.MaxRetries); err != nil {
		_ = s.client.Close()
		return nil, fmt.Errorf("redis: ping %s: %w", conf.describe(), err)
	}
	return s, nil
}

func (c RedisConfig) describe() string {
	if c.Cluster {
		return strings.Join(c.ClusterNodes, ",")
	}
	return c.Addr()
}

func (s *RedisStorage) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.client.Get(ctx, key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("redis: get %s: %w", key, err)
	}
	return val, nil
}

// Set stores value under key. Documents outlive the connection, so a
// zero exp means no TTL.
func (s *RedisStorage) Set(ctx context.Context, key string, value []byte, exp time.Duration) error {
	if err := s.client.Set(ctx, key, value, exp).Err(); err != nil {
		return fmt.Errorf("redis: set %s: %w", key, err)
	}
	return nil
}

func (s *RedisStorage) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis: delete %s: %w", key, err)
	}
	return nil
}

// Close releases the connection pool. Later calls return the first result.
func (s *RedisStorage) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.client.Close()
	})
	return s.closeErr
}

// waitReady pings until Redis answers, doubling the wait between tries.
func (s *RedisStorage) waitReady(ctx context.Context, retries int) error {
	wait := 100 * time.Millisecond
	for attempt := 0; ; attempt++ {
		err := s.client.Ping(ctx).Err()
		if err == nil || attempt >= retries {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		wait *= 2
	}
}
