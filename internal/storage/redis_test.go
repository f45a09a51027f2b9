package storage

import (
	"context"
	"strconv"
	"testing"
	"time"

	testcontainers "github.com/testcontainers/testcontainers-go"
	rediscontainer "github.com/testcontainers/testcontainers-go/modules/redis"
)

func newRedisStorageForTest(t *testing.T) *RedisStorage {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := rediscontainer.Run(ctx, "redis:7.2-alpine")
	if err != nil {
		t.Skipf("redis container unavailable: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("container mapped port: %v", err)
	}
	p, err := strconv.Atoi(port.Port())
	if err != nil {
		t.Fatalf("parse mapped port: %v", err)
	}

	store, err := NewRedisStorage(&RedisConfig{Host: host, Port: p})
	if err != nil {
		t.Fatalf("NewRedisStorage() error: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRedisStorage_SetGetDelete(t *testing.T) {
	s := newRedisStorageForTest(t)
	ctx := context.Background()

	if val, err := s.Get(ctx, "replica:missing"); err != nil || val != nil {
		t.Fatalf("Get(missing) = %v, %v; want nil, nil", val, err)
	}

	if err := s.Set(ctx, "replica:T1", []byte("doc"), 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	val, err := s.Get(ctx, "replica:T1")
	if err != nil || string(val) != "doc" {
		t.Fatalf("Get() = %q, %v", val, err)
	}

	if err := s.Delete(ctx, "replica:T1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if val, _ := s.Get(ctx, "replica:T1"); val != nil {
		t.Fatal("key should be deleted")
	}
}

func TestRedisStorage_Expiry(t *testing.T) {
	s := newRedisStorageForTest(t)
	ctx := context.Background()

	if err := s.Set(ctx, "replica:short", []byte("v"), 200*time.Millisecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(400 * time.Millisecond)
	if val, _ := s.Get(ctx, "replica:short"); val != nil {
		t.Fatal("key should have expired")
	}
}

func TestRedisStorage_CloseIdempotent(t *testing.T) {
	s := newRedisStorageForTest(t)
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	_ = s.Close()
}

func TestRedisConfig_WithDefaults(t *testing.T) {
	tests := []struct {
		name    string
		cfg     RedisConfig
		wantErr bool
	}{
		{"missing host", RedisConfig{Port: 6379}, true},
		{"bad port", RedisConfig{Host: "localhost"}, true},
		{"cluster without nodes", RedisConfig{Cluster: true}, true},
		{"single node", RedisConfig{Host: "localhost", Port: 6379}, false},
		{"cluster", RedisConfig{Cluster: true, ClusterNodes: []string{"a:1"}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf, err := tt.cfg.withDefaults()
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && (conf.PoolSize != defaultRedisPoolSize || conf.DialTimeout != defaultRedisDialTimeout) {
				t.Errorf("defaults not applied: %+v", conf)
			}
		})
	}
}

func TestNewRedisStorage_NilConfig(t *testing.T) {
	if _, err := NewRedisStorage(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
}

func TestRedisConfig_Addr(t *testing.T) {
	if got := (RedisConfig{Host: "redis.lab", Port: 6380}).Addr(); got != "redis.lab:6380" {
		t.Errorf("Addr() = %q", got)
	}
}
