// Package archive exposes the stores recordings are saved to.
package archive

import (
	"time"

	internalarchive "github.com/SmitUplenchwar2687/Replica/internal/archive"
	"github.com/SmitUplenchwar2687/Replica/internal/clock"
	"github.com/SmitUplenchwar2687/Replica/internal/storage"
)

// Archive stores named recording documents.
type Archive = internalarchive.Archive

// Dir is an Archive rooted at a filesystem directory.
type Dir = internalarchive.Dir

// KV is an Archive over a key/value store.
type KV = internalarchive.KV

// RedisConfig configures the Redis-backed store.
type RedisConfig = storage.RedisConfig

// NewDir returns an archive writing files under root.
func NewDir(root string) *Dir {
	return internalarchive.NewDir(root)
}

// NewMemory returns an in-process archive whose entries expire after
// retention on c. A zero retention keeps entries forever.
func NewMemory(c clock.Clock, retention time.Duration) *KV {
	return internalarchive.NewKV(storage.NewMemoryStorage(c), internalarchive.DefaultPrefix, retention)
}

// NewRedis connects to Redis and returns an archive over it along with the
// function that closes the connection.
func NewRedis(cfg *RedisConfig, retention time.Duration) (*KV, func() error, error) {
	rs, err := storage.NewRedisStorage(cfg)
	if err != nil {
		return nil, nil, err
	}
	return internalarchive.NewKV(rs, internalarchive.DefaultPrefix, retention), rs.Close, nil
}
