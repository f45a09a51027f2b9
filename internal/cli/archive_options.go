package cli

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/SmitUplenchwar2687/Replica/internal/archive"
	"github.com/SmitUplenchwar2687/Replica/internal/clock"
	"github.com/SmitUplenchwar2687/Replica/internal/config"
	"github.com/SmitUplenchwar2687/Replica/internal/storage"
)

type archiveOptions struct {
	backend           string
	dir               string
	prefix            string
	retention         time.Duration
	redisHost         string
	redisPort         int
	redisPassword     string
	redisDB           int
	redisCluster      bool
	redisClusterNodes []string
	redisPoolSize     int
	redisMaxRetries   int
	redisDialTimeout  time.Duration
}

func (o *archiveOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.backend, "archive", config.BackendDir, "archive backend (dir, memory, redis)")
	cmd.Flags().StringVar(&o.dir, "archive-dir", archive.DefaultDir, "directory for the dir archive backend")
	cmd.Flags().StringVar(&o.prefix, "archive-prefix", archive.DefaultPrefix, "key prefix for key/value archive backends")
	cmd.Flags().DurationVar(&o.retention, "archive-retention", 0, "how long key/value archives keep recordings (0 = forever)")
	cmd.Flags().StringVar(&o.redisHost, "redis-host", "localhost", "redis host (or host:port)")
	cmd.Flags().IntVar(&o.redisPort, "redis-port", 6379, "redis port")
	cmd.Flags().StringVar(&o.redisPassword, "redis-password", "", "redis password (default $"+EnvRedisPassword+")")
	cmd.Flags().IntVar(&o.redisDB, "redis-db", 0, "redis database index")
	cmd.Flags().BoolVar(&o.redisCluster, "redis-cluster", false, "enable redis cluster mode")
	cmd.Flags().StringSliceVar(&o.redisClusterNodes, "redis-cluster-nodes", nil, "redis cluster nodes host:port list")
	cmd.Flags().IntVar(&o.redisPoolSize, "redis-pool-size", 20, "redis connection pool size")
	cmd.Flags().IntVar(&o.redisMaxRetries, "redis-max-retries", 3, "redis max retries")
	cmd.Flags().DurationVar(&o.redisDialTimeout, "redis-dial-timeout", 5*time.Second, "redis dial timeout")
}

// applyConfigIfUnset copies cfg into every option whose flag was not set
// on the command line.
func (o *archiveOptions) applyConfigIfUnset(cmd *cobra.Command, cfg *config.ArchiveConfig) {
	if cfg == nil {
		return
	}
	changed := cmd.Flags().Changed

	if !changed("archive") {
		o.backend = cfg.Backend
	}
	if !changed("archive-dir") {
		o.dir = cfg.Dir
	}
	if !changed("archive-prefix") {
		o.prefix = cfg.Prefix
	}
	if !changed("archive-retention") {
		o.retention = cfg.Retention
	}
	if !changed("redis-host") {
		o.redisHost = cfg.Redis.Host
	}
	if !changed("redis-port") {
		o.redisPort = cfg.Redis.Port
	}
	if !changed("redis-password") {
		o.redisPassword = cfg.Redis.Password
	}
	if !changed("redis-db") {
		o.redisDB = cfg.Redis.DB
	}
	if !changed("redis-cluster") {
		o.redisCluster = cfg.Redis.Cluster
	}
	if !changed("redis-cluster-nodes") {
		o.redisClusterNodes = cfg.Redis.ClusterNodes
	}
	if !changed("redis-pool-size") && cfg.Redis.PoolSize != 0 {
		o.redisPoolSize = cfg.Redis.PoolSize
	}
	if !changed("redis-max-retries") && cfg.Redis.MaxRetries != 0 {
		o.redisMaxRetries = cfg.Redis.MaxRetries
	}
	if !changed("redis-dial-timeout") && cfg.Redis.DialTimeout != 0 {
		o.redisDialTimeout = cfg.Redis.DialTimeout
	}
}

func (o *archiveOptions) normalize() error {
	if o.backend != config.BackendRedis || o.redisCluster {
		return nil
	}

	host, port, err := normalizeRedisHostPort(o.redisHost, o.redisPort)
	if err != nil {
		return err
	}
	o.redisHost = host
	o.redisPort = port
	return nil
}

func (o *archiveOptions) toConfig() config.ArchiveConfig {
	return config.ArchiveConfig{
		Backend:   o.backend,
		Dir:       o.dir,
		Prefix:    o.prefix,
		Retention: o.retention,
		Redis: storage.RedisConfig{
			Host:         o.redisHost,
			Port:         o.redisPort,
			Password:     o.redisPassword,
			DB:           o.redisDB,
			Cluster:      o.redisCluster,
			ClusterNodes: append([]string(nil), o.redisClusterNodes...),
			PoolSize:     o.redisPoolSize,
			MaxRetries:   o.redisMaxRetries,
			DialTimeout:  o.redisDialTimeout,
		},
	}
}

// resolve merges flags over the loaded config and stores the result back.
func (o *archiveOptions) resolve(cmd *cobra.Command, a *app) error {
	o.applyConfigIfUnset(cmd, &a.cfg.Archive)
	if err := o.normalize(); err != nil {
		return err
	}
	a.cfg.Archive = o.toConfig()
	return a.cfg.Validate()
}

// openArchive builds the archive cfg describes. The returned close
// function releases backend connections and is never nil.
func openArchive(cfg config.ArchiveConfig, clk clock.Clock, log *logrus.Logger) (archive.Archive, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Backend {
	case config.BackendDir, "":
		return archive.NewDir(cfg.Dir), noop, nil
	case config.BackendMemory:
		return archive.NewKV(storage.NewMemoryStorage(clk), cfg.Prefix, cfg.Retention), noop, nil
	case config.BackendRedis:
		rs, err := storage.NewRedisStorage(&cfg.Redis)
		if err != nil {
			return nil, noop, fmt.Errorf("opening redis archive: %w", err)
		}
		log.WithField("backend", cfg.Backend).Debug("archive connected")
		return archive.NewKV(rs, cfg.Prefix, cfg.Retention), rs.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown archive backend %q", cfg.Backend)
	}
}

func normalizeRedisHostPort(host string, port int) (string, int, error) {
	if strings.Contains(host, ":") {
		h, p, err := net.SplitHostPort(host)
		if err != nil {
			return "", 0, fmt.Errorf("invalid --redis-host value %q: %w", host, err)
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return "", 0, fmt.Errorf("invalid redis port in --redis-host %q: %w", host, err)
		}
		host = h
		port = n
	}

	if host == "" {
		return "", 0, fmt.Errorf("redis host cannot be empty")
	}
	if port <= 0 {
		return "", 0, fmt.Errorf("redis port must be positive, got %d", port)
	}

	return host, port, nil
}
