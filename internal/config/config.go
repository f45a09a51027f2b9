package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/SmitUplenchwar2687/Replica/internal/archive"
	"github.com/SmitUplenchwar2687/Replica/internal/logging"
	"github.com/SmitUplenchwar2687/Replica/internal/recording"
	"github.com/SmitUplenchwar2687/Replica/internal/report"
	"github.com/SmitUplenchwar2687/Replica/internal/storage"
)

// Archive backends. "dir" writes one file per document; the others go
// through archive.KV on a storage backend.
const (
	BackendDir    = "dir"
	BackendMemory = storage.BackendMemory
	BackendRedis  = storage.BackendRedis
)

// Config is the top-level configuration for a Replica session.
type Config struct {
	Recorder RecorderConfig `json:"recorder" yaml:"recorder"`
	Archive  ArchiveConfig  `json:"archive" yaml:"archive"`
	Playback PlaybackConfig `json:"playback" yaml:"playback"`
	Log      logging.Config `json:"log" yaml:"log"`
	Sentry   report.Config  `json:"sentry" yaml:"sentry"`
}

// RecorderConfig holds capture settings.
type RecorderConfig struct {
	FPS             float64            `json:"fps" yaml:"fps"`
	Name            string             `json:"name,omitempty" yaml:"name,omitempty"`
	Formats         []recording.Format `json:"formats" yaml:"formats"`
	AutosaveFormats []recording.Format `json:"autosave_formats" yaml:"autosave_formats"`
}

// ArchiveConfig selects where exported recordings are stored.
type ArchiveConfig struct {
	Backend   string              `json:"backend" yaml:"backend"`
	Dir       string              `json:"dir" yaml:"dir"`
	Prefix    string              `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Retention time.Duration       `json:"retention" yaml:"retention"`
	Redis     storage.RedisConfig `json:"redis" yaml:"redis"`
}

// PlaybackConfig holds replay settings.
type PlaybackConfig struct {
	Speed float64 `json:"speed" yaml:"speed"` // 1.0 = real time, 0 = instant
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		Recorder: RecorderConfig{
			FPS:             recording.DefaultFPS,
			Formats:         []recording.Format{recording.FormatXML, recording.FormatCSV},
			AutosaveFormats: []recording.Format{recording.FormatXML},
		},
		Archive: ArchiveConfig{
			Backend: BackendDir,
			Dir:     archive.DefaultDir,
			Prefix:  archive.DefaultPrefix,
			Redis: storage.RedisConfig{
				Host: "localhost",
				Port: 6379,
			},
		},
		Playback: PlaybackConfig{Speed: 1},
		Log: logging.Config{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate checks that the config is valid.
func (c Config) Validate() error {
	if c.Recorder.FPS < recording.MinFPS || c.Recorder.FPS > recording.MaxFPS {
		return fmt.Errorf("recorder.fps must be within [%d, %d], got %v", recording.MinFPS, recording.MaxFPS, c.Recorder.FPS)
	}
	if c.Recorder.Name != "" {
		if err := archive.ValidateName(c.Recorder.Name); err != nil {
			return fmt.Errorf("recorder.name: %w", err)
		}
	}
	if len(c.Recorder.Formats) == 0 {
		return fmt.Errorf("recorder.formats must name at least one format")
	}
	if err := checkFormats("recorder.formats", c.Recorder.Formats); err != nil {
		return err
	}
	if err := checkFormats("recorder.autosave_formats", c.Recorder.AutosaveFormats); err != nil {
		return err
	}

	switch c.Archive.Backend {
	case BackendDir:
		if c.Archive.Dir == "" {
			return fmt.Errorf("archive.dir is required for the dir backend")
		}
	case BackendMemory:
	case BackendRedis:
		r := c.Archive.Redis
		if !r.Cluster {
			if r.Host == "" {
				return fmt.Errorf("archive.redis.host is required")
			}
			if r.Port <= 0 || r.Port > 65535 {
				return fmt.Errorf("archive.redis.port must be within [1, 65535], got %d", r.Port)
			}
		} else if len(r.ClusterNodes) == 0 {
			return fmt.Errorf("archive.redis.cluster_nodes is required when cluster is enabled")
		}
	default:
		return fmt.Errorf("unknown archive backend %q, must be one of: dir, memory, redis", c.Archive.Backend)
	}
	if c.Archive.Retention < 0 {
		return fmt.Errorf("archive.retention must not be negative, got %s", c.Archive.Retention)
	}

	if c.Playback.Speed < 0 {
		return fmt.Errorf("playback.speed must not be negative, got %v", c.Playback.Speed)
	}
	if _, err := logging.New(c.Log); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	return nil
}

func checkFormats(field string, fs []recording.Format) error {
	for _, f := range fs {
		if f != recording.FormatXML && f != recording.FormatCSV {
			return fmt.Errorf("unknown format %q in %s, must be one of: xml, csv", f, field)
		}
	}
	return nil
}

// LoadFile reads a JSON or YAML config file and merges it with defaults.
// Files ending in .yaml or .yml are read as YAML. Fields not specified in
// the file retain their default values.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config file: %w", err)
	}

	// Use a raw intermediate struct to handle duration parsing.
	var raw rawConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &raw)
	default:
		err = json.Unmarshal(data, &raw)
	}
	if err != nil {
		return cfg, fmt.Errorf("parsing config file: %w", err)
	}

	if err := raw.merge(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// rawConfig mirrors Config with string durations and optional fields.
type rawConfig struct {
	Recorder struct {
		FPS             float64  `json:"fps" yaml:"fps"`
		Name            string   `json:"name" yaml:"name"`
		Formats         []string `json:"formats" yaml:"formats"`
		AutosaveFormats []string `json:"autosave_formats" yaml:"autosave_formats"`
	} `json:"recorder" yaml:"recorder"`
	Archive struct {
		Backend   string `json:"backend" yaml:"backend"`
		Dir       string `json:"dir" yaml:"dir"`
		Prefix    string `json:"prefix" yaml:"prefix"`
		Retention string `json:"retention" yaml:"retention"`
		Redis     struct {
			Host         string   `json:"host" yaml:"host"`
			Port         int      `json:"port" yaml:"port"`
			Password     string   `json:"password" yaml:"password"`
			DB           int      `json:"db" yaml:"db"`
			Cluster      bool     `json:"cluster" yaml:"cluster"`
			ClusterNodes []string `json:"cluster_nodes" yaml:"cluster_nodes"`
			PoolSize     int      `json:"pool_size" yaml:"pool_size"`
			MaxRetries   int      `json:"max_retries" yaml:"max_retries"`
			DialTimeout  string   `json:"dial_timeout" yaml:"dial_timeout"`
		} `json:"redis" yaml:"redis"`
	} `json:"archive" yaml:"archive"`
	Playback struct {
		Speed *float64 `json:"speed" yaml:"speed"`
	} `json:"playback" yaml:"playback"`
	Log    logging.Config `json:"log" yaml:"log"`
	Sentry report.Config  `json:"sentry" yaml:"sentry"`
}

func (raw *rawConfig) merge(cfg *Config) error {
	if raw.Recorder.FPS != 0 {
		cfg.Recorder.FPS = raw.Recorder.FPS
	}
	if raw.Recorder.Name != "" {
		cfg.Recorder.Name = raw.Recorder.Name
	}
	if len(raw.Recorder.Formats) > 0 {
		fs, err := recording.ParseFormats(raw.Recorder.Formats)
		if err != nil {
			return fmt.Errorf("parsing recorder.formats: %w", err)
		}
		cfg.Recorder.Formats = fs
	}
	if len(raw.Recorder.AutosaveFormats) > 0 {
		fs, err := recording.ParseFormats(raw.Recorder.AutosaveFormats)
		if err != nil {
			return fmt.Errorf("parsing recorder.autosave_formats: %w", err)
		}
		cfg.Recorder.AutosaveFormats = fs
	}

	a := &raw.Archive
	if a.Backend != "" {
		cfg.Archive.Backend = a.Backend
	}
	if a.Dir != "" {
		cfg.Archive.Dir = a.Dir
	}
	if a.Prefix != "" {
		cfg.Archive.Prefix = a.Prefix
	}
	if a.Retention != "" {
		d, err := time.ParseDuration(a.Retention)
		if err != nil {
			return fmt.Errorf("parsing archive.retention: %w", err)
		}
		cfg.Archive.Retention = d
	}

	r := &cfg.Archive.Redis
	if a.Redis.Host != "" {
		r.Host = a.Redis.Host
	}
	if a.Redis.Port != 0 {
		r.Port = a.Redis.Port
	}
	if a.Redis.Password != "" {
		r.Password = a.Redis.Password
	}
	if a.Redis.DB != 0 {
		r.DB = a.Redis.DB
	}
	if a.Redis.Cluster {
		r.Cluster = true
	}
	if len(a.Redis.ClusterNodes) > 0 {
		r.ClusterNodes = a.Redis.ClusterNodes
	}
	if a.Redis.PoolSize != 0 {
		r.PoolSize = a.Redis.PoolSize
	}
	if a.Redis.MaxRetries != 0 {
		r.MaxRetries = a.Redis.MaxRetries
	}
	if a.Redis.DialTimeout != "" {
		d, err := time.ParseDuration(a.Redis.DialTimeout)
		if err != nil {
			return fmt.Errorf("parsing archive.redis.dial_timeout: %w", err)
		}
		r.DialTimeout = d
	}

	// Speed zero is meaningful (instant replay), so only an absent key
	// keeps the default.
	if raw.Playback.Speed != nil {
		cfg.Playback.Speed = *raw.Playback.Speed
	}
	if raw.Log.Level != "" {
		cfg.Log.Level = raw.Log.Level
	}
	if raw.Log.Format != "" {
		cfg.Log.Format = raw.Log.Format
	}
	if raw.Sentry.DSN != "" {
		cfg.Sentry.DSN = raw.Sentry.DSN
	}
	if raw.Sentry.Environment != "" {
		cfg.Sentry.Environment = raw.Sentry.Environment
	}
	return nil
}

const exampleJSON = `{
  "recorder": {
    "fps": 30,
    "formats": ["xml", "csv"],
    "autosave_formats": ["xml"]
  },
  "archive": {
    "backend": "dir",
    "dir": "Recordings",
    "prefix": "replica:rec:",
    "retention": "720h",
    "redis": {
      "host": "localhost",
      "port": 6379,
      "db": 0
    }
  },
  "playback": {
    "speed": 1
  },
  "log": {
    "level": "info",
    "format": "text"
  },
  "sentry": {
    "environment": "lab"
  }
}
`

const exampleYAML = `recorder:
  fps: 30
  formats: [xml, csv]
  autosave_formats: [xml]
archive:
  backend: dir
  dir: Recordings
  prefix: "replica:rec:"
  retention: 720h
  redis:
    host: localhost
    port: 6379
    db: 0
playback:
  speed: 1
log:
  level: info
  format: text
sentry:
  environment: lab
`

// WriteExample writes an example config file to the given path, as YAML
// when the path ends in .yaml or .yml and JSON otherwise.
func WriteExample(path string) error {
	example := exampleJSON
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		example = exampleYAML
	}
	return os.WriteFile(path, []byte(example), 0o644)
}
