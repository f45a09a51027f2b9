package config

import internalconfig "github.com/SmitUplenchwar2687/Replica/internal/config"

// Config is the top-level configuration for Replica.
type Config = internalconfig.Config

// RecorderConfig holds capture settings.
type RecorderConfig = internalconfig.RecorderConfig

// ArchiveConfig selects where recordings are stored.
type ArchiveConfig = internalconfig.ArchiveConfig

// PlaybackConfig holds replay settings.
type PlaybackConfig = internalconfig.PlaybackConfig

// Default returns a Config with sensible defaults.
func Default() Config {
	return internalconfig.Default()
}

// LoadFile reads a JSON or YAML config file and merges it with defaults.
func LoadFile(path string) (Config, error) {
	return internalconfig.LoadFile(path)
}

// WriteExample writes an example config file to the given path.
func WriteExample(path string) error {
	return internalconfig.WriteExample(path)
}
