package config

import (
	"time"

	"github.com/IsaacT30/airport-console/log"
)

// App is the console's full configuration.
type App struct {
	Services ServicesConfig `mapstructure:"services"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Renewal  RenewalConfig  `mapstructure:"renewal"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServicesConfig points at the two backend services.
type ServicesConfig struct {
	// AuthURL is the base URL of the authentication service.
	AuthURL string `mapstructure:"auth_url" validate:"required,url"`

	// OpsURL is the base URL of the flight-operations service.
	OpsURL string `mapstructure:"ops_url" validate:"required,url"`

	// Timeout bounds every backend call. Exceeding it surfaces as a
	// connectivity failure, never as an authorization failure.
	Timeout time.Duration `mapstructure:"timeout" default:"15s"`
}

// StorageConfig selects where credentials persist between runs.
type StorageConfig struct {
	// Backend is "file" or "redis".
	Backend string `mapstructure:"backend" default:"file" validate:"oneof=file redis"`

	File  FileStorageConfig  `mapstructure:"file"`
	Redis RedisStorageConfig `mapstructure:"redis"`
}

// FileStorageConfig configures the on-disk credential store.
type FileStorageConfig struct {
	// Path of the credentials file. Empty means a dotfile under the
	// user's home directory.
	Path string `mapstructure:"path"`
}

// RedisStorageConfig configures the redis credential store.
type RedisStorageConfig struct {
	Addr     string `mapstructure:"addr" default:"localhost:6379"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix" default:"airport:session"`
}

// RenewalConfig tunes the token renewal protocol.
type RenewalConfig struct {
	// Deduplicate shares one in-flight renewal exchange between requests
	// that fail concurrently. Required when the backend rotates refresh
	// tokens on use; off it matches the backends that do not.
	Deduplicate bool `mapstructure:"deduplicate"`
}

// LogConfig configures logging output.
type LogConfig struct {
	// Level is one of trace, debug, info, warn, error.
	Level string `mapstructure:"level" default:"info" validate:"oneof=trace debug info warn error"`

	// Output is console, file, or multi.
	Output string `mapstructure:"output" default:"console" validate:"oneof=console file multi"`

	File log.FileConfig `mapstructure:"file"`
}
