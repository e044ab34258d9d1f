// Package config carries the TOML-decoded configuration for the followerd
// binary, following the top-level Config/ParseConfig convention of
// cmd/influxd.
package config

import (
	"time"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap/zapcore"
)

const (
	// DefaultMaxBatch mirrors raft.DefaultMaxBatch so a zero-value Config
	// still produces a usable channel.
	DefaultMaxBatch = 128
	// DefaultMaxOutstanding mirrors raft.DefaultMaxOutstanding.
	DefaultMaxOutstanding = 1024
	// DefaultRPCTimeout mirrors raft.DefaultRPCTimeout.
	DefaultRPCTimeout = Duration(500 * time.Millisecond)
	// DefaultBindAddress is the address followerd's HTTP server (the
	// /metrics endpoint) listens on.
	DefaultBindAddress = "0.0.0.0:9110"
	// DefaultWalPath is where the bbolt-backed WAL file is created.
	DefaultWalPath = "followerd.wal"
)

// Duration wraps time.Duration so it can be decoded from TOML strings like
// "500ms".
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	dur, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// LoggingConfig controls how followerd's structured logger is built. It is
// its own type (rather than inline fields on Config) because it also
// carries the followerd-specific default: the leader-side replication
// pipeline logs at debug level by default so log-gap and coalescing
// decisions are visible without a redeploy.
type LoggingConfig struct {
	Format       string        `toml:"format"`
	Level        zapcore.Level `toml:"level"`
	SuppressLogo bool          `toml:"suppress-logo"`
}

// NewLoggingConfig returns the default logging configuration for followerd.
func NewLoggingConfig() LoggingConfig {
	return LoggingConfig{
		Format: "auto",
		Level:  zapcore.DebugLevel,
	}
}

// Config is followerd's full configuration surface.
type Config struct {
	BindAddress string `toml:"bind-address"`
	WalPath     string `toml:"wal-path"`

	SpaceID     uint64   `toml:"space-id"`
	PartitionID uint64   `toml:"partition-id"`
	LeaderAddr  string   `toml:"leader-addr"`
	Peers       []string `toml:"peers"`

	MaxBatch       int      `toml:"max-batch"`
	MaxOutstanding int      `toml:"max-outstanding"`
	RPCTimeout     Duration `toml:"rpc-timeout"`

	Logging LoggingConfig `toml:"logging"`
}

// NewConfig returns a Config with the package defaults applied.
func NewConfig() *Config {
	return &Config{
		BindAddress:    DefaultBindAddress,
		WalPath:        DefaultWalPath,
		MaxBatch:       DefaultMaxBatch,
		MaxOutstanding: DefaultMaxOutstanding,
		RPCTimeout:     DefaultRPCTimeout,
		Logging:        NewLoggingConfig(),
	}
}

// ParseConfig decodes a TOML document into a Config seeded with defaults.
func ParseConfig(s string) (*Config, error) {
	c := NewConfig()
	if _, err := toml.Decode(s, c); err != nil {
		return nil, err
	}
	return c, nil
}

// ParseConfigFile decodes a TOML file at path into a Config seeded with
// defaults.
func ParseConfigFile(path string) (*Config, error) {
	c := NewConfig()
	if _, err := toml.DecodeFile(path, c); err != nil {
		return nil, err
	}
	return c, nil
}
