// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"

	"github.com/ava-labs/cfmm/consts"
	"github.com/ava-labs/cfmm/pebble"
	"github.com/ava-labs/cfmm/pool"
	"github.com/ava-labs/cfmm/pubsub"
	"github.com/ava-labs/cfmm/server"
	"github.com/ava-labs/cfmm/trace"
)

const (
	defaultHTTPHost        = "127.0.0.1"
	defaultHTTPPort        = 9650
	defaultShutdownTimeout = 10 * time.Second
	defaultDataDir         = ".cfmm"
)

type Config struct {
	// Logging
	LogLevel        logging.Level `json:"logLevel"`
	LogDisplayLevel logging.Level `json:"logDisplayLevel"`
	LogDir          string        `json:"logDir"`

	// Storage
	DataDir  string        `json:"dataDir"`
	Database pebble.Config `json:"database"`

	// HTTP
	HTTPHost         string            `json:"httpHost"`
	HTTPPort         uint16            `json:"httpPort"`
	AllowedOrigins   []string          `json:"allowedOrigins"`
	AllowedHosts     []string          `json:"allowedHosts"`
	HTTP             server.HTTPConfig `json:"http"`
	ShutdownTimeout  time.Duration     `json:"shutdownTimeout"`
	StreamingEnabled bool              `json:"streamingEnabled"`

	// Streaming
	Streaming pubsub.ServerConfig `json:"streaming"`

	// Tracing
	TraceEnabled    bool    `json:"traceEnabled"`
	TraceSampleRate float64 `json:"traceSampleRate"`
	TraceEndpoint   string  `json:"traceEndpoint"`

	// Pool
	Pool pool.Config `json:"pool"`
}

func NewDefaultConfig() *Config {
	return &Config{
		LogLevel:         logging.Info,
		LogDisplayLevel:  logging.Info,
		DataDir:          defaultDataDir,
		Database:         pebble.NewDefaultConfig(),
		HTTPHost:         defaultHTTPHost,
		HTTPPort:         defaultHTTPPort,
		AllowedOrigins:   []string{"*"},
		AllowedHosts:     []string{"localhost"},
		HTTP:             server.NewDefaultHTTPConfig(),
		ShutdownTimeout:  defaultShutdownTimeout,
		StreamingEnabled: true,
		Streaming:        pubsub.NewDefaultServerConfig(),
		TraceSampleRate:  1,
		TraceEndpoint:    trace.DefaultEndpoint,
		Pool:             pool.NewDefaultConfig(),
	}
}

// New parses [b] over the defaults. An empty [b] yields the defaults.
func New(b []byte) (*Config, error) {
	c := NewDefaultConfig()
	if len(b) > 0 {
		if err := json.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config %s: %w", string(b), err)
		}
	}
	if err := c.Verify(); err != nil {
		return nil, err
	}
	return c, nil
}

// Load reads a JSON config from [path].
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return New(b)
}

func (c *Config) Verify() error {
	if c.Pool.MinimumLiquidity.IsNegative() {
		return fmt.Errorf("%w: minimum liquidity %s", ErrInvalidConfig, c.Pool.MinimumLiquidity)
	}
	if c.TraceSampleRate < 0 || c.TraceSampleRate > 1 {
		return fmt.Errorf("%w: trace sample rate %f", ErrInvalidConfig, c.TraceSampleRate)
	}
	if c.StreamingEnabled && c.Streaming.MaxPendingMessages <= 0 {
		return fmt.Errorf("%w: max pending messages %d", ErrInvalidConfig, c.Streaming.MaxPendingMessages)
	}
	if c.StreamingEnabled && c.Streaming.TargetWriteMessageSize+consts.Uint64Len > c.Streaming.MaxWriteMessageSize {
		return fmt.Errorf("%w: target write size %d exceeds max write size %d", ErrInvalidConfig, c.Streaming.TargetWriteMessageSize, c.Streaming.MaxWriteMessageSize)
	}
	return nil
}

func (c *Config) GetLogLevel() logging.Level        { return c.LogLevel }
func (c *Config) GetLogDisplayLevel() logging.Level { return c.LogDisplayLevel }
func (c *Config) GetDatabaseConfig() pebble.Config  { return c.Database }
func (c *Config) GetPoolConfig() pool.Config        { return c.Pool }
func (c *Config) GetHTTPAddress() string            { return fmt.Sprintf("%s:%d", c.HTTPHost, c.HTTPPort) }
func (c *Config) GetHTTPConfig() server.HTTPConfig  { return c.HTTP }
func (c *Config) GetStreamingConfig() pubsub.ServerConfig {
	return c.Streaming
}

func (c *Config) GetLogDir() string {
	if len(c.LogDir) > 0 {
		return c.LogDir
	}
	return filepath.Join(c.DataDir, "logs")
}

func (c *Config) GetLogConfig() logging.Config {
	return logging.Config{
		RotatingWriterConfig: logging.RotatingWriterConfig{
			MaxSize:   8, // MB
			MaxFiles:  5,
			MaxAge:    7, // days
			Directory: c.GetLogDir(),
			Compress:  true,
		},
		LogLevel:     c.LogLevel,
		DisplayLevel: c.LogDisplayLevel,
		LogFormat:    logging.Colors,
	}
}

func (c *Config) GetTraceConfig() *trace.Config {
	return &trace.Config{
		Enabled:         c.TraceEnabled,
		TraceSampleRate: c.TraceSampleRate,
		AppName:         consts.NetworkName,
		Agent:           consts.NetworkName,
		Version:         consts.Version,
		Endpoint:        c.TraceEndpoint,
	}
}
