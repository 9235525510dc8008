package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	mdwerror "github.com/msto63/actionvm/foundation/core/error"
)

// Config holds the complete application configuration
type Config struct {
	General     GeneralConfig     `toml:"general"`
	Interpreter InterpreterConfig `toml:"interpreter"`
	GRPC        GRPCConfig        `toml:"grpc"`
	WebSocket   WebSocketConfig   `toml:"websocket"`
	History     HistoryConfig     `toml:"history"`
}

// GeneralConfig holds general application settings
type GeneralConfig struct {
	Name        string `toml:"name"`
	Environment string `toml:"environment"`
	LogLevel    string `toml:"log_level"`
	LogFormat   string `toml:"log_format"`
}

// InterpreterConfig holds execution engine settings
type InterpreterConfig struct {
	StrictIdentifiers bool   `toml:"strict_identifiers"`
	Audit             bool   `toml:"audit"`
	SeedFile          string `toml:"seed_file"`
	Builtins          bool   `toml:"builtins"`
}

// GRPCConfig holds the action service settings
type GRPCConfig struct {
	Enabled          bool     `toml:"enabled"`
	Host             string   `toml:"host"`
	Port             int      `toml:"port"`
	MaxRecvMsgSize   int      `toml:"max_recv_msg_size"`
	KeepaliveTime    Duration `toml:"keepalive_time"`
	KeepaliveTimeout Duration `toml:"keepalive_timeout"`
	Reflection       bool     `toml:"reflection"`
}

// WebSocketConfig holds the streaming endpoint settings
type WebSocketConfig struct {
	Enabled      bool     `toml:"enabled"`
	Host         string   `toml:"host"`
	Port         int      `toml:"port"`
	Path         string   `toml:"path"`
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`
}

// HistoryConfig holds the batch journal settings
type HistoryConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Duration wraps time.Duration for TOML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns a configuration with every default applied
func Default() *Config {
	cfg := &Config{}
	cfg.Interpreter.Builtins = true
	cfg.GRPC.Enabled = true
	cfg.WebSocket.Enabled = true
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from a TOML file
func Load(path string) (*Config, error) {
	// Expand environment variables in path
	path = os.ExpandEnv(path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, mdwerror.Newf("config file not found: %s", path).
			WithCode(mdwerror.CodeMissingConfig).
			WithOperation("config.Load")
	}

	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, mdwerror.Wrap(err, "failed to parse config").
			WithCode(mdwerror.CodeInvalidConfig).
			WithOperation("config.Load").
			WithDetail("path", path)
	}

	cfg.applyDefaults()
	cfg.expandEnvVars()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromEnv loads configuration from the ACTIONVM_CONFIG environment
// variable, falling back to the default locations
func LoadFromEnv() (*Config, error) {
	path := os.Getenv("ACTIONVM_CONFIG")
	if path == "" {
		defaultPaths := []string{
			"./configs/actionvm.toml",
			"./actionvm.toml",
			filepath.Join(os.Getenv("HOME"), ".config/actionvm/config.toml"),
		}
		for _, p := range defaultPaths {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}

	if path == "" {
		return nil, mdwerror.New("no config file found, set ACTIONVM_CONFIG or create configs/actionvm.toml").
			WithCode(mdwerror.CodeMissingConfig).
			WithOperation("config.LoadFromEnv")
	}

	return Load(path)
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	// General
	if c.General.Name == "" {
		c.General.Name = "actionvm"
	}
	if c.General.Environment == "" {
		c.General.Environment = "development"
	}
	if c.General.LogLevel == "" {
		c.General.LogLevel = "info"
	}
	if c.General.LogFormat == "" {
		c.General.LogFormat = "text"
	}

	// gRPC
	if c.GRPC.Host == "" {
		c.GRPC.Host = "0.0.0.0"
	}
	if c.GRPC.Port == 0 {
		c.GRPC.Port = 9310
	}
	if c.GRPC.MaxRecvMsgSize == 0 {
		c.GRPC.MaxRecvMsgSize = 4 * 1024 * 1024
	}
	if c.GRPC.KeepaliveTime.Duration == 0 {
		c.GRPC.KeepaliveTime.Duration = 30 * time.Second
	}
	if c.GRPC.KeepaliveTimeout.Duration == 0 {
		c.GRPC.KeepaliveTimeout.Duration = 10 * time.Second
	}

	// WebSocket
	if c.WebSocket.Host == "" {
		c.WebSocket.Host = "0.0.0.0"
	}
	if c.WebSocket.Port == 0 {
		c.WebSocket.Port = 9320
	}
	if c.WebSocket.Path == "" {
		c.WebSocket.Path = "/ws"
	}
	if c.WebSocket.ReadTimeout.Duration == 0 {
		c.WebSocket.ReadTimeout.Duration = 60 * time.Second
	}
	if c.WebSocket.WriteTimeout.Duration == 0 {
		c.WebSocket.WriteTimeout.Duration = 10 * time.Second
	}

	// History
	if c.History.Path == "" {
		c.History.Path = "./data/history.db"
	}
}

// expandEnvVars expands environment variables in configuration values
func (c *Config) expandEnvVars() {
	c.Interpreter.SeedFile = os.ExpandEnv(c.Interpreter.SeedFile)
	c.History.Path = os.ExpandEnv(c.History.Path)
}

// Validate checks value ranges that defaults cannot repair
func (c *Config) Validate() error {
	for name, port := range map[string]int{"grpc.port": c.GRPC.Port, "websocket.port": c.WebSocket.Port} {
		if port < 1 || port > 65535 {
			return mdwerror.Newf("%s out of range: %d", name, port).
				WithCode(mdwerror.CodeInvalidConfig).
				WithOperation("config.Validate")
		}
	}
	if c.GRPC.Enabled && c.WebSocket.Enabled && c.GRPC.Port == c.WebSocket.Port && c.GRPC.Host == c.WebSocket.Host {
		return mdwerror.Newf("grpc and websocket share %s:%d", c.GRPC.Host, c.GRPC.Port).
			WithCode(mdwerror.CodeInvalidConfig).
			WithOperation("config.Validate")
	}
	return nil
}

// GetServiceAddress returns the listen address of a surface
func (c *Config) GetServiceAddress(service string) string {
	switch service {
	case "grpc":
		return fmt.Sprintf("%s:%d", c.GRPC.Host, c.GRPC.Port)
	case "websocket":
		return fmt.Sprintf("%s:%d", c.WebSocket.Host, c.WebSocket.Port)
	default:
		return ""
	}
}
