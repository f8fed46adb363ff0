// Package config resolves the server configuration from flags, environment,
// an optional YAML file and the OS keychain.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// AppName names the config directory and keychain service.
const AppName = "bear-mcp"

// TokenEnv is the environment variable holding the Bear API token.
const TokenEnv = "BEAR_API_TOKEN"

// Keys shared by flags, environment variables and the config file.
const (
	KeyToken        = "token"
	KeyCallbackHost = "callback-host"
	KeyCallbackPort = "callback-port"
	KeyTimeout      = "timeout"
	KeyNoCallback   = "no-callback"
	KeyNoQuiet      = "no-quiet"
	KeyLogLevel     = "log-level"
	KeyConfig       = "config"
)

// Defaults
const (
	DefaultCallbackHost = "127.0.0.1"
	DefaultCallbackPort = 11599
	DefaultTimeout      = 30 * time.Second
	DefaultLogLevel     = "info"
)

// ErrMissingToken is returned when no source provides the Bear API token.
var ErrMissingToken = errors.New("bear API token is required: pass --token, set " + TokenEnv + " or run 'bear-mcp token set'")

// Config holds the resolved server settings.
type Config struct {
	Token        string
	CallbackHost string
	CallbackPort int
	Timeout      time.Duration
	Callbacks    bool
	Quiet        bool
	LogLevel     string
	// File is the config file that was read, if any.
	File string
}

// RegisterFlags adds the server flags to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String(KeyToken, "", "Bear API token (env "+TokenEnv+")")
	fs.String(KeyCallbackHost, DefaultCallbackHost, "hostname or IP address of the callback server")
	fs.Int(KeyCallbackPort, DefaultCallbackPort, "port number on which the callback server is listening")
	fs.Duration(KeyTimeout, DefaultTimeout, "how long to wait for Bear to call back")
	fs.Bool(KeyNoCallback, false, "do not wait for Bear's callbacks; tools only acknowledge")
	fs.Bool(KeyNoQuiet, false, "let Bear show its window while running actions")
	fs.String(KeyLogLevel, DefaultLogLevel, "log level (debug, info, warn, error)")
	fs.String(KeyConfig, "", "config file (default $XDG_CONFIG_HOME/bear-mcp/config.yaml)")
}

// Bind wires flags and environment variables into v.
// Environment: BEAR_API_TOKEN, BEAR_MCP_CALLBACK_HOST, BEAR_MCP_TIMEOUT, ...
func Bind(v *viper.Viper, fs *pflag.FlagSet) error {
	v.SetDefault(KeyCallbackHost, DefaultCallbackHost)
	v.SetDefault(KeyCallbackPort, DefaultCallbackPort)
	v.SetDefault(KeyTimeout, DefaultTimeout)
	v.SetDefault(KeyLogLevel, DefaultLogLevel)

	v.SetEnvPrefix("BEAR_MCP")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv(KeyToken, TokenEnv, "BEAR_MCP_TOKEN"); err != nil {
		return fmt.Errorf("failed to bind token environment: %w", err)
	}

	if fs != nil {
		if err := v.BindPFlags(fs); err != nil {
			return fmt.Errorf("failed to bind flags: %w", err)
		}
	}
	return nil
}

// DefaultPath returns the platform config file location.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, "config.yaml")
}

var defaultPath = DefaultPath

// Load reads the optional config file into v and resolves the Config. A
// token missing from every other source is looked up in the keychain.
func Load(v *viper.Viper) (*Config, error) {
	file, err := readFile(v)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Token:        strings.TrimSpace(v.GetString(KeyToken)),
		CallbackHost: v.GetString(KeyCallbackHost),
		CallbackPort: v.GetInt(KeyCallbackPort),
		Timeout:      v.GetDuration(KeyTimeout),
		Callbacks:    !v.GetBool(KeyNoCallback),
		Quiet:        !v.GetBool(KeyNoQuiet),
		LogLevel:     v.GetString(KeyLogLevel),
		File:         file,
	}

	if cfg.Token == "" {
		token, err := LookupToken()
		if err != nil {
			return nil, err
		}
		cfg.Token = token
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func readFile(v *viper.Viper) (string, error) {
	path := v.GetString(KeyConfig)
	explicit := path != ""
	if !explicit {
		path = defaultPath()
		if _, err := os.Stat(path); err != nil {
			return "", nil
		}
	}

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return "", fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return path, nil
}

// Validate checks the resolved settings.
func (c *Config) Validate() error {
	if c.Token == "" {
		return ErrMissingToken
	}
	if c.CallbackPort < 0 || c.CallbackPort > 65535 {
		return fmt.Errorf("invalid callback port %d", c.CallbackPort)
	}
	if c.Callbacks {
		if c.CallbackHost == "" {
			return errors.New("callback host cannot be empty")
		}
		if c.Timeout <= 0 {
			return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
		}
	}
	return nil
}
