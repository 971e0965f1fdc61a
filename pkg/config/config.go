package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultConsoleConfigPath  = "config/console.json"
	DefaultEndpointConfigPath = "config/mgmtd.json"

	EnvConsoleConfig  = "ASCONSOLE_CONFIG"
	EnvEndpointConfig = "ASCONSOLE_MGMTD_CONFIG"
	envPrefix         = "ASCONSOLE"

	defaultListenHost     = "127.0.0.1"
	defaultPort           = 9990
	defaultPollSeconds    = 5
	defaultTimeoutSeconds = 10
	defaultProfile        = "default"
	defaultWorkloadTPS    = 20.0
	defaultMaxSamples     = 60
)

// ConsoleConfig configures the desktop console.
type ConsoleConfig struct {
	EndpointHost      string `mapstructure:"endpoint_host" json:"endpoint_host"`
	Port              int    `mapstructure:"port" json:"port"`
	Profile           string `mapstructure:"profile" json:"profile"`
	PollIntervalSec   int    `mapstructure:"poll_interval_seconds" json:"poll_interval_seconds"`
	RequestTimeoutSec int    `mapstructure:"request_timeout_seconds" json:"request_timeout_seconds"`
	ChartsEnabled     bool   `mapstructure:"charts_enabled" json:"charts_enabled"`
	MaxSamples        int    `mapstructure:"max_samples" json:"max_samples"`
	LogLevel          string `mapstructure:"log_level" json:"log_level,omitempty"`
}

// EndpointConfig configures the standalone management endpoint.
type EndpointConfig struct {
	ListenHost  string  `mapstructure:"listen_host" json:"listen_host"`
	Port        int     `mapstructure:"port" json:"port"`
	WorkloadTPS float64 `mapstructure:"workload_tps" json:"workload_tps"`
	ConnectHost string  `mapstructure:"connect_host" json:"connect_host,omitempty"`
	LogLevel    string  `mapstructure:"log_level" json:"log_level,omitempty"`
}

func DefaultConsoleConfig() ConsoleConfig {
	return ConsoleConfig{
		EndpointHost:      defaultListenHost,
		Port:              defaultPort,
		Profile:           defaultProfile,
		PollIntervalSec:   defaultPollSeconds,
		RequestTimeoutSec: defaultTimeoutSeconds,
		ChartsEnabled:     true,
		MaxSamples:        defaultMaxSamples,
	}
}

func DefaultEndpointConfig() EndpointConfig {
	return EndpointConfig{
		ListenHost:  defaultListenHost,
		Port:        defaultPort,
		WorkloadTPS: defaultWorkloadTPS,
	}
}

func ResolveConsoleConfigPath() string {
	if fromEnv := os.Getenv(EnvConsoleConfig); fromEnv != "" {
		return fromEnv
	}
	return DefaultConsoleConfigPath
}

func ResolveEndpointConfigPath() string {
	if fromEnv := os.Getenv(EnvEndpointConfig); fromEnv != "" {
		return fromEnv
	}
	return DefaultEndpointConfigPath
}

// LoadConsoleConfig reads the console config. A missing file yields the
// defaults; ASCONSOLE_* environment variables override file values.
func LoadConsoleConfig(path string) (ConsoleConfig, error) {
	cfg := DefaultConsoleConfig()
	v := newViper(map[string]any{
		"endpoint_host":           cfg.EndpointHost,
		"port":                    cfg.Port,
		"profile":                 cfg.Profile,
		"poll_interval_seconds":   cfg.PollIntervalSec,
		"request_timeout_seconds": cfg.RequestTimeoutSec,
		"charts_enabled":          cfg.ChartsEnabled,
		"max_samples":             cfg.MaxSamples,
		"log_level":               cfg.LogLevel,
	})
	if err := readFile(v, path); err != nil {
		return DefaultConsoleConfig(), err
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return DefaultConsoleConfig(), fmt.Errorf("decode console config %q: %w", path, err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func LoadEndpointConfig(path string) (EndpointConfig, error) {
	cfg := DefaultEndpointConfig()
	v := newViper(map[string]any{
		"listen_host":  cfg.ListenHost,
		"port":         cfg.Port,
		"workload_tps": cfg.WorkloadTPS,
		"connect_host": cfg.ConnectHost,
		"log_level":    cfg.LogLevel,
	})
	if err := readFile(v, path); err != nil {
		return DefaultEndpointConfig(), err
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return DefaultEndpointConfig(), fmt.Errorf("decode endpoint config %q: %w", path, err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func newViper(defaults map[string]any) *viper.Viper {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

func readFile(v *viper.Viper, path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	v.SetConfigFile(path)
	if filepath.Ext(path) == "" {
		v.SetConfigType("json")
	}
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %q: %w", path, err)
	}
	return nil
}

func (c *ConsoleConfig) applyDefaults() {
	if c.EndpointHost == "" {
		c.EndpointHost = defaultListenHost
	}
	if c.Port == 0 {
		c.Port = defaultPort
	}
	if c.Profile == "" {
		c.Profile = defaultProfile
	}
	if c.PollIntervalSec == 0 {
		c.PollIntervalSec = defaultPollSeconds
	}
	if c.RequestTimeoutSec == 0 {
		c.RequestTimeoutSec = defaultTimeoutSeconds
	}
	if c.MaxSamples == 0 {
		c.MaxSamples = defaultMaxSamples
	}
}

func (c ConsoleConfig) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.PollIntervalSec <= 0 {
		return fmt.Errorf("poll_interval_seconds must be > 0")
	}
	if c.RequestTimeoutSec <= 0 {
		return fmt.Errorf("request_timeout_seconds must be > 0")
	}
	if c.MaxSamples < 2 {
		return fmt.Errorf("max_samples must be >= 2")
	}
	return nil
}

func (c ConsoleConfig) BaseURL() string {
	return fmt.Sprintf("http://%s:%d", c.EndpointHost, c.Port)
}

func (c ConsoleConfig) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSec) * time.Second
}

func (c ConsoleConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSec) * time.Second
}

func (c *EndpointConfig) applyDefaults() {
	if c.ListenHost == "" {
		c.ListenHost = defaultListenHost
	}
	if c.Port == 0 {
		c.Port = defaultPort
	}
}

func (c EndpointConfig) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.WorkloadTPS < 0 {
		return fmt.Errorf("workload_tps must be >= 0")
	}
	return nil
}

func (c EndpointConfig) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.ListenHost, c.Port)
}

func (c EndpointConfig) UIHost() string {
	if c.ConnectHost != "" {
		return c.ConnectHost
	}
	if c.ListenHost == "" || c.ListenHost == "0.0.0.0" {
		return "127.0.0.1"
	}
	return c.ListenHost
}

func (c EndpointConfig) BaseURL() string {
	return fmt.Sprintf("http://%s:%d", c.UIHost(), c.Port)
}
