package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Metrics MetricsConfig `yaml:"metrics"`
	Log     LogConfig     `yaml:"log"`
	Cache   CacheConfig   `yaml:"cache"`
	Guess   GuessConfig   `yaml:"guess"`

	Advanced Advanced `yaml:"advanced"`
	// Pristine names advanced tables that replace the defaults instead of
	// being merged into them. "all" replaces every table.
	Pristine []string `yaml:"pristine"`
}

type ServerConfig struct {
	HTTPPort int `yaml:"http_port"`
	// ShutdownTimeout in seconds
	ShutdownTimeout int `yaml:"shutdown_timeout"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	// Path enables a rotating log file besides the console.
	Path       string `yaml:"path"`
	MaxSize    int    `yaml:"max_size"` // MB
	MaxBackups int    `yaml:"max_backups"`
	MaxAge     int    `yaml:"max_age"` // days
	Debug      bool   `yaml:"debug"`
}

type CacheConfig struct {
	// Path of the badger directory. Empty disables caching.
	Path string `yaml:"path"`
	// TTL in seconds, 0 keeps entries forever
	TTL int `yaml:"ttl"`
}

// GuessConfig holds the default per-call options.
type GuessConfig struct {
	SingleValue       bool     `yaml:"single_value"`
	EnforceList       bool     `yaml:"enforce_list"`
	Advanced          bool     `yaml:"advanced"`
	OutputInputString bool     `yaml:"output_input_string"`
	ExpectedTitle     []string `yaml:"expected_title"`
}

// DefaultConfig returns configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        4545,
			ShutdownTimeout: 10,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Port:    9545,
		},
		Log: LogConfig{
			Level:      "info",
			MaxSize:    50,
			MaxBackups: 2,
			MaxAge:     30,
		},
		Cache: CacheConfig{
			TTL: 24 * 60 * 60,
		},
		Guess: GuessConfig{
			ExpectedTitle: []string{"OSS 117", "This is Us"},
		},
		Advanced: DefaultAdvanced(),
	}
}

// Load reads configuration from a YAML file. Advanced tables from the file
// are merged over the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Use defaults if no config file
		}
		return nil, err
	}

	return parse(cfg, data)
}

// Parse decodes YAML data over the defaults.
func Parse(data []byte) (*Config, error) {
	return parse(DefaultConfig(), data)
}

func parse(cfg *Config, data []byte) (*Config, error) {
	base := cfg.Advanced
	cfg.Advanced = Advanced{}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	cfg.Advanced = base.Merge(cfg.Advanced, cfg.Pristine...)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports obviously unusable settings.
func (c *Config) Validate() error {
	if c.Server.HTTPPort < 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port %d", ErrInvalid, c.Server.HTTPPort)
	}
	if c.Metrics.Port < 0 || c.Metrics.Port > 65535 {
		return fmt.Errorf("%w: metrics.port %d", ErrInvalid, c.Metrics.Port)
	}
	if c.Advanced.MaxIterations < 0 {
		return fmt.Errorf("%w: advanced.max_iterations %d", ErrInvalid, c.Advanced.MaxIterations)
	}
	return nil
}

// EnsureDirectories creates required directories
func (c *Config) EnsureDirectories() error {
	var dirs []string
	if c.Cache.Path != "" {
		dirs = append(dirs, c.Cache.Path)
	}
	if c.Log.Path != "" {
		dirs = append(dirs, filepath.Dir(c.Log.Path))
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	return nil
}
