package sheetmirror

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config is the on-disk configuration for building mirrors. All fields are
// optional; zero values fall back to the package defaults.
type Config struct {
	// CredentialsFile is the path to the service-account credentials used
	// by the remote bindings.
	CredentialsFile string `toml:"credentials_file"`

	// Quotas, per operation class. Window lengths are in seconds.
	ReadLimit          int `toml:"read_limit"`
	ReadWindowSeconds  int `toml:"read_window_seconds"`
	WriteLimit         int `toml:"write_limit"`
	WriteWindowSeconds int `toml:"write_window_seconds"`

	// Bounded extent for whole-document fetches.
	MaxRows int `toml:"max_rows"`
	MaxCols int `toml:"max_cols"`
}

// LoadConfig reads a TOML config file and fills defaults for anything it
// leaves unset.
func LoadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %q: %w", path, err)
	}
	var c Config
	if err := toml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse config %q: %w", path, err)
	}
	c.applyDefaults()
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.ReadLimit == 0 {
		c.ReadLimit = DefaultQuotaLimit
	}
	if c.ReadWindowSeconds == 0 {
		c.ReadWindowSeconds = int(DefaultQuotaWindow / time.Second)
	}
	if c.WriteLimit == 0 {
		c.WriteLimit = DefaultQuotaLimit
	}
	if c.WriteWindowSeconds == 0 {
		c.WriteWindowSeconds = int(DefaultQuotaWindow / time.Second)
	}
	if c.MaxRows == 0 {
		c.MaxRows = DefaultMaxRows
	}
	if c.MaxCols == 0 {
		c.MaxCols = DefaultMaxCols
	}
}

// Options translates the config into mirror construction options.
func (c *Config) Options() []Option {
	return []Option{
		WithReadQuota(Quota{Limit: c.ReadLimit, Window: time.Duration(c.ReadWindowSeconds) * time.Second}),
		WithWriteQuota(Quota{Limit: c.WriteLimit, Window: time.Duration(c.WriteWindowSeconds) * time.Second}),
		WithMaxExtent(c.MaxRows, c.MaxCols),
	}
}
