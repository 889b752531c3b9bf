// Package config loads process configuration from .env files, the
// environment and an optional YAML file, and applies option lines found in
// journals.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/juev/ledger-textual/internal/formatter"
	"github.com/juev/ledger-textual/internal/include"
)

const (
	EnvFile    = "LEDGER_FILE"
	EnvConfig  = "LEDGER_CONFIG"
	EnvPriceDB = "LEDGER_PRICE_DB"
)

type Config struct {
	File    string            `yaml:"file"`
	PriceDB string            `yaml:"price_db"`
	Limits  include.Limits    `yaml:"limits"`
	Format  formatter.Options `yaml:"format"`
}

func Default() *Config {
	return &Config{
		Limits: include.DefaultLimits(),
		Format: formatter.DefaultOptions(),
	}
}

func (c *Config) normalize() {
	defaults := Default()
	if c.Limits.MaxIncludeDepth <= 0 {
		c.Limits.MaxIncludeDepth = defaults.Limits.MaxIncludeDepth
	}
	if c.Limits.MaxFileSizeBytes <= 0 {
		c.Limits.MaxFileSizeBytes = defaults.Limits.MaxFileSizeBytes
	}
	if c.Format.DateFormat == "" {
		c.Format.DateFormat = defaults.Format.DateFormat
	}
	if c.Format.AccountWidth < 0 {
		c.Format.AccountWidth = 0
	}
	if c.Format.AmountWidth < 0 {
		c.Format.AmountWidth = 0
	}
}

// Load reads envPath (or ./.env when empty and present), then overlays the
// YAML file named by LEDGER_CONFIG and finally the LEDGER_FILE and
// LEDGER_PRICE_DB variables.
func Load(envPath string) (*Config, error) {
	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	} else if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := Default()
	if path := os.Getenv(EnvConfig); path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}
	if v := os.Getenv(EnvFile); v != "" {
		cfg.File = v
	}
	if v := os.Getenv(EnvPriceDB); v != "" {
		cfg.PriceDB = v
	}
	cfg.normalize()
	return cfg, nil
}

// LoadFile overlays the YAML document at path onto c. Keys absent from the
// document keep their current values.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	c.normalize()
	return nil
}

// Process applies a "--name value" option line from a journal.
func (c *Config) Process(name, value string) error {
	value = strings.TrimSpace(value)
	switch name {
	case "file":
		c.File = value
	case "price-db":
		c.PriceDB = value
	case "date-format":
		if value == "" {
			return fmt.Errorf("option --%s requires a value", name)
		}
		c.Format.DateFormat = value
	case "account-width":
		return setInt(name, value, &c.Format.AccountWidth)
	case "amount-width":
		return setInt(name, value, &c.Format.AmountWidth)
	case "max-include-depth":
		if err := setInt(name, value, &c.Limits.MaxIncludeDepth); err != nil {
			return err
		}
		c.normalize()
	default:
		return fmt.Errorf("unknown option --%s", name)
	}
	return nil
}

func setInt(name, value string, dst *int) error {
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return fmt.Errorf("option --%s: invalid number %q", name, value)
	}
	*dst = n
	return nil
}
