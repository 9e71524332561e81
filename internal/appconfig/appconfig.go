// Package appconfig loads folio.yaml and FOLIO_* environment overrides.
package appconfig

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"folio/internal/store"

	"gopkg.in/yaml.v3"
)

// DefaultFile is looked up in the working directory when no config path is given.
const DefaultFile = "folio.yaml"

type Config struct {
	DataDir    string `yaml:"data_dir" json:"data_dir"`
	Addr       string `yaml:"addr" json:"addr"`
	LogLevel   string `yaml:"log_level" json:"log_level"`
	Journal    bool   `yaml:"journal" json:"journal"`
	JournalMax int    `yaml:"journal_max" json:"journal_max"`
}

func Default() Config {
	return Config{
		DataDir:    "data",
		Addr:       "127.0.0.1:8080",
		LogLevel:   "warn",
		Journal:    true,
		JournalMax: store.DefaultJournalMax,
	}
}

// Load reads path over the defaults. An empty path tries DefaultFile and silently falls back to
// defaults when it does not exist; an explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		path = DefaultFile
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Default(), fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// ApplyEnv overrides fields from FOLIO_* variables. getenv is os.Getenv outside tests.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv("FOLIO_DIR"); v != "" {
		c.DataDir = v
	}
	if v := getenv("FOLIO_ADDR"); v != "" {
		c.Addr = v
	}
	if v := getenv("FOLIO_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := getenv("FOLIO_JOURNAL"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("FOLIO_JOURNAL: %w", err)
		}
		c.Journal = b
	}
	if v := getenv("FOLIO_JOURNAL_MAX"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("FOLIO_JOURNAL_MAX: %w", err)
		}
		c.JournalMax = n
	}
	return c.Validate()
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DataDir) == "" {
		return errors.New("data_dir is empty")
	}
	if c.JournalMax < 0 {
		return fmt.Errorf("journal_max must be >= 0, got %d", c.JournalMax)
	}
	return nil
}
