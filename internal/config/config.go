package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Dataset modes.
const (
	ModeLive     = "live"
	ModeSnapshot = "snapshot"
	ModeGraph    = "graph"
)

// DefaultPlaceID is used when a request carries no place.
const DefaultPlaceID = "recHJJkuqk0AYjHa9"

// Duration reads TOML strings such as "10s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

type ServerConfig struct {
	Port         string   `toml:"port"`
	WebhookToken string   `toml:"webhook_token"`
	TurnTimeout  Duration `toml:"turn_timeout"`
}

type AirtableConfig struct {
	APIKey   string   `toml:"api_key"`
	BaseID   string   `toml:"base_id"`
	BaseURL  string   `toml:"base_url"`
	PageSize int      `toml:"page_size"`
	Timeout  Duration `toml:"timeout"`
}

type DatasetConfig struct {
	Mode         string `toml:"mode"`
	SnapshotPath string `toml:"snapshot_path"`
}

type MemgraphConfig struct {
	URI      string `toml:"uri"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

type LLMConfig struct {
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
	APIKey   string `toml:"api_key"`
	BaseURL  string `toml:"base_url"`
}

type DefaultsConfig struct {
	PlaceID string `toml:"place_id"`
}

type ConcurrencyConfig struct {
	Preload int `toml:"preload"`
	FanOut  int `toml:"fan_out"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

type Config struct {
	Server      ServerConfig      `toml:"server"`
	Dataset     DatasetConfig     `toml:"dataset"`
	Airtable    AirtableConfig    `toml:"airtable"`
	Memgraph    MemgraphConfig    `toml:"memgraph"`
	LLM         LLMConfig         `toml:"llm"`
	Defaults    DefaultsConfig    `toml:"defaults"`
	Concurrency ConcurrencyConfig `toml:"concurrency"`
	Log         LogConfig         `toml:"log"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        "8080",
			TurnTimeout: Duration{10 * time.Second},
		},
		Dataset: DatasetConfig{
			Mode: ModeSnapshot,
		},
		Airtable: AirtableConfig{
			BaseURL:  "https://api.airtable.com",
			PageSize: 100,
			Timeout:  Duration{30 * time.Second},
		},
		Memgraph: MemgraphConfig{
			URI: "bolt://localhost:7687",
		},
		Defaults: DefaultsConfig{
			PlaceID: DefaultPlaceID,
		},
		Concurrency: ConcurrencyConfig{
			Preload: 4,
			FanOut:  8,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads a TOML file on top of the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault reads path when it exists and falls back to the defaults
// when it does not. Parse errors are still reported.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// ApplyEnv overrides file values with environment variables that are set.
func (c *Config) ApplyEnv() {
	override := func(dst *string, key string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}

	override(&c.Server.Port, "PORT")
	override(&c.Server.WebhookToken, "WEBHOOK_TOKEN")
	override(&c.Dataset.Mode, "DATASET_MODE")
	override(&c.Dataset.SnapshotPath, "SNAPSHOT_PATH")
	override(&c.Airtable.APIKey, "AIRTABLE_API_KEY")
	override(&c.Airtable.BaseID, "AIRTABLE_BASE_ID")
	override(&c.Airtable.BaseURL, "AIRTABLE_BASE_URL")
	override(&c.Memgraph.URI, "MEMGRAPH_URI")
	override(&c.Memgraph.User, "MEMGRAPH_USER")
	override(&c.Memgraph.Password, "MEMGRAPH_PASSWORD")
	override(&c.LLM.Provider, "LLM_PROVIDER")
	override(&c.LLM.Model, "LLM_MODEL")
	override(&c.LLM.APIKey, "LLM_API_KEY")
	override(&c.LLM.BaseURL, "LLM_BASE_URL")
	override(&c.Defaults.PlaceID, "DEFAULT_PLACE_ID")
	override(&c.Log.Level, "LOG_LEVEL")
}

// Validate reports configuration that cannot serve requests.
func (c *Config) Validate() error {
	switch c.Dataset.Mode {
	case ModeLive:
		if err := c.Airtable.validate(); err != nil {
			return err
		}
	case ModeSnapshot:
		if c.Dataset.SnapshotPath == "" {
			if err := c.Airtable.validate(); err != nil {
				return fmt.Errorf("snapshot mode without snapshot_path preloads from Airtable: %w", err)
			}
		}
	case ModeGraph:
		if c.Memgraph.URI == "" {
			return errors.New("graph mode requires memgraph.uri")
		}
	default:
		return fmt.Errorf("unknown dataset mode %q (use %s, %s or %s)", c.Dataset.Mode, ModeLive, ModeSnapshot, ModeGraph)
	}
	if c.Server.Port == "" {
		return errors.New("missing server.port")
	}
	if c.Defaults.PlaceID == "" {
		return errors.New("missing defaults.place_id")
	}
	return nil
}

func (a AirtableConfig) validate() error {
	if a.APIKey == "" {
		return errors.New("missing airtable.api_key")
	}
	if a.BaseID == "" {
		return errors.New("missing airtable.base_id")
	}
	return nil
}
