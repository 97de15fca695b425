// Package config loads the checkers server settings from an optional YAML
// file and environment overrides.
package config

import (
    "errors"
    "fmt"
    "os"
    "strconv"
    "strings"
    "time"

    yaml "gopkg.in/yaml.v3"

    "github.com/jaminalder/codex-checkers/internal/domain"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
    Server ServerConfig `yaml:"server"`
    Game   GameConfig   `yaml:"game"`
    Log    LogConfig    `yaml:"log"`
}

type ServerConfig struct {
    Addr            string        `yaml:"addr"`
    ReadTimeout     time.Duration `yaml:"read_timeout"`
    ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type GameConfig struct {
    StartRows  int `yaml:"start_rows"`
    DarkParity int `yaml:"dark_parity"`
    MaxChain   int `yaml:"max_chain"`
}

type LogConfig struct {
    Level  string `yaml:"level"`
    Format string `yaml:"format"` // json or console
    Caller bool   `yaml:"caller"`
}

// Default returns the settings used when nothing is configured.
func Default() *Config {
    v := domain.DefaultVariant()
    return &Config{
        Server: ServerConfig{
            Addr:            ":8080",
            ReadTimeout:     10 * time.Second,
            ShutdownTimeout: 5 * time.Second,
        },
        Game: GameConfig{
            StartRows:  v.StartRows,
            DarkParity: v.DarkParity,
            MaxChain:   v.MaxChain,
        },
        Log: LogConfig{Level: "info", Format: "console"},
    }
}

// Load reads path (if non-empty) over the defaults, applies environment
// overrides and validates the result.
func Load(path string) (*Config, error) {
    cfg := Default()
    if strings.TrimSpace(path) != "" {
        raw, err := os.ReadFile(path)
        if err != nil {
            return nil, fmt.Errorf("read config: %w", err)
        }
        if err := yaml.Unmarshal(raw, cfg); err != nil {
            return nil, fmt.Errorf("parse config %s: %w", path, err)
        }
    }
    if err := cfg.applyEnv(); err != nil {
        return nil, err
    }
    if err := cfg.Validate(); err != nil {
        return nil, err
    }
    return cfg, nil
}

func (c *Config) applyEnv() error {
    if v := strings.TrimSpace(os.Getenv("CHECKERS_ADDR")); v != "" {
        c.Server.Addr = v
    }
    ints := []struct {
        key string
        dst *int
    }{
        {"CHECKERS_START_ROWS", &c.Game.StartRows},
        {"CHECKERS_DARK_PARITY", &c.Game.DarkParity},
        {"CHECKERS_MAX_CHAIN", &c.Game.MaxChain},
    }
    for _, e := range ints {
        v := strings.TrimSpace(os.Getenv(e.key))
        if v == "" {
            continue
        }
        n, err := strconv.Atoi(v)
        if err != nil {
            return fmt.Errorf("%s=%q: %w", e.key, v, ErrInvalidConfig)
        }
        *e.dst = n
    }
    if v := strings.TrimSpace(os.Getenv("LOG_LEVEL")); v != "" {
        c.Log.Level = v
    }
    if v := strings.TrimSpace(os.Getenv("LOG_FORMAT")); v != "" {
        c.Log.Format = strings.ToLower(v)
    }
    if v := strings.TrimSpace(os.Getenv("LOG_CALLER")); v != "" {
        b, err := strconv.ParseBool(v)
        if err != nil {
            return fmt.Errorf("LOG_CALLER=%q: %w", v, ErrInvalidConfig)
        }
        c.Log.Caller = b
    }
    return nil
}

// Validate checks the settings are usable.
func (c *Config) Validate() error {
    if strings.TrimSpace(c.Server.Addr) == "" {
        return fmt.Errorf("server.addr is required: %w", ErrInvalidConfig)
    }
    if err := c.Variant().Validate(); err != nil {
        return fmt.Errorf("game: %v: %w", err, ErrInvalidConfig)
    }
    switch c.Log.Format {
    case "json", "console":
    default:
        return fmt.Errorf("log.format %q must be json or console: %w", c.Log.Format, ErrInvalidConfig)
    }
    return nil
}

// Variant converts the game section into engine rules.
func (c *Config) Variant() domain.Variant {
    return domain.Variant{
        StartRows:  c.Game.StartRows,
        DarkParity: c.Game.DarkParity,
        MaxChain:   c.Game.MaxChain,
    }
}
