package cardverse

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/cardverse/cardverse/cardverse/database"
)

func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	cfg := Default()
	if err = toml.NewDecoder(file).Decode(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the configuration used when fields are absent from the
// config file.
func Default() *Config {
	return &Config{
		Log: LogConfig{Level: slog.LevelInfo},
		Storage: database.Config{
			Path: "cardverse.db",
		},
		Seed: SeedConfig{
			AdminUsername: "admin",
			AdminPassword: "admin",
			AdminEmail:    "root@system.local",
			AdminBalance:  99999,
		},
		Rewards: RewardsConfig{
			TaskDelaySeconds: 1,
		},
	}
}

type Config struct {
	Log     LogConfig       `toml:"log"`
	Storage database.Config `toml:"storage"`
	Catalog CatalogConfig   `toml:"catalog"`
	Seed    SeedConfig      `toml:"seed"`
	Rewards RewardsConfig   `toml:"rewards"`
}

type LogConfig struct {
	Level slog.Level `toml:"level"`
}

type CatalogConfig struct {
	// Path to a catalog TOML file; empty means the embedded default.
	Path string `toml:"path"`
}

// SeedConfig describes the administrator account created once, on first
// initialization of an empty store.
type SeedConfig struct {
	AdminUsername string `toml:"admin_username"`
	AdminPassword string `toml:"admin_password"`
	AdminEmail    string `toml:"admin_email"`
	AdminBalance  int64  `toml:"admin_balance"`
}

type RewardsConfig struct {
	TaskDelaySeconds int `toml:"task_delay_seconds"`
}
