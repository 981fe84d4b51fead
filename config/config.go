package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	log "github.com/sirupsen/logrus"
)

// Config holds the server settings read from the environment
type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	DBType      string `env:"DB_TYPE" envDefault:"json"` // json, postgres or sqlite
	DatabaseURL string `env:"DATABASE_URL" envDefault:"host=localhost user=maze password=maze dbname=maze_daze sslmode=disable"`
	DBFile      string `env:"DB_FILE" envDefault:"db.json"`
	SQLitePath  string `env:"SQLITE_PATH" envDefault:"maze.db"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat   string `env:"LOG_FORMAT" envDefault:"text"`
	TuningFile  string `env:"TUNING_FILE"`
	Seed        int64  `env:"SEED"` // 0 means seed from the clock
}

// Load parses the environment into a Config
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.DBType = strings.ToLower(strings.TrimSpace(cfg.DBType))
	switch cfg.DBType {
	case "json", "postgres", "sqlite":
	default:
		return nil, fmt.Errorf("unsupported DB_TYPE %q", cfg.DBType)
	}
	return &cfg, nil
}

// SetupLogging applies the log level and format to the global logger
func (c *Config) SetupLogging() error {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return fmt.Errorf("parse log level: %w", err)
	}
	log.SetLevel(level)
	if c.LogFormat == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	return nil
}
