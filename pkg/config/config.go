package config

import (
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

type Config struct {
	DatabaseBusyTimeout       time.Duration `koanf:"database_busy_timeout"`
	DatabaseConnectRetryCount int           `koanf:"database_connect_retry_count"`
	DatabaseConnectRetryDelay time.Duration `koanf:"database_connect_retry_delay"`
	DatabaseDebug             bool          `koanf:"database_debug"`
	DatabaseFilePath          string        `koanf:"database_file_path"`
	DatabaseMaxRetries        int           `koanf:"database_max_retries"`
	Hostname                  string        `koanf:"hostname"`
	ServerHost                string        `koanf:"server_host"`
	ServerPort                int           `koanf:"server_port"`
}

const (
	environmentENV = "ENVIRONMENT"
	configFileENV  = "CONFIG_FILE"
	envPrefix      = "DEEPREAD_"
)

// New builds the config in three layers: per-environment defaults, an optional
// YAML config file pointed to by CONFIG_FILE, and DEEPREAD_* environment
// variable overrides.
func New() (*Config, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return nil, errors.WithStack(err)
	}

	cfg := &Config{
		DatabaseBusyTimeout:       5 * time.Second,
		DatabaseConnectRetryCount: 5,
		DatabaseConnectRetryDelay: 2 * time.Second,
		DatabaseMaxRetries:        3,
		Hostname:                  hostname,
		ServerPort:                3690,
	}

	switch os.Getenv(environmentENV) {
	case "development", "":
		loadDevelopmentConfig(cfg)
	case "test":
		loadTestConfig(cfg)
	case "production":
		loadProductionConfig(cfg)
	}

	k := koanf.New(".")

	if path := os.Getenv(configFileENV); path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, errors.WithStack(err)
			}
		}
	}

	err = k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, errors.WithStack(err)
	}

	if cfg.DatabaseFilePath == "" {
		return nil, errors.New("missing required config: DEEPREAD_DATABASE_FILE_PATH (database_file_path)")
	}

	return cfg, nil
}
