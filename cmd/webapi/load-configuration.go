package main

import (
	"fmt"
	"os"
	"time"

	"github.com/ardanlabs/conf"
	"gopkg.in/yaml.v2"
)

// WebConfig tunes the API server's listener and shutdown behaviour.
type WebConfig struct {
	APIHost         string        `conf:"default:0.0.0.0:3000" yaml:"api-host"`
	ReadTimeout     time.Duration `conf:"default:5s" yaml:"read-timeout"`
	WriteTimeout    time.Duration `conf:"default:5s" yaml:"write-timeout"`
	ShutdownTimeout time.Duration `conf:"default:5s" yaml:"shutdown-timeout"`
}

type DBConfig struct {
	Filename string `conf:"default:./anti-scam.db" yaml:"filename"`
}

// SessionConfig governs the signing of session tokens; the default secret only suits local development.
type SessionConfig struct {
	Secret string        `conf:"default:development-secret-replace-me" yaml:"secret"`
	TTL    time.Duration `conf:"default:72h" yaml:"ttl"`
}

type Configuration struct {
	Config struct {
		Path string `conf:"default:./config.yml" yaml:"-"`
	}
	Web     WebConfig     `yaml:"web"`
	DB      DBConfig      `yaml:"db"`
	Session SessionConfig `yaml:"session"`
	Debug   bool          `conf:"default:false" yaml:"debug"`
}

// loadConfiguration assembles the service's settings from struct defaults, an optional
// YAML file, and finally environment variables and command line flags, in that order.
func loadConfiguration() (Configuration, error) {
	var cfg Configuration

	// defaults, environment variables and flags
	if err := conf.Parse(os.Args[1:], "API", &cfg); err != nil {
		if err == conf.ErrHelpWanted {
			usage, usageErr := conf.Usage("API", &cfg)
			if usageErr != nil {
				return cfg, fmt.Errorf("generating config usage: %w", usageErr)
			}
			fmt.Println(usage)
			return cfg, conf.ErrHelpWanted
		}
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	// an optional YAML file overrides the defaults, when found at the configured path
	if contents, err := os.ReadFile(cfg.Config.Path); err == nil {
		if err = yaml.Unmarshal(contents, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config file %q: %w", cfg.Config.Path, err)
		}
	}

	return cfg, nil
}
