package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel string  `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPAddr string  `yaml:"http-addr" env:"HTTP_ADDR" env-default:":8080"`
	HTTP     HTTP    `yaml:"http"`
	Session  Session `yaml:"session"`
	Events   Events  `yaml:"events"`
}

type HTTP struct {
	ReadTimeout  time.Duration `yaml:"read-timeout" env:"HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout time.Duration `yaml:"write-timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"0s"`
	IdleTimeout  time.Duration `yaml:"idle-timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
}

type Session struct {
	CookieName    string        `yaml:"cookie-name" env:"SESSION_COOKIE_NAME" env-default:"session_id"`
	IdleTTL       time.Duration `yaml:"idle-ttl" env:"SESSION_IDLE_TTL" env-default:"30m"`
	SweepInterval time.Duration `yaml:"sweep-interval" env:"SESSION_SWEEP_INTERVAL" env-default:"1m"`
}

type Events struct {
	Heartbeat time.Duration `yaml:"heartbeat" env:"EVENTS_HEARTBEAT" env-default:"15s"`
}

// Load reads the YAML file at path, overridden by environment variables.
// A missing file is not an error: defaults and the environment are used.
func Load(path string) (*Config, error) {
	conf := &Config{}

	_, err := os.Stat(path)
	switch {
	case err == nil:
		if err = cleanenv.ReadConfig(path, conf); err != nil {
			return nil, fmt.Errorf("unable to load config file: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist):
		if err = cleanenv.ReadEnv(conf); err != nil {
			return nil, fmt.Errorf("unable to read config from environment: %w", err)
		}
	default:
		return nil, fmt.Errorf("unable to stat config file: %w", err)
	}

	if conf.Session.CookieName == "" {
		return nil, errors.New("session cookie name must not be empty")
	}
	if conf.Session.IdleTTL <= 0 {
		return nil, fmt.Errorf("session idle-ttl must be positive, got %s", conf.Session.IdleTTL)
	}
	if conf.Session.SweepInterval <= 0 {
		return nil, fmt.Errorf("session sweep-interval must be positive, got %s", conf.Session.SweepInterval)
	}

	return conf, nil
}

// MustLoad - load configuration or panic.
func MustLoad(path string) *Config {
	conf, err := Load(path)
	if err != nil {
		panic(err)
	}
	return conf
}
