package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

type Config struct {
	Environment string `env:"ENV" envDefault:"development"`
	HTTP        struct {
		Port            int           `env:"HTTP_PORT" envDefault:"8080"`
		ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"30s"`
		WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
		IdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"120s"`
		ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	}
	Logging struct {
		Level  string `env:"LOG_LEVEL"`
		Format string `env:"LOG_FORMAT" envDefault:"json"`
		Output string `env:"LOG_OUTPUT" envDefault:"stderr"`
	}
	Playback struct {
		// Delay between auto-play steps; 500ms matches speed 50.
		Delay time.Duration `env:"PLAYBACK_DELAY" envDefault:"500ms"`
	}
	Runs struct {
		// MaxStored bounds the runs held for playback; the oldest is evicted.
		MaxStored int `env:"RUNS_MAX_STORED" envDefault:"64"`
		// Seed fixes annealing draws when requests carry none. Zero is random.
		Seed uint64 `env:"RUNS_SEED" envDefault:"0"`
	}
}

func Load() (*Config, error) {
	cfg := &Config{}

	// Parse environment variables
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	// Set default logging level based on environment
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
		if cfg.Environment == "development" {
			cfg.Logging.Level = "debug"
		}
	}

	if cfg.Runs.MaxStored < 1 {
		return nil, fmt.Errorf("RUNS_MAX_STORED must be at least 1, got %d", cfg.Runs.MaxStored)
	}
	if cfg.Playback.Delay < 0 {
		return nil, fmt.Errorf("PLAYBACK_DELAY must not be negative, got %s", cfg.Playback.Delay)
	}

	return cfg, nil
}
