package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	HTTP struct {
		Port                 string   `yaml:"port" env:"PORT" env-default:"8080"`
		AllowedOrigins       []string `yaml:"allowed_origins" env:"ALLOWED_ORIGINS" env-default:"*"`
		MaxRequestsPerSecond int      `yaml:"max_requests_per_second" env:"MAX_REQUESTS_PER_SECOND" env-default:"50"`
	} `yaml:"http"`

	Database struct {
		DSN string `yaml:"dsn" env:"DATABASE_DSN"`
	} `yaml:"database"`

	// Org identifies the facility on whose behalf documents are
	// emitted. BaseURL namespaces every identifier system; its
	// validity is checked per request by the org context resolver,
	// not here, so a misconfigured deployment still starts and
	// reports errors per call.
	Org struct {
		ID              string `yaml:"id" env:"ORG_ID"`
		Name            string `yaml:"name" env:"ORG_NAME"`
		System          string `yaml:"identifier_system" env:"ORG_IDENTIFIER_SYSTEM"`
		BaseURL         string `yaml:"base_url" env:"ORG_BASE_URL"`
		CareContextType string `yaml:"care_context_type" env:"CARE_CONTEXT_TYPE" env-default:"OPConsultation"`
	} `yaml:"org"`
}

// Load reads configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: read env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("config: validate: %w", err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Database.DSN == "" {
		return fmt.Errorf("DATABASE_DSN is required")
	}
	return nil
}
