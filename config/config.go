package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the runtime settings for the API process.
type Config struct {
	Env              string `mapstructure:"env"`
	HTTPPort         string `mapstructure:"http_port"`
	PostgresHost     string `mapstructure:"postgres_host"`
	PostgresUser     string `mapstructure:"postgres_user"`
	PostgresPassword string `mapstructure:"postgres_password"`
	PostgresDB       string `mapstructure:"postgres_db"`
	Seed             bool   `mapstructure:"seed"`
}

// Load resolves configuration from defaults, an optional config file, and
// GRAINBROKER_-prefixed environment variables, in increasing precedence.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("env", "development")
	v.SetDefault("http_port", "5000")
	v.SetDefault("postgres_host", "localhost:5432")
	v.SetDefault("postgres_user", "postgres")
	v.SetDefault("postgres_password", "postgrespassword")
	v.SetDefault("postgres_db", "grainbroker")
	v.SetDefault("seed", false)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	v.SetEnvPrefix("GRAINBROKER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return &cfg, nil
}

// DSN builds the Postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("postgresql://%s:%s@%s/%s",
		c.PostgresUser, c.PostgresPassword, c.PostgresHost, c.PostgresDB)
}
