package config

import (
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Address  string
		HTTPPort string
	}
	Database struct {
		Driver string // sqlite (default) | postgres | mysql
		DSN    string
	}
	Logging struct {
		Level  string
		Format string
		File   string
	}
	Tenantos struct {
		APIURL string
		APIKey string
	}
}

// Load reads config.yaml (if present, from cwd or /etc/server-inventory-manager)
// and the environment. Env keys use the SIM_ prefix, e.g. SIM_DATABASE_DSN;
// the remote API keeps its historical unprefixed names TENANTOS_API_URL and
// TENANTOS_API_KEY.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("server.address", "0.0.0.0")
	v.SetDefault("server.httpport", "5000")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "servers.db")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("tenantos.apiurl", "https://manage.linveo.com/api")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/server-inventory-manager")

	v.SetEnvPrefix("SIM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("tenantos.apiurl", "TENANTOS_API_URL")
	_ = v.BindEnv("tenantos.apikey", "TENANTOS_API_KEY")

	if err := v.ReadInConfig(); err != nil {
		// config file is optional; anything else is a real error
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
