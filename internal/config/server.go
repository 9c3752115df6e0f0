package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type ServerConfig struct {
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`

	MaxTablesPerSession int `env:"MAX_TABLES_PER_SESSION" envDefault:"24"`
	BoardMaxAttempts    int `env:"BOARD_MAX_ATTEMPTS" envDefault:"20000"`

	WSSendBuffer   int      `env:"WS_SEND_BUFFER" envDefault:"64"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	LogRoutes       bool          `env:"LOG_ROUTES" envDefault:"false"`
}

func LoadServer() (ServerConfig, error) {
	var cfg ServerConfig
	err := env.Parse(&cfg)
	return cfg, err
}
