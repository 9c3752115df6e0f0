package config

import "github.com/caarlos0/env/v11"

type BotConfig struct {
	WSURL     string `env:"WS_URL" envDefault:"ws://localhost:8080/ws"`
	SessionID string `env:"SESSION_ID,required,notEmpty"`
	TableID   int    `env:"TABLE_ID" envDefault:"1"`
	SeatID    int    `env:"SEAT_ID" envDefault:"2"`
	// Name renames the seat on join; empty keeps the session's name.
	Name      string `env:"BOT_NAME"`
	ThinkMS   int    `env:"BOT_THINK_MS" envDefault:"400"`
	// Hands stops the bot after that many completed hands; 0 plays forever.
	Hands int `env:"BOT_HANDS" envDefault:"0"`
}

func LoadBot() (BotConfig, error) {
	var cfg BotConfig
	err := env.Parse(&cfg)
	return cfg, err
}
