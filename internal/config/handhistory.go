package config

import "github.com/caarlos0/env/v11"

type HandHistoryConfig struct {
	SiteName       string `env:"HH_SITE_NAME" envDefault:"PokerStars"`
	CurrencySymbol string `env:"HH_CURRENCY_SYMBOL" envDefault:"€"`
	CurrencyCode   string `env:"HH_CURRENCY_CODE" envDefault:"EUR"`
	TablePrefix    string `env:"HH_TABLE_PREFIX" envDefault:"Spot"`
	// FirstHandNumber 0 derives the first number from the start time.
	FirstHandNumber int64 `env:"HH_FIRST_HAND_NUMBER" envDefault:"0"`
}

func LoadHandHistory() (HandHistoryConfig, error) {
	var cfg HandHistoryConfig
	err := env.Parse(&cfg)
	return cfg, err
}
