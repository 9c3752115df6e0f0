package config

type AppConfig struct {
	Server      ServerConfig
	Log         LogConfig
	HandHistory HandHistoryConfig
}

func LoadApp() (AppConfig, error) {
	logCfg, err := LoadLog()
	if err != nil {
		return AppConfig{}, err
	}
	serverCfg, err := LoadServer()
	if err != nil {
		return AppConfig{}, err
	}
	hhCfg, err := LoadHandHistory()
	if err != nil {
		return AppConfig{}, err
	}
	return AppConfig{
		Server:      serverCfg,
		Log:         logCfg,
		HandHistory: hhCfg,
	}, nil
}
