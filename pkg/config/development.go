package config

func loadDevelopmentConfig(cfg *Config) {
	cfg.DatabaseDebug = true
	cfg.DatabaseFilePath = "./tmp/deepread.sqlite"
	cfg.ServerHost = "127.0.0.1"
}
