package config

func loadProductionConfig(cfg *Config) {
	// Production requires the database path to come from the config file or
	// environment, so there is no default here.
	cfg.ServerHost = "0.0.0.0"
}
