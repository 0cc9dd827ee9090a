package config

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Port:        8085,
		DataDir:     ".shopchat",
		CatalogFile: "",
		Greeting:    "",
		AllowAll:    false,
		Typing: TypingSettings{
			PerCharMs: 15,
			FloorMs:   800,
			CapMs:     3000,
		},
	}
}
