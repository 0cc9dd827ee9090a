package config

// Config is the top-level shopchat configuration, corresponding to
// .shopchat.yml.
type Config struct {
	Port        int            `yaml:"port" koanf:"port"`
	DataDir     string         `yaml:"data_dir" koanf:"data_dir"`
	CatalogFile string         `yaml:"catalog_file" koanf:"catalog_file"`
	Greeting    string         `yaml:"greeting" koanf:"greeting"`
	AllowAll    bool           `yaml:"allow_all_origins" koanf:"allow_all_origins"`
	Typing      TypingSettings `yaml:"typing" koanf:"typing"`
}

// TypingSettings shapes the simulated typing pause before replies.
// All values are milliseconds; a zero per_char disables the pause.
type TypingSettings struct {
	PerCharMs int `yaml:"per_char_ms" koanf:"per_char_ms"`
	FloorMs   int `yaml:"floor_ms" koanf:"floor_ms"`
	CapMs     int `yaml:"cap_ms" koanf:"cap_ms"`
}
