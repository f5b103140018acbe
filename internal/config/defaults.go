package config

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		DataDir:  "data",
		StateDir: "state",
		Port:     8080,
		Reading: ReaderConfig{
			ReadingLine: 0.38,
		},
	}
}
