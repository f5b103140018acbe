package config

// Config is the top-level normanav configuration, corresponding to
// .normanav.yml.
type Config struct {
	DataDir  string       `yaml:"data_dir" koanf:"data_dir"`   // build artifacts (document + indexes)
	StateDir string       `yaml:"state_dir" koanf:"state_dir"` // sqlite state (markers, preferences)
	Port     int          `yaml:"port" koanf:"port"`
	AllowAll bool         `yaml:"allow_all_origins" koanf:"allow_all_origins"`
	Reading  ReaderConfig `yaml:"reader" koanf:"reader"`
}

// ReaderConfig holds presentation-facing knobs the core hands through to
// the rendering layer.
type ReaderConfig struct {
	// ReadingLine is the viewport-height fraction navigation targets are
	// scrolled to.
	ReadingLine float64 `yaml:"reading_line" koanf:"reading_line"`
}
