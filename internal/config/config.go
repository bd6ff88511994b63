// Package config handles tool configuration loading and management.
package config

// Config holds all tool settings.
type Config struct {
	Export  ExportConfig  `yaml:"export"`
	Logging LoggingConfig `yaml:"logging"`
}

// ExportConfig holds model export settings.
type ExportConfig struct {
	OutputDir string `yaml:"output_dir"` // Destination for converted files
	Format    string `yaml:"format"`     // "gltf" or "glb"
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Export: ExportConfig{
			OutputDir: ".",
			Format:    "gltf",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
