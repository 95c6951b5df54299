// Package config handles carve configuration loading and management.
package config

// Config holds all tool settings.
type Config struct {
	Mesh    MeshConfig    `yaml:"mesh"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

// MeshConfig holds meshing settings for curved primitives.
type MeshConfig struct {
	// Cells is the marching cubes grid resolution along the longest axis.
	Cells int `yaml:"cells"`
}

// OutputConfig holds result output settings.
type OutputConfig struct {
	Dir   string `yaml:"dir"`
	ASCII bool   `yaml:"ascii"` // Write ASCII STL instead of binary
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Mesh: MeshConfig{
			Cells: 200,
		},
		Output: OutputConfig{
			Dir:   ".",
			ASCII: false,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
