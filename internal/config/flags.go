package config

import "flag"

var (
	flagConfig = flag.String("config", "", "Path to config file")
	flagDebug  = flag.Bool("debug", false, "Enable debug logging")
	flagCells  = flag.Int("cells", 0, "Marching cubes grid resolution")
	flagOut    = flag.String("out", "", "Output directory")
	flagASCII  = flag.Bool("ascii", false, "Write ASCII STL output")
)

// ParseFlags parses command-line flags up to the first non-flag argument.
// Call this early in main(); subcommand arguments stay in flag.Args().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagCells > 0 {
		cfg.Mesh.Cells = *flagCells
	}
	if *flagOut != "" {
		cfg.Output.Dir = *flagOut
	}
	if *flagASCII {
		cfg.Output.ASCII = true
	}
}
