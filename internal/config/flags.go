package config

import "flag"

var (
	flagConfig   = flag.String("config", "", "Path to config file")
	flagDebug    = flag.Bool("debug", false, "Enable debug logging")
	flagLogLevel = flag.String("log-level", "", "Log level (debug, info, warn, error)")
	flagWide     = flag.Bool("wide", false, "Decode table strings as UTF-16LE")
	flagLang     = flag.String("lang", "", "Preferred string table language")
)

// ParseFlags parses command-line flags. Call this early in main().
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
	if *flagLogLevel != "" {
		cfg.Logging.Level = *flagLogLevel
	}
	if *flagWide {
		cfg.Data.WideStrings = true
	}
	if *flagLang != "" {
		cfg.Data.Language = *flagLang
	}
}
