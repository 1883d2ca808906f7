package config

import "flag"

var (
	flagVerbose  = flag.Bool("verbose", false, "Enable debug logging")
	flagOutput   = flag.String("output", "", "Override output filename")
	flagFormat   = flag.String("format", "", "Override output format (stl, 3mf, obj)")
	flagNoCache  = flag.Bool("no-cache", false, "Disable elevation data caching")
	flagPreview  = flag.Bool("preview", false, "Generate PNG preview of the terrain model")
	flagAPIKey   = flag.String("google-api-key", "", "Google Maps API key (or GOOGLE_MAPS_API_KEY)")
	flagCacheOp  = flag.String("cache", "", "Cache maintenance: 'clear' or 'info'")
	flagLogLevel = flag.String("log-level", "", "Log level (debug, info, warn, error)")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the positional config file argument, if any.
func ConfigPath() string {
	return flag.Arg(0)
}

// APIKey returns the Google API key flag value.
func APIKey() string {
	return *flagAPIKey
}

// Preview reports whether a preview image was requested.
func Preview() bool {
	return *flagPreview
}

// CacheOp returns the requested cache maintenance operation, if any.
func CacheOp() string {
	return *flagCacheOp
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagVerbose {
		cfg.Logging.Level = "debug"
	}
	if *flagLogLevel != "" {
		cfg.Logging.Level = *flagLogLevel
	}
	if *flagOutput != "" {
		cfg.Output.Filename = *flagOutput
	}
	if *flagFormat != "" {
		cfg.Output.Format = *flagFormat
	}
	if *flagNoCache {
		cfg.Cache.Enabled = false
	}
}
