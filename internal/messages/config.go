package messages

// Config messages for configuration loading and validation.
const (
	// ConfigHomeDirFmt formats home directory lookup errors.
	ConfigHomeDirFmt       = "resolve home directory: %w"
	ConfigExpandRootFmt    = "expand %s %q: %w"
	ConfigLoadDefaultsFmt  = "load default config: %w"
	ConfigInvalidConfigFmt = "invalid config %s: %w"
	ConfigLoadEnvFmt       = "load %s* environment: %w"
	ConfigDecodeFmt        = "decode config: %w"
	ConfigEncodeFmt        = "encode config: %w"
	ConfigEmptyBinaries    = "binaries must list at least one binary name"
	ConfigInvalidBinaryFmt = "binaries: invalid binary name %q"
	ConfigNegativeFmt      = "%s must be >= 0, got %v"
	ConfigNonPositiveFmt   = "%s must be > 0, got %v"
	ConfigInvalidURLFmt    = "%s must be an http(s) URL, got %q"
	ConfigLoadedFmt        = "loaded config from %s"
)
