package connect

// Row limit defaults mirror the service's own paging guidance.
const (
	defaultQueryLimit = 1000
	defaultMaxLimit   = 10000
)

// Config holds toolkit configuration.
type Config struct {
	DefaultLimit int  `yaml:"default_limit"`
	MaxLimit     int  `yaml:"max_limit"`
	ReadOnly     bool `yaml:"read_only"`
}

// applyDefaults fills unset limits.
func applyDefaults(cfg Config) Config {
	if cfg.DefaultLimit == 0 {
		cfg.DefaultLimit = defaultQueryLimit
	}
	if cfg.MaxLimit == 0 {
		cfg.MaxLimit = defaultMaxLimit
	}
	return cfg
}
