package directory

import "time"

// DirectoryConfig holds configuration for the Directory module.
type DirectoryConfig struct {
	// Passphrase derives the key that seals router credentials at rest.
	// Changing it after records exist makes them unreadable.
	Passphrase string `mapstructure:"passphrase"`

	ProbeTimeout time.Duration `mapstructure:"probe_timeout"`
	ProbeCount   int           `mapstructure:"probe_count"`
}

// DefaultConfig returns the default Directory configuration.
func DefaultConfig() DirectoryConfig {
	return DirectoryConfig{
		ProbeTimeout: 3 * time.Second,
		ProbeCount:   3,
	}
}
