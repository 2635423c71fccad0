package domestic

// Config holds configuration for the domestic rules.
type Config struct {
	// Enabled turns the domestic rules on.
	Enabled bool `mapstructure:"enabled" default:"false"`
	// Prefix is the object key prefix of the rule sources in the bucket.
	Prefix string `mapstructure:"prefix" default:"domestic/"`
	// MaxObjectBytes caps a single rule source.
	MaxObjectBytes int64 `mapstructure:"max_object_bytes" default:"1048576"`
}
