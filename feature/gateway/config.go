package gateway

// Config holds configuration for the upstream gateway.
type Config struct {
	// Enabled turns the gateway downloads on.
	Enabled bool `mapstructure:"enabled" default:"true"`
	// BaseURL is the gateway root, e.g. https://gateway.example.org.
	BaseURL string `mapstructure:"base_url" default:"http://localhost:8090"`
	// TimeoutSeconds bounds every request.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// MaxConcurrency bounds parallel value set downloads.
	MaxConcurrency int `mapstructure:"max_concurrency" default:"4"`
	// MaxBodyBytes caps a single response body.
	MaxBodyBytes int64 `mapstructure:"max_body_bytes" default:"10485760"`
}
