package server

import (
	"fmt"
	"strconv"
	"time"
)

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required by operator endpoints.
	ApiKey string `mapstructure:"api_key" default:""`
	// TestAPI exposes the direct-save endpoints (POST /rules, POST /countrylist).
	TestAPI bool `mapstructure:"test_api" default:"false"`
	// ShutdownTimeout bounds the graceful shutdown.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" default:"10s"`
	// Swagger serves the API documentation under /swagger.
	Swagger bool `mapstructure:"swagger" default:"true"`
}

// Address returns the listen address.
func (c Config) Address() string {
	return ":" + c.Port
}

// Validate checks that the port is usable.
func (c Config) Validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("invalid server port %q", c.Port)
	}
	return nil
}
