// Package loader provides the plugin-like feature loading system.
//
// Each feature implements the Feature interface. Features with startup work
// also implement Initializer, features with periodic synchronization jobs
// implement Scheduled.
//
// # Feature Interface
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(app fiber.Router) error
//	}
//
// # Manager
//
// The Manager struct holds the registry of available features. It handles:
//   - Registration of features via Register()
//   - Startup work of enabled features via InitAll()
//   - Route registration of enabled features via LoadAll()
//   - Collection of scheduler jobs via Jobs()
package loader
