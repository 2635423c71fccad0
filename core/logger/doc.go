// Package logger builds the application's zap logger.
//
// Level "debug" selects zap's development configuration, any other level
// the production one. Format selects console or JSON encoding; the level,
// time and message keys are fixed so log shipping stays stable.
//
// Two helpers tag loggers with request or cycle context:
//
//   - WithRayID adds the ray_id set by the rayid middleware.
//   - WithCorrelationID adds a fresh correlation_id for one sync cycle.
package logger
