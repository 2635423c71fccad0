// Package server holds the HTTP server configuration.
//
// The Config struct defines the HTTP port, the operator API key, whether the
// test API is exposed and how long graceful shutdown may take. The start
// command validates it before listening.
package server
