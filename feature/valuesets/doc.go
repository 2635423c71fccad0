// Package valuesets serves the value sets downloaded from the gateway.
//
// GET /valuesets returns the signed list of value set ids and hashes, GET
// /valuesets/:hash a single value set. Both carry X-SIGNATURE when a signer
// is configured.
package valuesets
