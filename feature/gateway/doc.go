// Package gateway downloads the authoritative datasets from the upstream
// gateway.
//
// # Endpoints
//
//   - GET /countrylist : JSON array of country codes.
//   - GET /rules/{country} : JSON object mapping rule identifiers to lists of
//     rule versions. Each version carries a base64 CMS message whose
//     encapsulated content is the rule JSON.
//   - GET /valuesets : JSON array of value set ids.
//   - GET /valuesets/{id} : the value set JSON.
//
// The gateway signs the rule payloads; this package extracts the payload
// from the CMS envelope without checking the upstream signature. Items are
// hashed here and signed again by this service.
//
// Per-country and per-value-set failures are logged and skipped so one bad
// entry does not block a whole cycle. Failing to fetch the country list or
// the value set ids fails the cycle.
package gateway
