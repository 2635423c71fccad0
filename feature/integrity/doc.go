// Package integrity checks that the infrastructure the service depends on
// matches what the code expects.
//
// # Checks Provided
//
//   - Schema: compares the service's gorm models (dataset tables, signed
//     lists, country list, lock table) with the live columns.
//   - Storage: checks that the bucket exists and holds the configured
//     prefixes. Only available with object storage enabled.
//
// # HTTP Endpoints
//
// All endpoints require the API key.
//
//   - GET /integrity : Runs all checks.
//   - GET /integrity/schema : Runs the schema check.
//   - GET /integrity/storage : Runs the storage check (supports ?fix=true).
package integrity
