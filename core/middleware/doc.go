// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - Auth: API key validation for operator endpoints (test API, integrity).
//     The public read API stays open.
//   - RayID: Generates a unique request id (RayID) for every incoming request,
//     stores it in the context locals and echoes it in the X-Ray-ID header.
package middleware
