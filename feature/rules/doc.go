// Package rules serves the business rules downloaded from the gateway.
//
// # Routes
//
//   - GET /rules : signed list of every rule, signature in X-SIGNATURE.
//   - GET /rules/:country : listing of one country.
//   - GET /rules/:country/:hash : raw rule JSON, signature in X-SIGNATURE.
//   - POST /rules : test API, saves a rule directly. Headers X_COUNTRY,
//     X_ID and X_VER carry the metadata, the body is the rule JSON.
//
// The handler is shared with the domestic rules, which mount it under
// /bnrules.
package rules
