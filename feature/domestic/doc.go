// Package domestic serves the domestic rules kept in object storage.
//
// Each object under the configured prefix is a JSON document with the keys
// identifier, region, version and raw_data. raw_data is either the rule as
// a string or the rule object itself. Objects missing a key or failing to
// parse are logged and skipped.
//
// The rules are held in memory and reloaded by the download job; the signed
// list is persisted like the other types. Routes mirror the rules feature
// under /bnrules.
package domestic
