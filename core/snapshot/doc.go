// Package snapshot maintains one signed list per dataset type.
//
// A signed list is the serialized listing of a type together with its hash
// and, when signing is enabled, a signature over that hash. Clients fetch
// the list and verify the signature instead of trusting each record.
//
// Cache.UpdateListing and Cache.UpdateRaw recompute the hash of the current
// listing and touch the repository only when it changed:
//
//   - no stored list: create it
//   - stored hash differs: replace hash, signature and raw data
//   - stored hash equal: do nothing (no re-signing)
//
// A Publisher, when configured, mirrors every written list to object
// storage. Publish failures are logged and do not fail the update.
package snapshot
