// Package hash computes the content hashes that identify dataset items and
// signed lists.
//
// Every hash is the SHA-256 digest of the raw payload rendered as lowercase
// hex. The rendering is always exactly 64 characters wide, so hashes can be
// compared as plain strings and used as primary keys.
//
// # Usage
//
//	h := hash.SumString(rawJSON)
//	if !hash.Valid(h) {
//	    // never happens for Sum output
//	}
package hash
