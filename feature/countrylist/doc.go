// Package countrylist stores and serves the list of onboarded countries.
//
// The list is a single record holding the raw JSON array, its hash and its
// signature. An update with an identical payload is a no-op; any other
// update replaces the record and refreshes the country list's signed list.
// Before the first download the list is served as "[]".
package countrylist
