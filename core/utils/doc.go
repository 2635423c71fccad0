// Package utils provides helpers for reading loosely typed JSON documents,
// such as the domestic rule sources kept in object storage.
package utils
