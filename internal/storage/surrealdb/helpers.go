// Package surrealdb implements the storage contracts on SurrealDB.
package surrealdb

import (
	"strings"
)

// isNotFoundError reports whether a driver error only signals a missing
// record rather than a transport failure.
func isNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "not found") || strings.Contains(msg, "no record")
}

// recordKey builds a composite record id from its parts. The null byte
// separator prevents collisions when parts themselves contain "_".
func recordKey(parts ...string) string {
	return strings.Join(parts, "\x00")
}
