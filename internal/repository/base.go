// Package repository implements the data access layer for the application.
package repository

import "strings"

// isUniqueConstraintError detects duplicate-key failures across the postgres
// driver and the sqlite driver used in tests.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "SQLSTATE 23505")
}
