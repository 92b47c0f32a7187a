// Package repository implements the storage layer over database/sql. The
// sentinel errors below let handlers distinguish the failure cases the API
// reports differently: absent records versus unique-constraint violations
// versus generic faults.
package repository

import "errors"

// ErrUserNotFound is returned when a user lookup matches no row.
var ErrUserNotFound = errors.New("user not found")

// ErrPostNotFound is returned when a post lookup matches no row.
var ErrPostNotFound = errors.New("post not found")

// ErrDuplicate is returned when an insert or update violates a unique index
// (username or email). The database constraint is the authoritative
// uniqueness check; any pre-select in a handler is only an optimization.
var ErrDuplicate = errors.New("duplicate unique key")
