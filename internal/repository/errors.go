// Package repository implements data access for the back-office tables.
// Sentinel errors defined here let handlers translate failure scenarios to
// HTTP status codes without inspecting driver errors.
package repository

import "errors"

// ErrNotFound is returned when a row is absent or soft-deleted. Handlers
// should translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrNoChange is returned when an update matched no live row, typically
// because a concurrent soft delete raced in between read and write.
var ErrNoChange = errors.New("no change")

// ErrEmailExists is returned when registering a user with an email that is
// already taken.
var ErrEmailExists = errors.New("email already exists")
