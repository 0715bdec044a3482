// Package repository implements the Postgres-backed collaborator
// adapters: the people directory, the liturgical calendar feed, and the
// schedule store.
package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	ErrRowNotFound = errors.New("schedule row not found")
)
