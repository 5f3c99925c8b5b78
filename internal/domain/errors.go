// Package domain provides shared domain-level sentinel errors.
package domain

import "errors"

// ErrNotFound indicates the requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrExists indicates an entity with the same identifier already exists.
var ErrExists = errors.New("already exists")
