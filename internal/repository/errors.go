package repository

import "errors"

// ErrNotFound is wrapped by every lookup that matches no row.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when a row with the same key already exists.
var ErrDuplicate = errors.New("already exists")
