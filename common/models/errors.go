package models

import "errors"

// ErrNotFound is returned when the discussion service has no record for a number
var ErrNotFound = errors.New("discussion not found")
