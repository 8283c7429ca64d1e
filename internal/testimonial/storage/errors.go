package storage

import "errors"

// ErrNoID indicates that the passed in ID is blank/uninitialized.
var ErrNoID = errors.New("can't store testimonial because ID is not set")
