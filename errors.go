package stowage

import "errors"

var (
	// ErrInvalidKey is returned when a name sanitizes to an empty key
	ErrInvalidKey = errors.New("invalid object key")
	// ErrNotFound is returned when an object does not exist
	ErrNotFound = errors.New("object not found")
	// ErrBackend is returned for any other provider-side fault
	ErrBackend = errors.New("storage backend error")
	// ErrDecode is returned when fetched bytes are not a decodable image
	ErrDecode = errors.New("undecodable image")
)
