package stowage

import (
	"context"
	"io"
)

// Storage defines the capability contract every object storage backend
// implements. Implementations must be immutable after construction and safe
// for concurrent use.
//
// All methods except Sanitize accept a context for cancellation and timeout
// control; they may suspend on network I/O. No method retries: transient
// faults propagate to the caller for handling.
type Storage interface {
	// Sanitize normalizes a caller-supplied name into a safe storage key.
	// It performs no I/O and returns ErrInvalidKey when the name
	// normalizes to nothing usable.
	Sanitize(name string) (string, error)

	// Size returns the size of the object in bytes. A missing object is
	// not an error: Size returns 0 for keys that do not exist. Any other
	// provider fault is reported as ErrBackend.
	Size(ctx context.Context, key string) (int64, error)

	// Locate produces a reachable URL for the object. It performs no I/O
	// unless the backend is configured to presign URLs.
	Locate(ctx context.Context, key string) (string, error)

	// Open fetches the full object body and returns an in-memory stream
	// positioned at offset 0. It returns ErrNotFound when the object does
	// not exist and ErrBackend on any other provider fault.
	//
	// The caller is responsible for closing the returned stream.
	Open(ctx context.Context, key string) (io.ReadSeekCloser, error)

	// Upload writes content under the sanitized form of name, overwriting
	// any existing object. The content is rewound to its start and fully
	// read; the content type is inferred from the key's extension, falling
	// back to application/octet-stream. Upload returns the key actually
	// written, which is not necessarily identical to name.
	Upload(ctx context.Context, content io.ReadSeeker, name string) (string, error)

	// Delete removes the object. Deleting a key that does not exist is a
	// success, not an error.
	Delete(ctx context.Context, key string) error
}
