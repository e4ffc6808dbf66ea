// Package stowage provides a small asynchronous abstraction over object
// storage backends, exposing stored files as lightweight handles bound to a
// configured backend.
//
// A Storage implementation knows how to name, size, locate, read, write,
// and delete objects. Application code works with File and Image handles,
// which delegate every operation to the backend they are bound to. The
// sqlfile subpackage bridges handles across a database column so models can
// persist plain string keys while callers see rich handles.
//
// # Key Components
//
//   - Storage: the capability contract every backend implements
//   - File / Image: user-facing handles binding a key to a backend
//   - s3: S3-compatible backend built on minio-go
//   - filesystem: local sandboxed backend for development and tests
//   - sqlfile: database/sql column adapter materializing handles from rows
//
// # Example Usage
//
//	backend, err := s3.New(s3.Config{
//	    Bucket:    "media",
//	    Endpoint:  "s3.example.com",
//	    AccessKey: "AKIA...",
//	    SecretKey: "...",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	f := stowage.NewFile("uploads/report.pdf", backend)
//	url, err := f.Locate(ctx)
//
// Backends are immutable after construction and safe to share between
// goroutines. Handles own no remote state: discarding a handle value does
// not delete the remote object.
//
// See the http package for a minimal REST gateway over a backend and the
// config package for viper-based backend construction.
package stowage
