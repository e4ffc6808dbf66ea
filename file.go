package stowage

import (
	"context"
	"fmt"
	"image"
	"io"
	"sync/atomic"

	// Registered decoders for Image dimension resolution.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// File is a handle binding a storage key to a backend. The key is immutable
// and the backend reference is non-owning: every method is a delegation to
// the bound Storage with the handle's name supplied as the key.
type File struct {
	name    string
	storage Storage
}

// NewFile returns a handle for name bound to storage. The storage may be
// nil when the handle is materialized before the backend is wired up; any
// operation on such a handle fails with ErrBackend.
func NewFile(name string, storage Storage) *File {
	return &File{name: name, storage: storage}
}

// Name returns the storage key this handle is bound to.
func (f *File) Name() string {
	return f.name
}

func (f *File) backend() (Storage, error) {
	if f.storage == nil {
		return nil, fmt.Errorf("file %q: no storage bound: %w", f.name, ErrBackend)
	}
	return f.storage, nil
}

// Size returns the object size in bytes, 0 if it does not exist.
func (f *File) Size(ctx context.Context) (int64, error) {
	s, err := f.backend()
	if err != nil {
		return 0, err
	}
	return s.Size(ctx, f.name)
}

// Locate returns a reachable URL for the object.
func (f *File) Locate(ctx context.Context) (string, error) {
	s, err := f.backend()
	if err != nil {
		return "", err
	}
	return s.Locate(ctx, f.name)
}

// Open returns the full object body as an in-memory stream at offset 0.
func (f *File) Open(ctx context.Context) (io.ReadSeekCloser, error) {
	s, err := f.backend()
	if err != nil {
		return nil, err
	}
	return s.Open(ctx, f.name)
}

// Upload writes content under this handle's name and returns the key
// actually stored.
func (f *File) Upload(ctx context.Context, content io.ReadSeeker) (string, error) {
	s, err := f.backend()
	if err != nil {
		return "", err
	}
	return s.Upload(ctx, content, f.name)
}

// Delete removes the object. Deleting a missing object succeeds.
func (f *File) Delete(ctx context.Context) error {
	s, err := f.backend()
	if err != nil {
		return err
	}
	return s.Delete(ctx, f.name)
}

type dimensions struct {
	width  int
	height int
}

// Image is a File whose pixel dimensions are resolved lazily. The cache
// transitions from unloaded to loaded exactly once; redundant concurrent
// loads repeat the fetch and publish equal values, so no lock is held.
type Image struct {
	File
	dims atomic.Pointer[dimensions]
}

// NewImage returns an image handle with unknown dimensions. The first call
// to Dimensions fetches and decodes the object.
func NewImage(name string, storage Storage) *Image {
	return &Image{File: File{name: name, storage: storage}}
}

// NewImageWithSize returns an image handle with pre-supplied dimensions.
// The handle starts loaded only when both width and height are non-zero;
// otherwise it behaves like NewImage.
func NewImageWithSize(name string, storage Storage, width, height int) *Image {
	img := NewImage(name, storage)
	if width != 0 && height != 0 {
		img.dims.Store(&dimensions{width: width, height: height})
	}
	return img
}

// Dimensions returns the pixel width and height of the image.
//
// On first use it opens the underlying object, decodes the image header,
// and caches the result; subsequent calls are served from the cache with no
// I/O. It fails with ErrDecode if the bytes are not a decodable image, or
// propagates the backend's ErrNotFound/ErrBackend if the object cannot be
// fetched.
func (img *Image) Dimensions(ctx context.Context) (width, height int, err error) {
	if d := img.dims.Load(); d != nil {
		return d.width, d.height, nil
	}

	body, err := img.Open(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("dimensions %q: %w", img.name, err)
	}
	defer func() { _ = body.Close() }()

	cfg, _, decodeErr := image.DecodeConfig(body)
	if decodeErr != nil {
		return 0, 0, fmt.Errorf("dimensions %q: %w: %s", img.name, ErrDecode, decodeErr)
	}

	d := &dimensions{width: cfg.Width, height: cfg.Height}
	img.dims.Store(d)
	return d.width, d.height, nil
}
