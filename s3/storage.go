// Package s3 implements the stowage.Storage contract against any
// S3-compatible object store (AWS S3, MinIO, ArvanCloud, ...) using the
// minio-go client.
//
// A fresh provider client is acquired for each operation and scoped to that
// call. This trades per-call connection setup for freedom from shared-client
// lifecycle bugs; the backend itself stays immutable and trivially shareable.
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/sagarc03/stowage"
)

// DefaultPresignExpiry is the validity window of presigned URLs when the
// config does not set one.
const DefaultPresignExpiry = time.Hour

// Config holds the immutable connection profile for an S3-compatible
// backend.
type Config struct {
	// Bucket is the bucket or container name.
	Bucket string
	// Endpoint is the provider host, optionally with port, and must not
	// include a protocol prefix ("s3.example.com:9000", not
	// "https://s3.example.com:9000").
	Endpoint string
	// AccessKey and SecretKey are the provider credentials.
	AccessKey string
	SecretKey string
	// Region is optional; most S3-compatible providers infer it.
	Region string
	// Insecure switches object URLs and provider traffic to plain HTTP.
	// The default is TLS.
	Insecure bool
	// DefaultACL, when set, is applied to every uploaded object
	// (e.g. "public-read").
	DefaultACL string
	// CustomDomain, when set, makes Locate build static URLs on this
	// domain (e.g. a CDN front) instead of the provider endpoint.
	CustomDomain string
	// Presign makes Locate request time-limited signed URLs from the
	// provider instead of static ones. Ignored when CustomDomain is set.
	Presign bool
	// PresignExpiry overrides DefaultPresignExpiry.
	PresignExpiry time.Duration
}

// Storage is an S3-compatible stowage.Storage. Construct with New; the zero
// value is not usable.
type Storage struct {
	cfg    Config
	scheme string
}

var _ stowage.Storage = (*Storage)(nil)

// New validates cfg and returns a ready backend. It fails fast when the
// endpoint carries a protocol prefix or a required field is missing; no
// network I/O happens here.
func New(cfg Config) (*Storage, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3: bucket name is required")
	}
	if cfg.Endpoint == "" {
		return nil, errors.New("s3: endpoint is required")
	}
	if strings.HasPrefix(cfg.Endpoint, "http") {
		return nil, fmt.Errorf("s3: endpoint %q must not contain a protocol", cfg.Endpoint)
	}

	cfg.Endpoint = strings.TrimRight(cfg.Endpoint, "/")
	if cfg.PresignExpiry <= 0 {
		cfg.PresignExpiry = DefaultPresignExpiry
	}

	scheme := "https"
	if cfg.Insecure {
		scheme = "http"
	}

	return &Storage{cfg: cfg, scheme: scheme}, nil
}

// client builds a provider client for a single call.
func (s *Storage) client() (*minio.Client, error) {
	c, err := minio.New(s.cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(s.cfg.AccessKey, s.cfg.SecretKey, ""),
		Secure: !s.cfg.Insecure,
		Region: s.cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("s3 client: %w: %s", stowage.ErrBackend, err)
	}
	return c, nil
}

// Sanitize normalizes name with stowage.SecureKey.
func (s *Storage) Sanitize(name string) (string, error) {
	return stowage.SecureKey(name)
}

// Size returns the object size from a metadata-only request. Provider
// not-found responses, whether signaled by error code or HTTP 404, are
// normalized to 0.
func (s *Storage) Size(ctx context.Context, key string) (int64, error) {
	key, err := s.Sanitize(key)
	if err != nil {
		return 0, err
	}

	c, err := s.client()
	if err != nil {
		return 0, err
	}

	info, err := c.StatObject(ctx, s.cfg.Bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if isNotFound(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("size %q: %w: %s", key, stowage.ErrBackend, err)
	}

	return info.Size, nil
}

// Locate resolves a URL for key, first match wins:
//
//  1. custom domain configured: {scheme}://{domain}/{key}, static
//  2. presign enabled: provider-signed URL, valid for PresignExpiry
//  3. otherwise: {scheme}://{endpoint}/{bucket}/{key}, static
//
// Only the presigned path talks to the provider signing machinery.
func (s *Storage) Locate(ctx context.Context, key string) (string, error) {
	if s.cfg.CustomDomain != "" {
		return fmt.Sprintf("%s://%s/%s", s.scheme, s.cfg.CustomDomain, key), nil
	}

	if s.cfg.Presign {
		c, err := s.client()
		if err != nil {
			return "", err
		}
		u, err := c.PresignedGetObject(ctx, s.cfg.Bucket, key, s.cfg.PresignExpiry, nil)
		if err != nil {
			return "", fmt.Errorf("locate %q: %w: %s", key, stowage.ErrBackend, err)
		}
		return u.String(), nil
	}

	return fmt.Sprintf("%s://%s/%s/%s", s.scheme, s.cfg.Endpoint, s.cfg.Bucket, key), nil
}

// Open fetches the full object body into memory and returns a stream at
// offset 0. A missing object is ErrNotFound; everything else is ErrBackend.
func (s *Storage) Open(ctx context.Context, key string) (io.ReadSeekCloser, error) {
	key, err := s.Sanitize(key)
	if err != nil {
		return nil, err
	}

	c, err := s.client()
	if err != nil {
		return nil, err
	}

	obj, err := c.GetObject(ctx, s.cfg.Bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("open %q: %w: %s", key, stowage.ErrBackend, err)
	}
	defer func() { _ = obj.Close() }()

	// GetObject defers the request; faults surface on first read.
	data, err := io.ReadAll(obj)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("open %q: %w", key, stowage.ErrNotFound)
		}
		return nil, fmt.Errorf("open %q: %w: %s", key, stowage.ErrBackend, err)
	}

	return &byteStream{bytes.NewReader(data)}, nil
}

// Upload rewinds content, infers the content type from the key extension,
// applies the configured default ACL if any, and writes the whole object.
// It returns the sanitized key actually written.
func (s *Storage) Upload(ctx context.Context, content io.ReadSeeker, name string) (string, error) {
	key, err := s.Sanitize(name)
	if err != nil {
		return "", err
	}

	size, err := content.Seek(0, io.SeekEnd)
	if err != nil {
		return "", fmt.Errorf("upload %q: measure content: %w", key, err)
	}
	if _, err := content.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("upload %q: rewind content: %w", key, err)
	}

	opts := minio.PutObjectOptions{ContentType: detectContentType(key)}
	if s.cfg.DefaultACL != "" {
		opts.UserMetadata = map[string]string{"x-amz-acl": s.cfg.DefaultACL}
	}

	c, err := s.client()
	if err != nil {
		return "", err
	}

	if _, err := c.PutObject(ctx, s.cfg.Bucket, key, content, size, opts); err != nil {
		return "", fmt.Errorf("upload %q: %w: %s", key, stowage.ErrBackend, err)
	}

	return key, nil
}

// Delete removes the object. A not-found response counts as success, so
// Delete is idempotent.
func (s *Storage) Delete(ctx context.Context, key string) error {
	c, err := s.client()
	if err != nil {
		return err
	}

	if err := c.RemoveObject(ctx, s.cfg.Bucket, key, minio.RemoveObjectOptions{}); err != nil {
		if isNotFound(err) {
			return nil
		}
		return fmt.Errorf("delete %q: %w: %s", key, stowage.ErrBackend, err)
	}

	return nil
}

// isNotFound reports whether err is a provider "object absent" response,
// by error code or by HTTP status.
func isNotFound(err error) bool {
	resp := minio.ToErrorResponse(err)
	switch resp.Code {
	case "NoSuchKey", "NotFound":
		return true
	}
	return resp.StatusCode == http.StatusNotFound
}

func detectContentType(key string) string {
	if ct := mime.TypeByExtension(filepath.Ext(key)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// byteStream adapts a bytes.Reader to io.ReadSeekCloser.
type byteStream struct {
	*bytes.Reader
}

func (*byteStream) Close() error { return nil }
