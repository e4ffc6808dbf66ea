package e2e_test

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagarc03/stowage"
	"github.com/sagarc03/stowage/s3"
)

func newS3Backend(t *testing.T) *s3.Storage {
	t.Helper()
	backend, err := s3.New(sharedMinioConfig(t))
	require.NoError(t, err)
	return backend
}

func TestS3_UploadThenSize(t *testing.T) {
	ctx := context.Background()
	backend := newS3Backend(t)
	content := []byte("some object body of a known size")

	key, err := backend.Upload(ctx, bytes.NewReader(content), uniqueKey("report.pdf"))
	require.NoError(t, err)

	n, err := backend.Size(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, int64(len(content)), n)
}

func TestS3_UploadThenOpen(t *testing.T) {
	ctx := context.Background()
	backend := newS3Backend(t)
	content := []byte("round-trip body, byte for byte")

	key, err := backend.Upload(ctx, bytes.NewReader(content), uniqueKey("body.bin"))
	require.NoError(t, err)

	body, err := backend.Open(ctx, key)
	require.NoError(t, err)
	defer func() { _ = body.Close() }()

	got, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, content, got)

	// The returned stream is seekable from offset 0.
	off, err := body.Seek(0, io.SeekStart)
	require.NoError(t, err)
	assert.Zero(t, off)
}

func TestS3_UploadRewindsContent(t *testing.T) {
	ctx := context.Background()
	backend := newS3Backend(t)

	content := bytes.NewReader([]byte("full body"))
	_, err := content.Seek(4, io.SeekStart)
	require.NoError(t, err)

	key, err := backend.Upload(ctx, content, uniqueKey("a.txt"))
	require.NoError(t, err)

	n, err := backend.Size(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, int64(9), n)
}

func TestS3_SizeOfMissingObject(t *testing.T) {
	backend := newS3Backend(t)

	n, err := backend.Size(context.Background(), uniqueKey("never-written.txt"))
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestS3_OpenMissingObject(t *testing.T) {
	backend := newS3Backend(t)

	_, err := backend.Open(context.Background(), uniqueKey("never-written.txt"))
	assert.ErrorIs(t, err, stowage.ErrNotFound)
}

func TestS3_DeleteRemovesObject(t *testing.T) {
	ctx := context.Background()
	backend := newS3Backend(t)

	key, err := backend.Upload(ctx, bytes.NewReader([]byte("x")), uniqueKey("a.txt"))
	require.NoError(t, err)

	require.NoError(t, backend.Delete(ctx, key))

	n, err := backend.Size(ctx, key)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestS3_DeleteMissingObject(t *testing.T) {
	backend := newS3Backend(t)
	assert.NoError(t, backend.Delete(context.Background(), uniqueKey("never-written.txt")))
}

func TestS3_PresignedURLIsFetchable(t *testing.T) {
	ctx := context.Background()
	cfg := sharedMinioConfig(t)
	cfg.Presign = true
	backend, err := s3.New(cfg)
	require.NoError(t, err)

	content := []byte("served through a signed URL")
	key, err := backend.Upload(ctx, bytes.NewReader(content), uniqueKey("signed.txt"))
	require.NoError(t, err)

	url, err := backend.Locate(ctx, key)
	require.NoError(t, err)

	resp, err := http.Get(url)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	got, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestS3_ImageDimensions(t *testing.T) {
	ctx := context.Background()
	backend := newS3Backend(t)

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 640, 480))))

	key, err := backend.Upload(ctx, bytes.NewReader(buf.Bytes()), uniqueKey("pic.png"))
	require.NoError(t, err)

	img := stowage.NewImage(key, backend)
	w, h, err := img.Dimensions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 640, w)
	assert.Equal(t, 480, h)
}

func TestS3_HandleRoundTrip(t *testing.T) {
	ctx := context.Background()
	backend := newS3Backend(t)

	f := stowage.NewFile(uniqueKey("handle.txt"), backend)

	key, err := f.Upload(ctx, bytes.NewReader([]byte("via handle")))
	require.NoError(t, err)
	assert.Equal(t, f.Name(), key)

	n, err := f.Size(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(10), n)

	require.NoError(t, f.Delete(ctx))

	n, err = f.Size(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}
