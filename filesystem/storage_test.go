package filesystem_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagarc03/stowage"
	"github.com/sagarc03/stowage/filesystem"
)

func newStorage(t *testing.T) *filesystem.Storage {
	t.Helper()
	root, err := os.OpenRoot(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = root.Close() })
	return filesystem.New(root, "http://localhost:5710/files/")
}

func TestStorage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	storage := newStorage(t)
	content := []byte("hello from the filesystem backend")

	key, err := storage.Upload(ctx, bytes.NewReader(content), "uploads/greeting.txt")
	require.NoError(t, err)
	assert.Equal(t, "uploads/greeting.txt", key)

	n, err := storage.Size(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, int64(len(content)), n)

	body, err := storage.Open(ctx, key)
	require.NoError(t, err)
	defer func() { _ = body.Close() }()

	got, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, content, got)

	require.NoError(t, storage.Delete(ctx, key))

	n, err = storage.Size(ctx, key)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestStorage_UploadSanitizesName(t *testing.T) {
	ctx := context.Background()
	storage := newStorage(t)

	key, err := storage.Upload(ctx, bytes.NewReader([]byte("x")), "../../weird ../file name.txt")
	require.NoError(t, err)
	assert.Equal(t, "weird/file_name.txt", key)

	n, err := storage.Size(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestStorage_UploadRewindsContent(t *testing.T) {
	ctx := context.Background()
	storage := newStorage(t)

	content := bytes.NewReader([]byte("full body"))
	_, err := content.Seek(5, io.SeekStart)
	require.NoError(t, err)

	key, err := storage.Upload(ctx, content, "a.txt")
	require.NoError(t, err)

	n, err := storage.Size(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, int64(9), n)
}

func TestStorage_UploadOverwrite(t *testing.T) {
	ctx := context.Background()
	storage := newStorage(t)

	_, err := storage.Upload(ctx, bytes.NewReader([]byte("first")), "a.txt")
	require.NoError(t, err)
	_, err = storage.Upload(ctx, bytes.NewReader([]byte("second version")), "a.txt")
	require.NoError(t, err)

	body, err := storage.Open(ctx, "a.txt")
	require.NoError(t, err)
	defer func() { _ = body.Close() }()

	got, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "second version", string(got))
}

func TestStorage_OpenMissing(t *testing.T) {
	storage := newStorage(t)

	_, err := storage.Open(context.Background(), "never-written.txt")
	assert.ErrorIs(t, err, stowage.ErrNotFound)
}

func TestStorage_DeleteMissing(t *testing.T) {
	storage := newStorage(t)
	assert.NoError(t, storage.Delete(context.Background(), "never-written.txt"))
}

func TestStorage_InvalidKey(t *testing.T) {
	ctx := context.Background()
	storage := newStorage(t)

	_, err := storage.Upload(ctx, bytes.NewReader(nil), "..")
	assert.ErrorIs(t, err, stowage.ErrInvalidKey)

	_, err = storage.Size(ctx, "///")
	assert.ErrorIs(t, err, stowage.ErrInvalidKey)

	_, err = storage.Open(ctx, "")
	assert.ErrorIs(t, err, stowage.ErrInvalidKey)
}

func TestStorage_Locate(t *testing.T) {
	storage := newStorage(t)

	loc, err := storage.Locate(context.Background(), "uploads/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5710/files/uploads/a.txt", loc)
}

func TestStorage_CancelledContext(t *testing.T) {
	storage := newStorage(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := storage.Size(ctx, "a.txt")
	assert.ErrorIs(t, err, context.Canceled)
}
