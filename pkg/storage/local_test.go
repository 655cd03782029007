package storage

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestStore(t *testing.T) *LocalStore {
	t.Helper()
	store, err := NewLocalStore(t.TempDir(), "http://localhost:3000/uploads")
	assert.NoError(t, err)
	return store
}

func TestLocalStoreRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	err := store.Upload(ctx, "notebook-1/report.pdf", bytes.NewBufferString("pdf bytes"))
	assert.NoError(t, err)

	rc, err := store.Read(ctx, "notebook-1/report.pdf")
	assert.NoError(t, err)
	data, err := io.ReadAll(rc)
	rc.Close()
	assert.NoError(t, err)
	assert.Equal(t, "pdf bytes", string(data))

	err = store.Delete(ctx, "notebook-1/report.pdf")
	assert.NoError(t, err)

	_, err = store.Read(ctx, "notebook-1/report.pdf")
	assert.Error(t, err)
}

func TestLocalStoreUploadOverwrites(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	assert.NoError(t, store.Upload(ctx, "key.txt", strings.NewReader("first")))
	assert.NoError(t, store.Upload(ctx, "key.txt", strings.NewReader("second")))

	rc, err := store.Read(ctx, "key.txt")
	assert.NoError(t, err)
	data, _ := io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "second", string(data))
}

func TestLocalStoreDeleteMissingKeyIsNotAnError(t *testing.T) {
	store := newTestStore(t)

	err := store.Delete(context.Background(), "never-uploaded.txt")

	assert.NoError(t, err)
}

func TestLocalStoreRejectsTraversalKeys(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	cases := []string{
		"",
		"..",
		"../escape.txt",
		"dir/../../escape.txt",
		"/etc/passwd",
	}
	for _, key := range cases {
		err := store.Upload(ctx, key, strings.NewReader("x"))
		assert.Error(t, err, "key %q should be rejected", key)
	}
}

func TestLocalStorePublicURL(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "http://localhost:3000/uploads/")
	assert.NoError(t, err)

	assert.Equal(t, "http://localhost:3000/uploads/nb/file.pdf", store.PublicURL("nb/file.pdf"))
}
