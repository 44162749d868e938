package blobstore

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskStore_GetPutDelete(t *testing.T) {
	store, clean := disposableDiskStore(t)
	defer clean()

	key := Key("snapshot.data")
	value := Value("some value")

	_, err := store.Get(key)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Put(key, value))
	actual, err := store.Get(key)
	require.NoError(t, err)
	assert.Equal(t, value, actual)

	require.NoError(t, store.Delete(key))
	_, err = store.Get(key)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDiskStore_DeleteMissing(t *testing.T) {
	store, clean := disposableDiskStore(t)
	defer clean()
	err := store.Delete(Key("never-existed"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func disposableDiskStore(t *testing.T) (store *DiskStore, cleanup func()) {
	dir, err := os.MkdirTemp("", "epictree-blobstore-")
	require.NoError(t, err)
	return NewDiskStore(dir), func() {
		assert.NoError(t, os.RemoveAll(dir))
	}
}
