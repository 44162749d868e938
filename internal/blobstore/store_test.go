package blobstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	s, err := New(KindNull, "", S3Config{})
	require.NoError(t, err)
	assert.IsType(t, NullStore{}, s)

	s, err = New(KindDisk, t.TempDir(), S3Config{})
	require.NoError(t, err)
	assert.IsType(t, &DiskStore{}, s)

	_, err = New(Kind("carrier-pigeon"), "", S3Config{})
	assert.ErrorIs(t, err, ErrNotImplemented)
}

func TestNullStore(t *testing.T) {
	var s NullStore
	require.NoError(t, s.Put("k", Value("v")))
	_, err := s.Get("k")
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, s.Delete("k"))
}
