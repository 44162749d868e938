package blobstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestS3Store_RejectsEmptyKey(t *testing.T) {
	s := newS3Store(S3Config{Profile: "default", Region: "us-east-1", Bucket: "snapshots"})

	_, err := s.Get("")
	assert.ErrorIs(t, err, ErrNotFound)

	err = s.Put("", Value("x"))
	assert.ErrorIs(t, err, ErrNotFound)

	err = s.Delete("")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestS3Store_RejectsMissingBucket(t *testing.T) {
	s := newS3Store(S3Config{Profile: "default", Region: "us-east-1"})

	_, err := s.Get("snapshot.bin")
	assert.ErrorIs(t, err, ErrNotImplemented)
}
