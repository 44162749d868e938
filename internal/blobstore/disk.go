package blobstore

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

const (
	diskStoreDirPerm  = 0700
	diskStoreFilePerm = 0600
)

// DiskStore keeps every blob as a plain file under dir, named after the
// key. It is the default backend for the snapshot data file.
type DiskStore struct {
	dir string
}

func NewDiskStore(dir string) *DiskStore {
	return &DiskStore{dir: dir}
}

func (s *DiskStore) Get(k Key) (Value, error) {
	b, err := os.ReadFile(s.pathFor(k))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%q: %w", k, ErrNotFound)
	}
	return b, err
}

func (s *DiskStore) Put(k Key, v Value) error {
	p := s.pathFor(k)
	err := os.WriteFile(p, v, diskStoreFilePerm)
	if err != nil {
		if !os.IsNotExist(err) {
			return err
		}
		if err = os.MkdirAll(filepath.Dir(p), diskStoreDirPerm); err != nil {
			return err
		}
		return os.WriteFile(p, v, diskStoreFilePerm)
	}
	return nil
}

func (s *DiskStore) Delete(k Key) error {
	err := os.Remove(s.pathFor(k))
	if os.IsNotExist(err) {
		return errors.Wrapf(ErrNotFound, "could not delete %v", k)
	}
	return err
}

func (s *DiskStore) pathFor(key Key) string {
	if filepath.IsAbs(string(key)) {
		return string(key)
	}
	return filepath.Join(s.dir, string(key))
}
