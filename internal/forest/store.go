// Package forest implements the hierarchical store engine: the data
// model, the sort-position maintenance algorithm, path derivation, and
// the invariants tying nodes, parents, siblings, and materialized paths
// together. It never retries and signals outcomes via the sentinel
// errors in errors.go for the API Adapter to translate into HTTP status
// codes. Its only log output is the path index's warning when asked to
// remove an entry it does not hold.
package forest

import (
	"fmt"
	"sort"
	"sync"

	log "github.com/sirupsen/logrus"
)

// Store owns the tree -> segment -> node-id -> node map for the entire
// forest, plus its path index and garbage list. All operations take the
// same exclusive lock for their full duration: there is no point at
// which a caller can observe a partially-applied mutation, and no
// operation suspends mid-way.
type Store struct {
	mu sync.Mutex

	trees   map[int64]*Tree
	paths   *pathIndex
	garbage []garbageEntry

	Logger *log.Logger
}

// New returns an empty Store.
func New(logger *log.Logger) *Store {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Store{
		trees:  make(map[int64]*Tree),
		paths:  newPathIndex(logger),
		Logger: logger,
	}
}

// AddTree creates an empty tree. Fails with ErrConflict if treeID is
// already present.
func (s *Store) AddTree(treeID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.trees[treeID]; ok {
		return fmt.Errorf("%w: tree %d already exists", ErrConflict, treeID)
	}
	s.trees[treeID] = newTree()
	return nil
}

// RemoveTree drops the entire tree, transitively removing every
// contained segment, and purges the path index of anything beneath it.
// Fails with ErrNotFound if the tree is absent.
func (s *Store) RemoveTree(treeID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.trees[treeID]; !ok {
		return fmt.Errorf("%w: tree %d does not exist", ErrNotFound, treeID)
	}
	delete(s.trees, treeID)
	s.paths.removeTree(treeID)
	return nil
}

// Reset discards every tree, segment, and node, restoring the Store to
// the state New returns. Used by the /clear endpoint.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trees = make(map[int64]*Tree)
	s.paths = newPathIndex(s.Logger)
	s.garbage = nil
}

// ListTrees returns the known tree ids, in unspecified order.
func (s *Store) ListTrees() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]int64, 0, len(s.trees))
	for id := range s.trees {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (s *Store) tree(treeID int64) (*Tree, error) {
	t, ok := s.trees[treeID]
	if !ok {
		return nil, fmt.Errorf("%w: tree %d does not exist", ErrNotFound, treeID)
	}
	return t, nil
}

func (s *Store) segment(treeID, segmentID int64) (*Segment, error) {
	t, err := s.tree(treeID)
	if err != nil {
		return nil, err
	}
	seg, ok := t.Segments[segmentID]
	if !ok {
		return nil, fmt.Errorf("%w: segment %d does not exist in tree %d", ErrNotFound, segmentID, treeID)
	}
	return seg, nil
}
