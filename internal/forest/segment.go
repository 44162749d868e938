package forest

import (
	"fmt"
	"sort"
)

// AddSegment creates a segment holding a single root node
// (parent=nil, kind=root, payload=nil, sort=1, no children) and
// registers its two initial path-index entries.
func (s *Store) AddSegment(treeID, segmentID, rootNodeID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.tree(treeID)
	if err != nil {
		return err
	}
	if _, ok := t.Segments[segmentID]; ok {
		return fmt.Errorf("%w: segment %d already exists in tree %d", ErrConflict, segmentID, treeID)
	}
	t.Segments[segmentID] = newSegment(rootNodeID)
	s.paths.add(segmentPath(treeID, segmentID))
	s.paths.add(nodePath(treeID, segmentID, []int64{rootNodeID}))
	return nil
}

// RemoveSegment drops the segment wholesale, enqueues its root onto the
// garbage list, and purges the path index beneath it.
func (s *Store) RemoveSegment(treeID, segmentID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.tree(treeID)
	if err != nil {
		return err
	}
	seg, ok := t.Segments[segmentID]
	if !ok {
		return fmt.Errorf("%w: segment %d does not exist in tree %d", ErrNotFound, segmentID, treeID)
	}
	rootID, err := findRoot(seg)
	if err != nil {
		return err
	}
	delete(t.Segments, segmentID)
	s.garbage = append(s.garbage, garbageEntry{TreeID: treeID, SegmentID: segmentID, NodeID: rootID})
	s.paths.removeSegment(treeID, segmentID)
	return nil
}

// ListSegments returns the tree's segment ids, in unspecified order.
func (s *Store) ListSegments(treeID int64) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.tree(treeID)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(t.Segments))
	for id := range t.Segments {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// GetSegmentRoot scans the segment's nodes and returns the id of the
// unique node whose kind is root.
func (s *Store) GetSegmentRoot(treeID, segmentID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seg, err := s.segment(treeID, segmentID)
	if err != nil {
		return 0, err
	}
	return findRoot(seg)
}

func findRoot(seg *Segment) (int64, error) {
	for id, n := range seg.Nodes {
		if n.IsRoot() {
			return id, nil
		}
	}
	return 0, fmt.Errorf("%w: segment has no root node", ErrInvariant)
}
