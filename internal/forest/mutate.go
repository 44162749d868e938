package forest

import "fmt"

// insert runs the shared AddDirectory/AddNode algorithm and returns the
// sort value actually assigned to newID.
func (s *Store) insert(treeID, segmentID, parentID, newID int64, requestedSort *int, kind string, payload []byte) (int, error) {
	seg, err := s.segment(treeID, segmentID)
	if err != nil {
		return 0, err
	}
	parent, ok := seg.Nodes[parentID]
	if !ok {
		return 0, fmt.Errorf("%w: parent node %d does not exist", ErrNotFound, parentID)
	}
	if !parent.IsContainer() {
		return 0, fmt.Errorf("%w: parent node %d is not a root or directory", ErrConflict, parentID)
	}
	if _, ok := seg.Nodes[newID]; ok {
		return 0, fmt.Errorf("%w: node %d already exists in segment", ErrConflict, newID)
	}
	if kind == KindRoot {
		return 0, fmt.Errorf("%w: kind %q is reserved for segment roots", ErrBadRequest, KindRoot)
	}
	if requestedSort != nil && *requestedSort < 1 {
		return 0, fmt.Errorf("%w: requested sort must be >= 1", ErrBadRequest)
	}

	siblingIDs := parent.Children
	sortValue := placeSort(seg.Nodes, siblingIDs, requestedSort)

	seg.Nodes[newID] = &Node{
		ParentID: &parentID,
		Kind:     kind,
		Payload:  payload,
		Sort:     sortValue,
		Children: nil,
	}
	parent.Children = append(parent.Children, newID)

	crumb, err := breadcrumbs(seg, newID)
	if err != nil {
		return 0, err
	}
	s.paths.add(nodePath(treeID, segmentID, crumb))
	return sortValue, nil
}

// placeSort implements the four insertion-placement cases from the
// insertion contract. It mutates nodes in place when a shift is needed.
func placeSort(nodes map[int64]*Node, siblingIDs []int64, requestedSort *int) int {
	maxSort := 0
	for _, id := range siblingIDs {
		if s := nodes[id].Sort; s > maxSort {
			maxSort = s
		}
	}

	if requestedSort == nil {
		return maxSort + 1
	}
	switch len(siblingIDs) {
	case 0:
		return 1
	case 1:
		return 2
	}

	req := *requestedSort
	if req > maxSort+1 || req == maxSort {
		return maxSort + 1
	}
	shiftFrom(nodes, siblingIDs, req, -1)
	return req
}

// AddDirectory inserts a dir-kind node (no payload).
func (s *Store) AddDirectory(treeID, segmentID, parentID, newID int64, requestedSort *int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insert(treeID, segmentID, parentID, newID, requestedSort, KindDir, nil)
}

// AddNode inserts a leaf node. The store rejects kind root with
// ErrBadRequest; kind dir is accepted here and refused only by the API
// Adapter's leaf-node endpoint.
func (s *Store) AddNode(treeID, segmentID, parentID, newID int64, requestedSort *int, kind string, payload []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insert(treeID, segmentID, parentID, newID, requestedSort, kind, payload)
}

// remove runs the shared RemoveDirectory/RemoveNode algorithm.
func (s *Store) remove(treeID, segmentID, nodeID int64) error {
	seg, err := s.segment(treeID, segmentID)
	if err != nil {
		return err
	}
	node, ok := seg.Nodes[nodeID]
	if !ok {
		return fmt.Errorf("%w: node %d does not exist", ErrNotFound, nodeID)
	}
	if node.IsRoot() {
		return fmt.Errorf("%w: cannot remove a segment root", ErrBadRequest)
	}

	crumb, err := breadcrumbs(seg, nodeID)
	if err != nil {
		return err
	}

	parent := seg.Nodes[*node.ParentID]
	for i, id := range parent.Children {
		if id == nodeID {
			parent.Children = append(parent.Children[:i], parent.Children[i+1:]...)
			break
		}
	}
	normalize(seg.Nodes, parent.Children)

	delete(seg.Nodes, nodeID)

	if node.IsDir() {
		s.garbage = append(s.garbage, garbageEntry{TreeID: treeID, SegmentID: segmentID, NodeID: nodeID})
	}

	removed := nodePath(treeID, segmentID, crumb)
	s.paths.removeExact(removed)
	if node.IsDir() {
		s.paths.removePrefix(removed + "/")
	}
	return nil
}

// RemoveDirectory removes a dir node and enqueues it on the garbage
// list. The directory need not be empty: its descendants' node records
// stay in the segment, unreachable from the root, and only their
// path-index entries are purged.
func (s *Store) RemoveDirectory(treeID, segmentID, nodeID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remove(treeID, segmentID, nodeID)
}

// RemoveNode removes a leaf node.
func (s *Store) RemoveNode(treeID, segmentID, nodeID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remove(treeID, segmentID, nodeID)
}
