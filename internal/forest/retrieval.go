package forest

import (
	"encoding/json"
	"fmt"
	"sort"
)

// LevelEntry is one child record as returned by GetLevel.
type LevelEntry struct {
	ID      int64
	Kind    string
	Payload json.RawMessage
	Sort    int
}

// GetLevel returns parentID's children, in the order they appear in the
// parent's Children slice (insertion order — independent of Sort).
func (s *Store) GetLevel(treeID, segmentID, parentID int64) ([]LevelEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seg, err := s.segment(treeID, segmentID)
	if err != nil {
		return nil, err
	}
	parent, ok := seg.Nodes[parentID]
	if !ok {
		return nil, fmt.Errorf("%w: parent node %d does not exist", ErrNotFound, parentID)
	}
	entries := make([]LevelEntry, 0, len(parent.Children))
	for _, childID := range parent.Children {
		child := seg.Nodes[childID]
		entries = append(entries, LevelEntry{
			ID:      childID,
			Kind:    child.Kind,
			Payload: child.Payload,
			Sort:    child.Sort,
		})
	}
	return entries, nil
}

// GetBreadcrumbs returns the ordered ancestor chain from the segment
// root down to and including nodeID. Walked iteratively (not
// recursively): depth of recursion would otherwise equal tree depth.
func (s *Store) GetBreadcrumbs(treeID, segmentID, nodeID int64) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seg, err := s.segment(treeID, segmentID)
	if err != nil {
		return nil, err
	}
	return breadcrumbs(seg, nodeID)
}

func breadcrumbs(seg *Segment, nodeID int64) ([]int64, error) {
	node, ok := seg.Nodes[nodeID]
	if !ok {
		return nil, fmt.Errorf("%w: node %d does not exist", ErrNotFound, nodeID)
	}
	chain := []int64{nodeID}
	cur, curID := node, nodeID
	for cur.ParentID != nil {
		curID = *cur.ParentID
		parent, ok := seg.Nodes[curID]
		if !ok {
			return nil, fmt.Errorf("%w: node %d references missing parent %d", ErrInvariant, chain[len(chain)-1], curID)
		}
		chain = append(chain, curID)
		cur = parent
	}
	// chain was built leaf-to-root; reverse to root-to-leaf.
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}

// Traversal is one node in the sorted depth-first tree returned by
// GetEverything. The source leaves this shape as a TODO; this is a
// deterministic rendering chosen to make the debug endpoint reproducible.
type Traversal struct {
	ID       int64           `json:"id"`
	Kind     string          `json:"type"`
	Payload  json.RawMessage `json:"data,omitempty"`
	Sort     int             `json:"sort"`
	Children []*Traversal    `json:"children,omitempty"`
}

// GetEverything returns every live segment as a sorted depth-first
// traversal from its root, nested by tree id then segment id.
func (s *Store) GetEverything() (map[int64]map[int64]*Traversal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[int64]map[int64]*Traversal, len(s.trees))
	treeIDs := make([]int64, 0, len(s.trees))
	for id := range s.trees {
		treeIDs = append(treeIDs, id)
	}
	sort.Slice(treeIDs, func(i, j int) bool { return treeIDs[i] < treeIDs[j] })
	for _, treeID := range treeIDs {
		t := s.trees[treeID]
		segments := make(map[int64]*Traversal, len(t.Segments))
		segIDs := make([]int64, 0, len(t.Segments))
		for id := range t.Segments {
			segIDs = append(segIDs, id)
		}
		sort.Slice(segIDs, func(i, j int) bool { return segIDs[i] < segIDs[j] })
		for _, segmentID := range segIDs {
			seg := t.Segments[segmentID]
			rootID, err := findRoot(seg)
			if err != nil {
				return nil, err
			}
			segments[segmentID] = traverse(seg, rootID)
		}
		out[treeID] = segments
	}
	return out, nil
}

func traverse(seg *Segment, nodeID int64) *Traversal {
	n := seg.Nodes[nodeID]
	t := &Traversal{ID: nodeID, Kind: n.Kind, Payload: n.Payload, Sort: n.Sort}
	if len(n.Children) == 0 {
		return t
	}
	children := append([]int64(nil), n.Children...)
	sort.Slice(children, func(i, j int) bool { return seg.Nodes[children[i]].Sort < seg.Nodes[children[j]].Sort })
	t.Children = make([]*Traversal, 0, len(children))
	for _, childID := range children {
		t.Children = append(t.Children, traverse(seg, childID))
	}
	return t
}
