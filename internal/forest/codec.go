package forest

import (
	"bytes"
	"errors"
	"fmt"
	"sort"

	log "github.com/sirupsen/logrus"
)

// Snapshot wire format, grounded on the teacher's own hand-rolled
// record packing (no external serialization library is used anywhere
// in the teacher for this purpose): a 4-byte magic, a version byte,
// then tree/segment/node records each length-prefixed where variable,
// so a reader never needs to look ahead.
const (
	snapshotMagic       = "ETR1"
	snapshotVersCurrent = uint8(1)
	hasValue            uint8 = 1
	noValue             uint8 = 0
)

// MarshalSnapshot serializes every tree, segment and node into a single
// blob suitable for handing to a blobstore.Store.
func (s *Store) MarshalSnapshot() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := make([]byte, 0, 4096)
	b = append(b, snapshotMagic...)
	b = pint8(b, snapshotVersCurrent)
	b = pint32(b, int32(len(s.trees)))

	treeIDs := sortedKeys(s.trees)
	for _, treeID := range treeIDs {
		t := s.trees[treeID]
		b = pint64(b, treeID)
		b = pint32(b, int32(len(t.Segments)))

		segIDs := sortedKeysSeg(t.Segments)
		for _, segmentID := range segIDs {
			seg := t.Segments[segmentID]
			b = pint64(b, segmentID)
			b = pint32(b, int32(len(seg.Nodes)))

			nodeIDs := sortedKeysNode(seg.Nodes)
			for _, nodeID := range nodeIDs {
				n := seg.Nodes[nodeID]
				b = pint64(b, nodeID)
				if n.ParentID != nil {
					b = pint8(b, hasValue)
					b = pint64(b, *n.ParentID)
				} else {
					b = pint8(b, noValue)
				}
				b = pstr(b, n.Kind)
				b = pint32(b, int32(n.Sort))
				if n.Payload != nil {
					b = pint8(b, hasValue)
					b = pbytes(b, n.Payload)
				} else {
					b = pint8(b, noValue)
				}
				b = pint32(b, int32(len(n.Children)))
				for _, childID := range n.Children {
					b = pint64(b, childID)
				}
			}
		}
	}
	return b, nil
}

// gcount reads a length-prefixed count and rejects a negative one, so a
// corrupt or truncated blob fails with errCorruptSnapshot instead of
// panicking on a negative-length make() downstream.
func gcount(b []byte) (int32, []byte, error) {
	n, rest, err := gint32(b)
	if err != nil {
		return 0, nil, err
	}
	if n < 0 {
		return 0, nil, fmt.Errorf("%w: negative count %d", errCorruptSnapshot, n)
	}
	return n, rest, nil
}

// LoadSnapshot parses a blob produced by MarshalSnapshot into a fresh
// Store. The path index is rebuilt from the decoded tree shape rather
// than persisted, since it is fully derivable from it.
func LoadSnapshot(data []byte, logger *log.Logger) (*Store, error) {
	if len(data) < len(snapshotMagic)+1 {
		return nil, fmt.Errorf("%w: blob too short", errCorruptSnapshot)
	}
	if !bytes.Equal(data[:len(snapshotMagic)], []byte(snapshotMagic)) {
		return nil, fmt.Errorf("%w: bad magic", errCorruptSnapshot)
	}
	b := data[len(snapshotMagic):]

	version, b, err := gint8(b)
	if err != nil {
		return nil, err
	}
	if version != snapshotVersCurrent {
		return nil, fmt.Errorf("%w: unsupported snapshot version %d", errCorruptSnapshot, version)
	}

	store := New(logger)

	treeCount, b, err := gcount(b)
	if err != nil {
		return nil, err
	}
	for i := int32(0); i < treeCount; i++ {
		var treeID int64
		treeID, b, err = gint64(b)
		if err != nil {
			return nil, err
		}
		t := newTree()
		store.trees[treeID] = t

		var segCount int32
		segCount, b, err = gcount(b)
		if err != nil {
			return nil, err
		}
		for j := int32(0); j < segCount; j++ {
			var segmentID int64
			segmentID, b, err = gint64(b)
			if err != nil {
				return nil, err
			}
			seg := &Segment{Nodes: make(map[int64]*Node)}
			t.Segments[segmentID] = seg
			store.paths.add(segmentPath(treeID, segmentID))

			var nodeCount int32
			nodeCount, b, err = gcount(b)
			if err != nil {
				return nil, err
			}
			for k := int32(0); k < nodeCount; k++ {
				var nodeID int64
				nodeID, b, err = gint64(b)
				if err != nil {
					return nil, err
				}

				var hasParent uint8
				hasParent, b, err = gint8(b)
				if err != nil {
					return nil, err
				}
				var parentID *int64
				if hasParent == hasValue {
					var pid int64
					pid, b, err = gint64(b)
					if err != nil {
						return nil, err
					}
					parentID = &pid
				}

				var kind string
				kind, b, err = gstr(b)
				if err != nil {
					return nil, err
				}

				var sortRaw int32
				sortRaw, b, err = gint32(b)
				if err != nil {
					return nil, err
				}

				var hasPayload uint8
				hasPayload, b, err = gint8(b)
				if err != nil {
					return nil, err
				}
				var payload []byte
				if hasPayload == hasValue {
					payload, b, err = gbytes(b)
					if err != nil {
						return nil, err
					}
				}

				var childCount int32
				childCount, b, err = gcount(b)
				if err != nil {
					return nil, err
				}
				children := make([]int64, childCount)
				for c := int32(0); c < childCount; c++ {
					children[c], b, err = gint64(b)
					if err != nil {
						return nil, err
					}
				}

				seg.Nodes[nodeID] = &Node{
					ParentID: parentID,
					Kind:     kind,
					Payload:  payload,
					Sort:     int(sortRaw),
					Children: children,
				}
			}
		}
	}

	if err := rebuildNodePaths(store); err != nil {
		return nil, err
	}
	return store, nil
}

// rebuildNodePaths appends one path-index entry per node, mirroring what
// AddSegment/AddNode/AddDirectory would have recorded incrementally: the
// segment root gets its own single-element path, every other node gets
// its full breadcrumb trail. Nodes left behind under a removed directory
// no longer reach the root and get no entry, as in the live index.
func rebuildNodePaths(store *Store) error {
	for treeID, t := range store.trees {
		for segmentID, seg := range t.Segments {
			for nodeID, n := range seg.Nodes {
				if n.IsRoot() {
					store.paths.add(nodePath(treeID, segmentID, []int64{nodeID}))
					continue
				}
				crumb, err := breadcrumbs(seg, nodeID)
				if errors.Is(err, ErrInvariant) {
					continue
				}
				if err != nil {
					return err
				}
				store.paths.add(nodePath(treeID, segmentID, crumb))
			}
		}
	}
	return nil
}

func sortedKeys(m map[int64]*Tree) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func sortedKeysSeg(m map[int64]*Segment) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func sortedKeysNode(m map[int64]*Node) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
