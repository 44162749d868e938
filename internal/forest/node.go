package forest

import "encoding/json"

// Well-known node kinds. Any other string is a leaf kind (file,
// smartview, asset, ...); the engine only distinguishes these three
// classes.
const (
	KindRoot = "root"
	KindDir  = "dir"
)

// Node is the fundamental unit of the forest: a 5-field record
// describing one node's parent, kind, payload, sort position among
// siblings, and ordered children. Represented as a named struct with
// mutable fields, not a tuple: there's no reason to reconstruct the
// whole record to bump one field.
type Node struct {
	// ParentID is nil iff this node is the root of its segment.
	ParentID *int64

	// Kind is "root", "dir", or an opaque leaf kind such as "file" or
	// "smartview".
	Kind string

	// Payload is opaque to the engine; never interpreted, just carried
	// and round-tripped. nil for root/dir nodes.
	Payload json.RawMessage

	// Sort is this node's 1-based rank among its siblings.
	Sort int

	// Children holds this node's child ids in insertion order. Only
	// root and dir nodes may have a non-empty Children.
	Children []int64
}

// IsRoot reports whether the node is a segment's root.
func (n *Node) IsRoot() bool { return n.Kind == KindRoot }

// IsDir reports whether the node is a directory (may own children, but
// is not itself a segment root).
func (n *Node) IsDir() bool { return n.Kind == KindDir }

// IsContainer reports whether the node may own children: root or dir.
func (n *Node) IsContainer() bool { return n.IsRoot() || n.IsDir() }

// IsLeaf reports whether the node is neither root nor dir.
func (n *Node) IsLeaf() bool { return !n.IsContainer() }

func newRoot() *Node {
	return &Node{Kind: KindRoot, Sort: 1}
}

// Segment is a rooted ordered tree of nodes, keyed by node id.
type Segment struct {
	Nodes map[int64]*Node
}

func newSegment(rootNodeID int64) *Segment {
	return &Segment{
		Nodes: map[int64]*Node{
			rootNodeID: newRoot(),
		},
	}
}

// Tree is a tenant's namespace: an independent collection of segments
// sharing no nodes.
type Tree struct {
	Segments map[int64]*Segment
}

func newTree() *Tree {
	return &Tree{Segments: make(map[int64]*Segment)}
}
