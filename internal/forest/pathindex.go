package forest

import (
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
)

// pathIndex is a write-through, best-effort mirror of the live segments
// and nodes: one materialized path string per live segment
// ("<tree>/<segment>") and per live node, the segment root included
// ("<tree>/<segment>/<id1>/.../<idN>"). Nothing currently reads it back
// for lookup acceleration (the teacher leaves those call sites as TODO
// too); it exists so RemoveTree/RemoveSegment/RemoveNode can keep it
// honest and so a future caller has something to search.
//
// Callers must hold the owning Store's lock; pathIndex has no lock of
// its own.
type pathIndex struct {
	paths  []string
	logger *log.Logger
}

func newPathIndex(logger *log.Logger) *pathIndex {
	return &pathIndex{logger: logger}
}

func (p *pathIndex) add(s string) {
	p.paths = append(p.paths, s)
}

// removeExact drops the first entry equal to s. A missing entry is
// logged rather than silently swallowed (spec calls the source's
// silent swallow out as a permissiveness worth tightening).
func (p *pathIndex) removeExact(s string) {
	for i, existing := range p.paths {
		if existing == s {
			p.paths = append(p.paths[:i], p.paths[i+1:]...)
			return
		}
	}
	p.logger.WithField("path", s).Warn("path index: no matching entry to remove")
}

// removePrefix drops every entry starting with prefix.
func (p *pathIndex) removePrefix(prefix string) {
	kept := p.paths[:0]
	for _, existing := range p.paths {
		if !strings.HasPrefix(existing, prefix) {
			kept = append(kept, existing)
		}
	}
	p.paths = kept
}

// removeSegment drops the segment-root entry and every node entry
// beneath it: anything equal to "<tree>/<segment>" or prefixed by
// "<tree>/<segment>/".
func (p *pathIndex) removeSegment(treeID, segmentID int64) {
	exact := segmentPath(treeID, segmentID)
	prefix := exact + "/"
	kept := p.paths[:0]
	for _, existing := range p.paths {
		if existing == exact || strings.HasPrefix(existing, prefix) {
			continue
		}
		kept = append(kept, existing)
	}
	p.paths = kept
}

// removeTree drops every entry beneath "<tree>/".
func (p *pathIndex) removeTree(treeID int64) {
	p.removePrefix(strconv.FormatInt(treeID, 10) + "/")
}

func segmentPath(treeID, segmentID int64) string {
	return strconv.FormatInt(treeID, 10) + "/" + strconv.FormatInt(segmentID, 10)
}

func nodePath(treeID, segmentID int64, breadcrumbs []int64) string {
	var b strings.Builder
	b.WriteString(segmentPath(treeID, segmentID))
	for _, id := range breadcrumbs {
		b.WriteByte('/')
		b.WriteString(strconv.FormatInt(id, 10))
	}
	return b.String()
}

// garbageEntry records a subtree whose root was removed, as a hint for
// an orphan collector. It is an advisory work queue: nothing ever reads
// it back inside this package.
type garbageEntry struct {
	TreeID    int64
	SegmentID int64
	NodeID    int64
}
