package httpapi

import (
	"encoding/json"
	"fmt"

	"github.com/tigerwill90/fox"

	"github.com/nicolagi/epictree/internal/blobstore"
	"github.com/nicolagi/epictree/internal/forest"
)

type treeRequest struct {
	TreeID *int64 `json:"tree_id"`
}

func (s *Server) handleTree(c *fox.Context) {
	var req treeRequest
	if err := decodeBody(c, &req); err != nil {
		writeErr(c, s.logger, s.cfg.IsProduction(), err)
		return
	}
	if req.TreeID == nil {
		writeErr(c, s.logger, s.cfg.IsProduction(), fmt.Errorf("%w: tree_id not sent (or incorrect format)", errBadRequest))
		return
	}
	var err error
	switch c.Request().Method {
	case "POST":
		err = s.store.AddTree(*req.TreeID)
	case "DELETE":
		err = s.store.RemoveTree(*req.TreeID)
	}
	if err != nil {
		writeErr(c, s.logger, s.cfg.IsProduction(), err)
		return
	}
	writeOK(c, true)
}

func (s *Server) handleListTrees(c *fox.Context) {
	writeOK(c, s.store.ListTrees())
}

func (s *Server) handleListSegments(c *fox.Context) {
	treeID, err := intParam(c, "tree")
	if err != nil {
		writeErr(c, s.logger, s.cfg.IsProduction(), err)
		return
	}
	ids, err := s.store.ListSegments(treeID)
	if err != nil {
		writeErr(c, s.logger, s.cfg.IsProduction(), err)
		return
	}
	writeOK(c, ids)
}

type segmentCreateRequest struct {
	SegmentID  *int64 `json:"segment_id"`
	RootNodeID *int64 `json:"root_node_id"`
}

func (s *Server) handleSegmentCreate(c *fox.Context) {
	treeID, err := intParam(c, "tree")
	if err != nil {
		writeErr(c, s.logger, s.cfg.IsProduction(), err)
		return
	}
	var req segmentCreateRequest
	if err := decodeBody(c, &req); err != nil {
		writeErr(c, s.logger, s.cfg.IsProduction(), err)
		return
	}
	if req.SegmentID == nil {
		writeErr(c, s.logger, s.cfg.IsProduction(), fmt.Errorf("%w: segment_id not sent (or incorrect format)", errBadRequest))
		return
	}
	if req.RootNodeID == nil {
		writeErr(c, s.logger, s.cfg.IsProduction(), fmt.Errorf("%w: root_node_id not sent (or incorrect format)", errBadRequest))
		return
	}
	if err := s.store.AddSegment(treeID, *req.SegmentID, *req.RootNodeID); err != nil {
		writeErr(c, s.logger, s.cfg.IsProduction(), err)
		return
	}
	writeOK(c, true)
}

func (s *Server) handleSegmentRemove(c *fox.Context) {
	treeID, err := intParam(c, "tree")
	if err != nil {
		writeErr(c, s.logger, s.cfg.IsProduction(), err)
		return
	}
	segmentID, err := intParam(c, "segment")
	if err != nil {
		writeErr(c, s.logger, s.cfg.IsProduction(), err)
		return
	}
	if err := s.store.RemoveSegment(treeID, segmentID); err != nil {
		writeErr(c, s.logger, s.cfg.IsProduction(), err)
		return
	}
	writeOK(c, true)
}

func (s *Server) handleSegmentRoot(c *fox.Context) {
	treeID, err := intParam(c, "tree")
	if err != nil {
		writeErr(c, s.logger, s.cfg.IsProduction(), err)
		return
	}
	segmentID, err := intParam(c, "segment")
	if err != nil {
		writeErr(c, s.logger, s.cfg.IsProduction(), err)
		return
	}
	rootID, err := s.store.GetSegmentRoot(treeID, segmentID)
	if err != nil {
		writeErr(c, s.logger, s.cfg.IsProduction(), err)
		return
	}
	writeOK(c, rootID)
}

type levelEntryResponse struct {
	ID   int64           `json:"id"`
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
	Sort int             `json:"sort"`
}

func (s *Server) handleGetLevel(c *fox.Context) {
	treeID, err := intParam(c, "tree")
	if err != nil {
		writeErr(c, s.logger, s.cfg.IsProduction(), err)
		return
	}
	segmentID, err := intParam(c, "segment")
	if err != nil {
		writeErr(c, s.logger, s.cfg.IsProduction(), err)
		return
	}
	parentID, err := intParam(c, "parent")
	if err != nil {
		writeErr(c, s.logger, s.cfg.IsProduction(), err)
		return
	}
	entries, err := s.store.GetLevel(treeID, segmentID, parentID)
	if err != nil {
		writeErr(c, s.logger, s.cfg.IsProduction(), err)
		return
	}
	out := make([]levelEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, levelEntryResponse{ID: e.ID, Type: e.Kind, Data: e.Payload, Sort: e.Sort})
	}
	writeOK(c, out)
}

func (s *Server) handleBreadcrumbs(c *fox.Context) {
	treeID, err := intParam(c, "tree")
	if err != nil {
		writeErr(c, s.logger, s.cfg.IsProduction(), err)
		return
	}
	segmentID, err := intParam(c, "segment")
	if err != nil {
		writeErr(c, s.logger, s.cfg.IsProduction(), err)
		return
	}
	nodeID, err := intParam(c, "node")
	if err != nil {
		writeErr(c, s.logger, s.cfg.IsProduction(), err)
		return
	}
	crumbs, err := s.store.GetBreadcrumbs(treeID, segmentID, nodeID)
	if err != nil {
		writeErr(c, s.logger, s.cfg.IsProduction(), err)
		return
	}
	writeOK(c, crumbs)
}

type directoryAddRequest struct {
	ParentNodeID *int64 `json:"parent_node_id"`
	NodeID       *int64 `json:"node_id"`
	Position     *int   `json:"position"`
}

func (s *Server) handleDirectoryAdd(c *fox.Context) {
	treeID, err := intParam(c, "tree")
	if err != nil {
		writeErr(c, s.logger, s.cfg.IsProduction(), err)
		return
	}
	segmentID, err := intParam(c, "segment")
	if err != nil {
		writeErr(c, s.logger, s.cfg.IsProduction(), err)
		return
	}
	var req directoryAddRequest
	if err := decodeBody(c, &req); err != nil {
		writeErr(c, s.logger, s.cfg.IsProduction(), err)
		return
	}
	if req.ParentNodeID == nil {
		writeErr(c, s.logger, s.cfg.IsProduction(), fmt.Errorf("%w: parent_node_id not sent (or incorrect format)", errBadRequest))
		return
	}
	if req.NodeID == nil {
		writeErr(c, s.logger, s.cfg.IsProduction(), fmt.Errorf("%w: node_id not sent (or incorrect format)", errBadRequest))
		return
	}
	if req.Position != nil && *req.Position < 1 {
		writeErr(c, s.logger, s.cfg.IsProduction(), fmt.Errorf("%w: position can't be less than 1", errBadRequest))
		return
	}
	if _, err := s.store.AddDirectory(treeID, segmentID, *req.ParentNodeID, *req.NodeID, req.Position); err != nil {
		writeErr(c, s.logger, s.cfg.IsProduction(), err)
		return
	}
	writeOK(c, true)
}

func (s *Server) handleDirectoryRemove(c *fox.Context) {
	treeID, err := intParam(c, "tree")
	if err != nil {
		writeErr(c, s.logger, s.cfg.IsProduction(), err)
		return
	}
	segmentID, err := intParam(c, "segment")
	if err != nil {
		writeErr(c, s.logger, s.cfg.IsProduction(), err)
		return
	}
	nodeID, err := intParam(c, "node")
	if err != nil {
		writeErr(c, s.logger, s.cfg.IsProduction(), err)
		return
	}
	if err := s.store.RemoveDirectory(treeID, segmentID, nodeID); err != nil {
		writeErr(c, s.logger, s.cfg.IsProduction(), err)
		return
	}
	writeOK(c, true)
}

type nodeAddRequest struct {
	ParentNodeID *int64          `json:"parent_node_id"`
	NodeID       *int64          `json:"node_id"`
	Position     *int            `json:"position"`
	Type         string          `json:"type"`
	Payload      json.RawMessage `json:"payload"`
}

func (s *Server) handleNodeAdd(c *fox.Context) {
	treeID, err := intParam(c, "tree")
	if err != nil {
		writeErr(c, s.logger, s.cfg.IsProduction(), err)
		return
	}
	segmentID, err := intParam(c, "segment")
	if err != nil {
		writeErr(c, s.logger, s.cfg.IsProduction(), err)
		return
	}
	var req nodeAddRequest
	if err := decodeBody(c, &req); err != nil {
		writeErr(c, s.logger, s.cfg.IsProduction(), err)
		return
	}
	if req.ParentNodeID == nil {
		writeErr(c, s.logger, s.cfg.IsProduction(), fmt.Errorf("%w: parent_node_id not sent (or incorrect format)", errBadRequest))
		return
	}
	if req.NodeID == nil {
		writeErr(c, s.logger, s.cfg.IsProduction(), fmt.Errorf("%w: node_id not sent (or incorrect format)", errBadRequest))
		return
	}
	if req.Position != nil && *req.Position < 1 {
		writeErr(c, s.logger, s.cfg.IsProduction(), fmt.Errorf("%w: position can't be less than 1", errBadRequest))
		return
	}
	if req.Type == "" {
		writeErr(c, s.logger, s.cfg.IsProduction(), fmt.Errorf("%w: type not sent (or incorrect format)", errBadRequest))
		return
	}
	if req.Type == forest.KindRoot || req.Type == forest.KindDir {
		writeErr(c, s.logger, s.cfg.IsProduction(), fmt.Errorf("%w: node type can't be root or dir, use the other endpoints to create these types", errBadRequest))
		return
	}
	if req.Payload == nil {
		writeErr(c, s.logger, s.cfg.IsProduction(), fmt.Errorf("%w: payload not sent (or incorrect format)", errBadRequest))
		return
	}
	if _, err := s.store.AddNode(treeID, segmentID, *req.ParentNodeID, *req.NodeID, req.Position, req.Type, req.Payload); err != nil {
		writeErr(c, s.logger, s.cfg.IsProduction(), err)
		return
	}
	writeOK(c, true)
}

func (s *Server) handleNodeRemove(c *fox.Context) {
	treeID, err := intParam(c, "tree")
	if err != nil {
		writeErr(c, s.logger, s.cfg.IsProduction(), err)
		return
	}
	segmentID, err := intParam(c, "segment")
	if err != nil {
		writeErr(c, s.logger, s.cfg.IsProduction(), err)
		return
	}
	nodeID, err := intParam(c, "node")
	if err != nil {
		writeErr(c, s.logger, s.cfg.IsProduction(), err)
		return
	}
	if err := s.store.RemoveNode(treeID, segmentID, nodeID); err != nil {
		writeErr(c, s.logger, s.cfg.IsProduction(), err)
		return
	}
	writeOK(c, true)
}

func (s *Server) handleDumpForest(c *fox.Context) {
	everything, err := s.store.GetEverything()
	if err != nil {
		writeErr(c, s.logger, s.cfg.IsProduction(), err)
		return
	}
	writeOK(c, everything)
}

func (s *Server) handleClear(c *fox.Context) {
	s.store.Reset()
	writeOK(c, true)
}

type persistRequest struct {
	Filename string `json:"filename"`
}

func (s *Server) handlePersist(c *fox.Context) {
	filename := s.cfg.DataFile
	var req persistRequest
	if c.Request().ContentLength > 0 {
		if err := decodeBody(c, &req); err == nil && req.Filename != "" {
			filename = req.Filename
		}
	}
	blob, err := s.store.MarshalSnapshot()
	if err != nil {
		writeErr(c, s.logger, s.cfg.IsProduction(), err)
		return
	}
	if err := s.blobs.Put(blobstore.Key(filename), blob); err != nil {
		writeErr(c, s.logger, s.cfg.IsProduction(), err)
		return
	}
	writeOK(c, true)
}
