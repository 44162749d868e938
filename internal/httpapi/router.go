package httpapi

import (
	"net/http"

	log "github.com/sirupsen/logrus"
	"github.com/tigerwill90/fox"

	"github.com/nicolagi/epictree/internal/blobstore"
	"github.com/nicolagi/epictree/internal/config"
	"github.com/nicolagi/epictree/internal/forest"
	"github.com/nicolagi/epictree/internal/ratelimit"
)

// Server wires the forest.Store, a blobstore.Store for persistence, the
// rate-limit table and logger into a fox.Router exposing every route
// the API Adapter documents.
type Server struct {
	store  *forest.Store
	blobs  blobstore.Store
	cfg    *config.C
	limits *ratelimit.Table
	logger *log.Logger
}

// NewServer builds the Server; call Router to obtain the http.Handler.
func NewServer(store *forest.Store, blobs blobstore.Store, cfg *config.C, limits *ratelimit.Table, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Server{store: store, blobs: blobs, cfg: cfg, limits: limits, logger: logger}
}

// Router builds the fox.Router and registers every documented endpoint.
func (s *Server) Router() (*fox.Router, error) {
	router, err := fox.NewRouter()
	if err != nil {
		return nil, err
	}

	router.MustAdd([]string{http.MethodGet}, "/", s.limited("banner", s.handleBanner))

	router.MustAdd([]string{http.MethodPost, http.MethodDelete}, "/tree", s.limited("tree.mutate", s.handleTree))
	router.MustAdd([]string{http.MethodGet}, "/trees", s.limited("trees.list", s.handleListTrees))
	router.MustAdd([]string{http.MethodGet}, "/tree/{tree}/segments", s.limited("tree.segments.list", s.handleListSegments))
	router.MustAdd([]string{http.MethodPost}, "/tree/{tree}/segment", s.limited("segment.create", s.handleSegmentCreate))
	router.MustAdd([]string{http.MethodDelete}, "/tree/{tree}/segment/{segment}", s.limited("segment.remove", s.handleSegmentRemove))
	router.MustAdd([]string{http.MethodGet}, "/tree/{tree}/segment/{segment}/root", s.limited("segment.root", s.handleSegmentRoot))
	router.MustAdd([]string{http.MethodGet}, "/tree/{tree}/segment/{segment}/level/{parent}", s.limited("level.get", s.handleGetLevel))
	router.MustAdd([]string{http.MethodGet}, "/tree/{tree}/segment/{segment}/breadcrumbs/{node}", s.limited("breadcrumbs.get", s.handleBreadcrumbs))

	router.MustAdd([]string{http.MethodPost}, "/tree/{tree}/segment/{segment}/directory", s.limited("directory.add", s.handleDirectoryAdd))
	router.MustAdd([]string{http.MethodDelete}, "/tree/{tree}/segment/{segment}/directory/{node}", s.limited("directory.remove", s.handleDirectoryRemove))
	router.MustAdd([]string{http.MethodPost, http.MethodPut}, "/tree/{tree}/segment/{segment}/directory/{node}/duplicate", s.limited("directory.duplicate", s.handleNotImplemented))
	router.MustAdd([]string{http.MethodPost, http.MethodPut}, "/tree/{tree}/segment/{segment}/directory/{node}/move", s.limited("directory.move", s.handleNotImplemented))

	router.MustAdd([]string{http.MethodPost}, "/tree/{tree}/segment/{segment}/node", s.limited("node.add", s.handleNodeAdd))
	router.MustAdd([]string{http.MethodDelete}, "/tree/{tree}/segment/{segment}/node/{node}", s.limited("node.remove", s.handleNodeRemove))
	router.MustAdd([]string{http.MethodPost, http.MethodPut}, "/tree/{tree}/segment/{segment}/node/{node}/move", s.limited("node.move", s.handleNotImplemented))
	router.MustAdd([]string{http.MethodPost}, "/tree/{tree}/segment/{segment}/level/{parent}", s.limited("level.add", s.handleNotImplemented))

	router.MustAdd([]string{http.MethodPost, http.MethodPut}, "/tree/{tree}/segment/{segment}/duplicate", s.limited("segment.duplicate", s.handleNotImplemented))
	router.MustAdd([]string{http.MethodPost, http.MethodPut}, "/tree/{tree}/segment/{segment}/move", s.limited("segment.move", s.handleNotImplemented))
	router.MustAdd([]string{http.MethodGet}, "/tree/{tree}/segment/{segment}", s.limited("segment.get", s.handleNotImplemented))
	router.MustAdd([]string{http.MethodGet}, "/tree/{tree}", s.limited("tree.get", s.handleNotImplemented))
	router.MustAdd([]string{http.MethodGet}, "/tree", s.limited("tree.dump", s.handleDumpForest))

	router.MustAdd([]string{http.MethodPost}, "/clear", s.limited("clear", s.handleClear))
	router.MustAdd([]string{http.MethodPost}, "/persist", s.limited("persist", s.handlePersist))

	return router, nil
}

// limited wraps a handler with the named route's rate-limit check.
func (s *Server) limited(route string, h fox.HandlerFunc) fox.HandlerFunc {
	return func(c *fox.Context) {
		if !s.limits.Allow(route) {
			writeJSON(c, http.StatusTooManyRequests, "rate limit exceeded for "+route, nil)
			return
		}
		h(c)
	}
}

func (s *Server) handleBanner(c *fox.Context) {
	writeJSON(c, http.StatusNotFound, "epictree", nil)
}

func (s *Server) handleNotImplemented(c *fox.Context) {
	writeJSON(c, http.StatusBadRequest, "not implemented", nil)
}
