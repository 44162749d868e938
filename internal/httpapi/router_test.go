package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nicolagi/epictree/internal/blobstore"
	"github.com/nicolagi/epictree/internal/config"
	"github.com/nicolagi/epictree/internal/forest"
	"github.com/nicolagi/epictree/internal/ratelimit"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	store := forest.New(nil)
	blobs := blobstore.NullStore{}
	cfg := &config.C{Environment: config.EnvironmentDevelopment, DataFile: "unused"}
	limits := ratelimit.NewTable(ratelimit.DefaultQuotas())
	srv := NewServer(store, blobs, cfg, limits, nil)
	router, err := srv.Router()
	require.NoError(t, err)
	return router
}

func doJSON(t *testing.T, h http.Handler, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var r *http.Request
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		r = httptest.NewRequest(method, path, bytes.NewReader(buf))
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func TestTreeLifecycleOverHTTP(t *testing.T) {
	h := newTestServer(t)

	w, env := doJSON(t, h, http.MethodPost, "/tree", map[string]any{"tree_id": 1})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, env.Response)

	w, env = doJSON(t, h, http.MethodPost, "/tree", map[string]any{"tree_id": 1})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, http.StatusConflict, env.Meta.Code)

	w, env = doJSON(t, h, http.MethodGet, "/trees", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []interface{}{float64(1)}, env.Response)

	w, _ = doJSON(t, h, http.MethodDelete, "/tree", map[string]any{"tree_id": 1})
	assert.Equal(t, http.StatusOK, w.Code)

	_, env = doJSON(t, h, http.MethodGet, "/trees", nil)
	assert.Equal(t, []interface{}{}, env.Response)
}

func TestDirectoryOrderingWithClampOverHTTP(t *testing.T) {
	h := newTestServer(t)
	_, _ = doJSON(t, h, http.MethodPost, "/tree", map[string]any{"tree_id": 201})
	_, _ = doJSON(t, h, http.MethodPost, "/tree/201/segment", map[string]any{"segment_id": 202, "root_node_id": 203})

	w, _ := doJSON(t, h, http.MethodPost, "/tree/201/segment/202/directory", map[string]any{"parent_node_id": 203, "node_id": 204, "position": 500})
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = doJSON(t, h, http.MethodPost, "/tree/201/segment/202/directory", map[string]any{"parent_node_id": 203, "node_id": 205, "position": 2})
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = doJSON(t, h, http.MethodPost, "/tree/201/segment/202/directory", map[string]any{"parent_node_id": 203, "node_id": 206})
	require.Equal(t, http.StatusOK, w.Code)

	_, env := doJSON(t, h, http.MethodGet, "/tree/201/segment/202/level/203", nil)
	entries, ok := env.Response.([]interface{})
	require.True(t, ok)
	require.Len(t, entries, 3)
	for i, wantSort := range []float64{1, 2, 3} {
		entry, ok := entries[i].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, float64(204+i), entry["id"])
		assert.Equal(t, wantSort, entry["sort"])
	}
}

func TestNodeAddRejectsDirKind(t *testing.T) {
	h := newTestServer(t)
	_, _ = doJSON(t, h, http.MethodPost, "/tree", map[string]any{"tree_id": 1})
	_, _ = doJSON(t, h, http.MethodPost, "/tree/1/segment", map[string]any{"segment_id": 2, "root_node_id": 3})

	w, env := doJSON(t, h, http.MethodPost, "/tree/1/segment/2/node", map[string]any{
		"parent_node_id": 3, "node_id": 4, "type": "dir", "payload": map[string]any{},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, http.StatusBadRequest, env.Meta.Code)
}

func TestDirectoryAddRejectsNonContainerParentOverHTTP(t *testing.T) {
	h := newTestServer(t)
	_, _ = doJSON(t, h, http.MethodPost, "/tree", map[string]any{"tree_id": 1})
	_, _ = doJSON(t, h, http.MethodPost, "/tree/1/segment", map[string]any{"segment_id": 2, "root_node_id": 3})
	_, _ = doJSON(t, h, http.MethodPost, "/tree/1/segment/2/node", map[string]any{
		"parent_node_id": 3, "node_id": 4, "type": "file", "payload": map[string]any{},
	})

	w, env := doJSON(t, h, http.MethodPost, "/tree/1/segment/2/directory", map[string]any{"parent_node_id": 4, "node_id": 5})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, http.StatusConflict, env.Meta.Code)
}

func TestNotImplementedEndpoints(t *testing.T) {
	h := newTestServer(t)
	_, _ = doJSON(t, h, http.MethodPost, "/tree", map[string]any{"tree_id": 1})
	_, _ = doJSON(t, h, http.MethodPost, "/tree/1/segment", map[string]any{"segment_id": 2, "root_node_id": 3})

	w, _ := doJSON(t, h, http.MethodPost, "/tree/1/segment/2/duplicate", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doJSON(t, h, http.MethodGet, "/tree/1/segment/2", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPersistRoundTripOverHTTP(t *testing.T) {
	store := forest.New(nil)
	blobs := blobstore.NewDiskStore(t.TempDir())
	cfg := &config.C{Environment: config.EnvironmentDevelopment, DataFile: "snapshot.bin"}
	limits := ratelimit.NewTable(ratelimit.DefaultQuotas())
	srv := NewServer(store, blobs, cfg, limits, nil)
	router, err := srv.Router()
	require.NoError(t, err)

	require.NoError(t, store.AddTree(1))

	w, env := doJSON(t, router, http.MethodPost, "/persist", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, env.Response)

	blob, err := blobs.Get(blobstore.Key("snapshot.bin"))
	require.NoError(t, err)
	reloaded, err := forest.LoadSnapshot(blob, nil)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, reloaded.ListTrees())
}
