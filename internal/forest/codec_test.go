package forest

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotRoundTrip_EmptyForest(t *testing.T) {
	s := New(nil)
	blob, err := s.MarshalSnapshot()
	require.NoError(t, err)

	loaded, err := LoadSnapshot(blob, nil)
	require.NoError(t, err)
	assert.Empty(t, loaded.ListTrees())
}

func TestSnapshotRoundTrip_Fixture(t *testing.T) {
	s := New(nil)
	require.NoError(t, s.AddTree(201))
	require.NoError(t, s.AddSegment(201, 202, 203))
	_, err := s.AddDirectory(201, 202, 203, 204, nil)
	require.NoError(t, err)
	_, err = s.AddNode(201, 202, 204, 300, nil, "file", []byte(`{"name":"a.txt"}`))
	require.NoError(t, err)

	blob, err := s.MarshalSnapshot()
	require.NoError(t, err)

	loaded, err := LoadSnapshot(blob, nil)
	require.NoError(t, err)

	assert.Equal(t, []int64{201}, loaded.ListTrees())

	rootID, err := loaded.GetSegmentRoot(201, 202)
	require.NoError(t, err)
	assert.Equal(t, int64(203), rootID)

	level, err := loaded.GetLevel(201, 202, 203)
	require.NoError(t, err)
	require.Len(t, level, 1)
	assert.Equal(t, int64(204), level[0].ID)

	leafLevel, err := loaded.GetLevel(201, 202, 204)
	require.NoError(t, err)
	require.Len(t, leafLevel, 1)
	assert.Equal(t, int64(300), leafLevel[0].ID)
	assert.JSONEq(t, `{"name":"a.txt"}`, string(leafLevel[0].Payload))

	crumb, err := loaded.GetBreadcrumbs(201, 202, 300)
	require.NoError(t, err)
	assert.Equal(t, []int64{203, 204, 300}, crumb)
}

func TestSnapshotRoundTrip_PathIndexParity(t *testing.T) {
	s := New(nil)
	require.NoError(t, s.AddTree(201))
	require.NoError(t, s.AddSegment(201, 202, 203))
	_, err := s.AddDirectory(201, 202, 203, 204, nil)
	require.NoError(t, err)
	_, err = s.AddNode(201, 202, 204, 300, nil, "file", []byte(`{"name":"a.txt"}`))
	require.NoError(t, err)

	blob, err := s.MarshalSnapshot()
	require.NoError(t, err)
	loaded, err := LoadSnapshot(blob, nil)
	require.NoError(t, err)

	assert.Equal(t, sortedCopy(s.paths.paths), sortedCopy(loaded.paths.paths))
}

func sortedCopy(in []string) []string {
	out := append([]string(nil), in...)
	sort.Strings(out)
	return out
}

func TestLoadSnapshot_RejectsBadMagic(t *testing.T) {
	_, err := LoadSnapshot([]byte("not-a-snapshot-blob"), nil)
	require.Error(t, err)
}

func TestLoadSnapshot_RejectsNegativeCount(t *testing.T) {
	s := New(nil)
	require.NoError(t, s.AddTree(1))
	blob, err := s.MarshalSnapshot()
	require.NoError(t, err)

	// treeCount sits right after the 4-byte magic and 1-byte version.
	countOffset := len(snapshotMagic) + 1
	corrupt := append([]byte(nil), blob...)
	corrupt[countOffset] = 0xFF
	corrupt[countOffset+1] = 0xFF
	corrupt[countOffset+2] = 0xFF
	corrupt[countOffset+3] = 0xFF

	_, err = LoadSnapshot(corrupt, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, errCorruptSnapshot)
}

func TestLoadSnapshot_RejectsTruncated(t *testing.T) {
	s := New(nil)
	require.NoError(t, s.AddTree(1))
	blob, err := s.MarshalSnapshot()
	require.NoError(t, err)

	_, err = LoadSnapshot(blob[:len(blob)-2], nil)
	require.Error(t, err)
}
