package forest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLevel_OrderFollowsChildrenNotSort(t *testing.T) {
	s := newFixture(t)
	_, err := s.AddDirectory(201, 202, 203, 204, nil)
	require.NoError(t, err)
	_, err = s.AddDirectory(201, 202, 203, 205, nil)
	require.NoError(t, err)
	req1 := 1
	_, err = s.AddDirectory(201, 202, 203, 206, &req1)
	require.NoError(t, err)

	level, err := s.GetLevel(201, 202, 203)
	require.NoError(t, err)
	require.Len(t, level, 3)
	// Children order is insertion order (204, 205, 206) even though
	// 206's requested position 1 gives it the lowest Sort.
	assert.Equal(t, []int64{204, 205, 206}, []int64{level[0].ID, level[1].ID, level[2].ID})
	assert.Equal(t, 2, sortOf(t, level, 204))
	assert.Equal(t, 3, sortOf(t, level, 205))
	assert.Equal(t, 1, sortOf(t, level, 206))
}

func TestGetLevel_MissingParent(t *testing.T) {
	s := newFixture(t)
	_, err := s.GetLevel(201, 202, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetEverything_SortedDepthFirst(t *testing.T) {
	s := newFixture(t)
	_, err := s.AddDirectory(201, 202, 203, 204, nil)
	require.NoError(t, err)
	_, err = s.AddDirectory(201, 202, 203, 205, nil)
	require.NoError(t, err)
	req1 := 1
	_, err = s.AddDirectory(201, 202, 203, 206, &req1)
	require.NoError(t, err)

	everything, err := s.GetEverything()
	require.NoError(t, err)

	traversal := everything[201][202]
	require.NotNil(t, traversal)
	assert.Equal(t, int64(203), traversal.ID)
	require.Len(t, traversal.Children, 3)
	// Traversal orders by Sort: 206 (sort 1), 204 (sort 2), 205 (sort 3).
	assert.Equal(t, int64(206), traversal.Children[0].ID)
	assert.Equal(t, int64(204), traversal.Children[1].ID)
	assert.Equal(t, int64(205), traversal.Children[2].ID)
}
