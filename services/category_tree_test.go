package services

import (
	"fmt"
	"math/rand"
	"testing"

	"b2b-catalog/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sp(s string) *string { return &s }

func TestBuildCategoryTree_NestsChildren(t *testing.T) {
	flat := []models.Category{
		{ID: "1-1-2", Name: "Balls", ParentID: sp("1-1")},
		{ID: "1", Name: "Sports"},
		{ID: "1-1", Name: "Volleyball", ParentID: sp("1")},
		{ID: "1-1-1", Name: "Nets", ParentID: sp("1-1")},
		{ID: "2", Name: "Fishing"},
	}

	roots := BuildCategoryTree(flat)
	require.Len(t, roots, 2)
	assert.Equal(t, "1", roots[0].ID)
	assert.Equal(t, "2", roots[1].ID)

	require.Len(t, roots[0].Children, 1)
	volleyball := roots[0].Children[0]
	assert.Equal(t, "1-1", volleyball.ID)
	require.Len(t, volleyball.Children, 2)
	assert.Equal(t, "1-1-2", volleyball.Children[0].ID)
	assert.Equal(t, "1-1-1", volleyball.Children[1].ID)
	assert.Empty(t, roots[1].Children)
	assert.NotNil(t, roots[1].Children)
}

func TestBuildCategoryTree_OrphansBecomeRoots(t *testing.T) {
	flat := []models.Category{
		{ID: "a", Name: "A"},
		{ID: "b", Name: "B", ParentID: sp("ghost")},
	}
	roots := BuildCategoryTree(flat)
	require.Len(t, roots, 2)
	assert.Equal(t, "b", roots[1].ID)
}

func TestBuildCategoryTree_DoesNotMutateInput(t *testing.T) {
	flat := []models.Category{{ID: "1"}, {ID: "2", ParentID: sp("1")}}
	BuildCategoryTree(flat)
	assert.Nil(t, flat[0].Children)
}

// Every input category appears exactly once and below its parent.
func TestBuildCategoryTree_PreservesNodeCount(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for round := 0; round < 50; round++ {
		n := rng.Intn(40) + 1
		flat := make([]models.Category, n)
		for i := 0; i < n; i++ {
			flat[i] = models.Category{ID: fmt.Sprintf("c%d", i)}
			// parents always have a lower index, so no cycles
			if i > 0 && rng.Intn(3) > 0 {
				flat[i].ParentID = sp(fmt.Sprintf("c%d", rng.Intn(i)))
			}
		}
		rng.Shuffle(n, func(i, j int) { flat[i], flat[j] = flat[j], flat[i] })

		roots := BuildCategoryTree(flat)
		assert.Equal(t, n, CountTreeNodes(roots))

		var walk func(parent *models.Category, nodes []*models.Category)
		walk = func(parent *models.Category, nodes []*models.Category) {
			for _, node := range nodes {
				if parent == nil {
					assert.True(t, node.IsRoot())
				} else {
					assert.Equal(t, parent.ID, *node.ParentID)
				}
				walk(node, node.Children)
			}
		}
		walk(nil, roots)
	}
}
