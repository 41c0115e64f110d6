package services

import "b2b-catalog/models"

// BuildCategoryTree turns a flat category list into a forest. Every category is
// cloned with an empty children list; a category whose parent id does not
// resolve (nil or orphaned) becomes a root. Roots keep their input order and
// children are appended in input order.
func BuildCategoryTree(flat []models.Category) []*models.Category {
	byID := make(map[string]*models.Category, len(flat))
	for _, c := range flat {
		clone := c
		clone.Children = []*models.Category{}
		byID[c.ID] = &clone
	}

	roots := []*models.Category{}
	for _, c := range flat {
		node := byID[c.ID]
		if !c.IsRoot() {
			if parent, ok := byID[*c.ParentID]; ok && parent != node {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}
	return roots
}

// CountTreeNodes returns the number of categories reachable from roots.
func CountTreeNodes(roots []*models.Category) int {
	n := 0
	for _, r := range roots {
		n += 1 + CountTreeNodes(r.Children)
	}
	return n
}
