package models

// Category is a node of the catalog hierarchy. Children is computed, never stored.
type Category struct {
	ID           string            `json:"id"`
	Name         string            `json:"name" validate:"required,max=120"`
	ParentID     *string           `json:"parentId"`
	Order        int               `json:"order"`
	Image        string            `json:"image,omitempty"`
	CustomFields map[string]string `json:"customFields,omitempty"`
	Children     []*Category       `json:"children,omitempty"`
}

// IsRoot reports whether the category has no parent reference.
func (c Category) IsRoot() bool {
	return c.ParentID == nil || *c.ParentID == ""
}

// CategoryStats aggregates a category subtree.
type CategoryStats struct {
	CategoryID    string `json:"categoryId"`
	TotalProducts int    `json:"totalProducts"`
	TotalViews    int    `json:"totalViews"`
}

// DescendantIDs returns rootID followed by the ids of every category below it.
// A category that loops back into the walked set is visited once.
func DescendantIDs(categories []Category, rootID string) []string {
	byParent := make(map[string][]string)
	for _, c := range categories {
		if !c.IsRoot() {
			byParent[*c.ParentID] = append(byParent[*c.ParentID], c.ID)
		}
	}

	ids := []string{rootID}
	seen := map[string]bool{rootID: true}
	for i := 0; i < len(ids); i++ {
		for _, child := range byParent[ids[i]] {
			if !seen[child] {
				seen[child] = true
				ids = append(ids, child)
			}
		}
	}
	return ids
}
