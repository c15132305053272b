package taxonomy

import "sort"

// Tree is the rooted forest view of a flat category list. Roots holds every
// category without a parent; ChildrenOf groups the remaining categories by
// their parent id. Both are sorted by Order ascending, ties broken by the
// position in the input list.
type Tree struct {
	Roots      []Category            `json:"roots"`
	ChildrenOf map[string][]Category `json:"children_of"`
}

// BuildTree converts a flat category list into a Tree. The function is pure
// and deterministic: the same input always yields the same output. Categories
// whose parent is itself non-root are still grouped under that parent; callers
// are expected to reject such rows at the validation boundary.
func BuildTree(categories []Category) Tree {
	tree := Tree{
		Roots:      make([]Category, 0),
		ChildrenOf: make(map[string][]Category),
	}

	for _, c := range categories {
		if c.IsRoot() {
			tree.Roots = append(tree.Roots, c)
		} else {
			tree.ChildrenOf[*c.ParentID] = append(tree.ChildrenOf[*c.ParentID], c)
		}
	}

	sortSiblings(tree.Roots)
	for _, children := range tree.ChildrenOf {
		sortSiblings(children)
	}

	return tree
}

// sortSiblings orders a sibling group by Order ascending. The slices are built
// in input order, so a stable sort keeps insertion order as the tie-breaker.
func sortSiblings(group []Category) {
	sort.SliceStable(group, func(i, j int) bool {
		return group[i].Order < group[j].Order
	})
}

// SiblingGroup extracts the ordered sibling group for parentID (nil for the
// root group) from a flat category list.
func SiblingGroup(categories []Category, parentID *string) []Category {
	group := make([]Category, 0)
	for _, c := range categories {
		if parentID == nil || *parentID == "" {
			if c.IsRoot() {
				group = append(group, c)
			}
		} else if !c.IsRoot() && *c.ParentID == *parentID {
			group = append(group, c)
		}
	}
	sortSiblings(group)
	return group
}
