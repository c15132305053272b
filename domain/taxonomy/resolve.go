package taxonomy

// ResolveDescendants computes the downward closure of categoryID: the id
// itself plus every id reachable by following parent edges down. It is written
// as a general breadth-first walk so it stays correct if the depth cap is ever
// lifted. A cycle in the input cannot make it loop: visited ids are never
// re-expanded, and the second return value reports that the data is corrupt so
// the caller can flag it.
func ResolveDescendants(categoryID string, categories []Category) (map[string]struct{}, bool) {
	childrenOf := make(map[string][]string, len(categories))
	for _, c := range categories {
		if !c.IsRoot() {
			childrenOf[*c.ParentID] = append(childrenOf[*c.ParentID], c.ID)
		}
	}

	closure := map[string]struct{}{categoryID: {}}
	queue := []string{categoryID}
	cycle := false

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, child := range childrenOf[current] {
			if _, seen := closure[child]; seen {
				cycle = true
				continue
			}
			closure[child] = struct{}{}
			queue = append(queue, child)
		}
	}

	return closure, cycle
}

// ComposeFilter unions the descendant closures of every selected category id.
// An empty selection yields an empty set, which callers must interpret as "no
// category filter" rather than "match nothing". The second return value
// reports whether any closure walk detected a cycle.
func ComposeFilter(selectedIDs []string, categories []Category) (map[string]struct{}, bool) {
	filter := make(map[string]struct{})
	cycle := false

	for _, id := range selectedIDs {
		closure, c := ResolveDescendants(id, categories)
		if c {
			cycle = true
		}
		for member := range closure {
			filter[member] = struct{}{}
		}
	}

	return filter, cycle
}

// FilterIDs flattens a composed filter set into a slice for query builders.
// Returns nil for an empty set so store implementations can distinguish
// "unfiltered" from an explicit id list.
func FilterIDs(filter map[string]struct{}) []string {
	if len(filter) == 0 {
		return nil
	}
	ids := make([]string, 0, len(filter))
	for id := range filter {
		ids = append(ids, id)
	}
	return ids
}
