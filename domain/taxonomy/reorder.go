package taxonomy

import (
	"fmt"

	apperrors "servirep-backend/pkg/errors"
)

// Reorder moves movedID to targetID's position within an ordered sibling
// group and renormalizes Order values to 1..n. Elements between the old and
// new position shift by one slot, direction-dependent (array-move semantics).
// The input slice is not mutated; the returned slice is a fresh copy.
//
// Callers must have already verified that both ids belong to the same sibling
// group; here the only failure mode is an id missing from the group.
func Reorder(group []Category, movedID, targetID string) ([]Category, error) {
	from, to := -1, -1
	for i, c := range group {
		if c.ID == movedID {
			from = i
		}
		if c.ID == targetID {
			to = i
		}
	}
	if from == -1 {
		return nil, apperrors.NewReorderPreconditionError(fmt.Sprintf("category %q is not in the sibling group", movedID))
	}
	if to == -1 {
		return nil, apperrors.NewReorderPreconditionError(fmt.Sprintf("category %q is not in the sibling group", targetID))
	}

	result := make([]Category, len(group))
	copy(result, group)

	if from != to {
		moved := result[from]
		result = append(result[:from], result[from+1:]...)
		rest := append([]Category{moved}, result[to:]...)
		result = append(result[:to], rest...)
	}

	// Renormalize: contiguous 1..n regardless of prior gaps or ties.
	for i := range result {
		result[i].Order = i + 1
	}

	return result, nil
}
