package taxonomy

import (
	"reflect"
	"testing"

	apperrors "servirep-backend/pkg/errors"
)

func orders(group []Category) []int {
	out := make([]int, 0, len(group))
	for _, c := range group {
		out = append(out, c.Order)
	}
	return out
}

func TestReorder(t *testing.T) {
	group := []Category{
		{ID: "a", Order: 5, Name: "A", Slug: "a"},
		{ID: "b", Order: 10, Name: "B", Slug: "b"},
		{ID: "c", Order: 10, Name: "C", Slug: "c"},
		{ID: "d", Order: 99, Name: "D", Slug: "d"},
	}

	tests := []struct {
		name     string
		movedID  string
		targetID string
		wantIDs  []string
	}{
		{
			name:     "move last to front",
			movedID:  "d",
			targetID: "a",
			wantIDs:  []string{"d", "a", "b", "c"},
		},
		{
			name:     "move first to back",
			movedID:  "a",
			targetID: "d",
			wantIDs:  []string{"b", "c", "d", "a"},
		},
		{
			name:     "move forward one slot",
			movedID:  "b",
			targetID: "c",
			wantIDs:  []string{"a", "c", "b", "d"},
		},
		{
			name:     "move backward one slot",
			movedID:  "c",
			targetID: "b",
			wantIDs:  []string{"a", "c", "b", "d"},
		},
		{
			name:     "move onto itself only renormalizes",
			movedID:  "b",
			targetID: "b",
			wantIDs:  []string{"a", "b", "c", "d"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Reorder(group, tt.movedID, tt.targetID)
			if err != nil {
				t.Fatalf("Reorder() error = %v", err)
			}
			if !reflect.DeepEqual(ids(got), tt.wantIDs) {
				t.Errorf("ids = %v, want %v", ids(got), tt.wantIDs)
			}
			// Gapped and tied input orders always come back as 1..n.
			if !reflect.DeepEqual(orders(got), []int{1, 2, 3, 4}) {
				t.Errorf("orders = %v, want [1 2 3 4]", orders(got))
			}
		})
	}
}

func TestReorder_InputNotMutated(t *testing.T) {
	group := []Category{
		{ID: "a", Order: 5},
		{ID: "b", Order: 10},
		{ID: "c", Order: 20},
	}
	snapshot := make([]Category, len(group))
	copy(snapshot, group)

	if _, err := Reorder(group, "c", "a"); err != nil {
		t.Fatalf("Reorder() error = %v", err)
	}
	if !reflect.DeepEqual(group, snapshot) {
		t.Errorf("input slice was mutated: %v", group)
	}
}

func TestReorder_MissingIDs(t *testing.T) {
	group := []Category{
		{ID: "a", Order: 1},
		{ID: "b", Order: 2},
	}

	tests := []struct {
		name     string
		movedID  string
		targetID string
	}{
		{"moved id not in group", "ghost", "a"},
		{"target id not in group", "a", "ghost"},
		{"empty group", "a", "b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := group
			if tt.name == "empty group" {
				g = nil
			}
			_, err := Reorder(g, tt.movedID, tt.targetID)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !apperrors.IsReorderPrecondition(err) {
				t.Errorf("error type = %v, want reorder precondition", err)
			}
		})
	}
}
