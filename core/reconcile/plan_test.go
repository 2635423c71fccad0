package reconcile

import (
	"testing"

	"rules-service/core/dataset"

	"github.com/stretchr/testify/assert"
)

func TestBuildPlan(t *testing.T) {
	keep := dataset.NewItem("KEEP", "DE", "1", "keep")
	add := dataset.NewItem("ADD", "DE", "1", "add")
	gone := dataset.NewItem("GONE", "DE", "1", "gone")

	plan := BuildPlan([]dataset.Item{keep, add, keep}, []dataset.Listing{keep.Listing(), gone.Listing()})

	assert.Equal(t, PlanSummary{Fresh: 2, Existing: 2, Inserted: 1, Retained: 1, Deleted: 1, Duplicates: 1}, plan.Summary)
	assert.Equal(t, []dataset.Key{keep.Key(), add.Key()}, plan.Keep)
	assert.Equal(t, []dataset.Item{add}, plan.Inserts)
	assert.Equal(t, []Action{
		{Type: ActionInsert, Key: add.Key().String(), Identifier: "ADD"},
		{Type: ActionDelete, Key: gone.Key().String(), Identifier: "GONE"},
	}, plan.Actions)
}

func TestBuildPlanEmptyFresh(t *testing.T) {
	a := dataset.NewItem("A", "DE", "1", "a")
	plan := BuildPlan(nil, []dataset.Listing{a.Listing()})

	assert.Empty(t, plan.Keep)
	assert.Equal(t, 1, plan.Summary.Deleted)
}
