package reconcile

import (
	"errors"

	"rules-service/core/dataset"
)

// ErrHashMismatch is returned when a fresh item's hash does not match its
// raw data.
var ErrHashMismatch = errors.New("reconcile: hash does not match raw data")

// ActionType represents the type of planned store mutation.
type ActionType string

const (
	// ActionInsert signs and inserts a fresh item.
	ActionInsert ActionType = "insert"
	// ActionDelete removes a stored item absent from the fresh set.
	ActionDelete ActionType = "delete"
)

// Action represents a planned mutation.
type Action struct {
	// Type specifies the action to perform.
	Type ActionType `json:"type"`

	// Key is the item key (country + hash).
	Key string `json:"key"`

	// Identifier is the item identifier, for logs and dry runs.
	Identifier string `json:"identifier"`
}

// ReconcilePlan is the diff between a fresh set and a store.
type ReconcilePlan struct {
	// Keep holds every key of the fresh set.
	Keep []dataset.Key `json:"-"`

	// Inserts holds the fresh items whose key is not stored yet, in fresh
	// set order.
	Inserts []dataset.Item `json:"-"`

	// Actions lists the planned mutations.
	Actions []Action `json:"actions"`

	// Summary provides aggregate counts.
	Summary PlanSummary `json:"summary"`
}

// PlanSummary provides aggregate statistics for a plan.
type PlanSummary struct {
	// Fresh is the number of distinct keys in the fresh set.
	Fresh int `json:"fresh"`

	// Existing is the number of items stored before the cycle.
	Existing int `json:"existing"`

	// Inserted counts items to insert.
	Inserted int `json:"inserted"`

	// Retained counts stored items kept unchanged.
	Retained int `json:"retained"`

	// Deleted counts stored items to remove.
	Deleted int `json:"deleted"`

	// Duplicates counts fresh items dropped because their key repeated.
	Duplicates int `json:"duplicates"`
}

// ReconcileOptions controls reconcile behavior.
type ReconcileOptions struct {
	// DryRun computes the plan without mutating the store or the signed
	// list.
	DryRun bool
}

// Result is the outcome of one reconciliation cycle.
type Result struct {
	// Kind is the reconciled dataset type.
	Kind dataset.Kind `json:"kind"`

	// Plan is the executed (or, in dry runs, proposed) plan.
	Plan *ReconcilePlan `json:"plan"`

	// SnapshotChanged reports whether the signed list was rewritten.
	SnapshotChanged bool `json:"snapshot_changed"`

	// DryRun reports whether the store was left untouched.
	DryRun bool `json:"dry_run"`
}
