package engine

import (
	"flok.dev/flok/internal/plan"
)

// ActionKind classifies what reconciliation decided for one delta
type ActionKind int

const (
	// ActionNoop leaves the existing branch untouched
	ActionNoop ActionKind = iota
	// ActionCreate builds a branch that does not exist yet
	ActionCreate
	// ActionRewrite rebuilds an existing branch whose base or content is stale
	ActionRewrite
)

// String returns the lowercase name of the action kind
func (k ActionKind) String() string {
	switch k {
	case ActionNoop:
		return "noop"
	case ActionCreate:
		return "create"
	case ActionRewrite:
		return "rewrite"
	default:
		return "unknown"
	}
}

// Action pairs a delta with the work reconciliation decided for it
type Action struct {
	Kind  ActionKind
	Delta *plan.Delta
}

// Reconciliation is the diff between a validated plan and the repository's
// current branch state. It is a pure description; nothing is mutated until
// Apply runs it.
type Reconciliation struct {
	Plan   *plan.Plan
	Chains []plan.Chain

	// Actions holds one entry per delta in canonical order, so every
	// dependency appears before its dependents.
	Actions []Action

	// Deletes are managed branches the plan no longer names whose tips are
	// reachable from upstream, plus all such branches when pruning.
	Deletes []string

	// Drift are managed branches the plan no longer names that still carry
	// unintegrated work. They are reported but never touched.
	Drift []string
}

// Changed reports whether applying the reconciliation would mutate anything.
func (r *Reconciliation) Changed() bool {
	for _, a := range r.Actions {
		if a.Kind != ActionNoop {
			return true
		}
	}
	return len(r.Deletes) > 0
}

// RunState describes how far an apply got
type RunState int

const (
	// RunPending means the apply has not started
	RunPending RunState = iota
	// RunCompleted means every action was carried out
	RunCompleted
	// RunAborted means a cherry-pick conflict stopped the run
	RunAborted
)

// RunResult reports what an apply changed
type RunResult struct {
	State     RunState
	Created   []string
	Rewritten []string
	Deleted   []string

	// AbortedAt names the branch whose cherry-pick conflicted
	AbortedAt string
}

// ChangedCount returns the number of branches the run touched
func (r *RunResult) ChangedCount() int {
	return len(r.Created) + len(r.Rewritten) + len(r.Deleted)
}
