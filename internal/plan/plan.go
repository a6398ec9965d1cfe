package plan

// Upstream is the dependency value of a delta that targets the upstream
// branch directly rather than another delta.
const Upstream = -1

// Delta is a named, ordered group of local commits destined for one change
// request. Commits preserve their relative order from the local sequence.
// Dep is the index of the dependency delta within the plan's canonical
// order, or Upstream. A delta is immutable once validation has succeeded.
type Delta struct {
	ID      string
	Commits []Commit
	Dep     int

	// BranchName and TargetName are filled in by AssignBranchNames.
	BranchName string
	TargetName string
}

// Anchor returns the commit whose message derives the delta's branch name.
func (d *Delta) Anchor(policy AnchorPolicy) Commit {
	if policy == AnchorLast {
		return d.Commits[len(d.Commits)-1]
	}
	return d.Commits[0]
}

// CommitSHAs returns the delta's commit identifiers in order.
func (d *Delta) CommitSHAs() []string {
	shas := make([]string, len(d.Commits))
	for i, c := range d.Commits {
		shas[i] = c.SHA
	}
	return shas
}

// Contains reports whether the delta includes the given commit.
func (d *Delta) Contains(sha string) bool {
	for _, c := range d.Commits {
		if c.SHA == sha {
			return true
		}
	}
	return false
}

// Plan is the canonical integration plan: every local commit is assigned to
// exactly one outcome, either a single delta or the implicit skip set.
// Deltas are ordered by the position of their first assigned commit and
// their IDs are the decimal form of that position, so a serialized plan
// re-parses to an identical canonical plan.
type Plan struct {
	Local  []Commit
	Deltas []*Delta
}

// DeltaFor returns the delta containing the given commit, or nil when the
// commit is skipped.
func (p *Plan) DeltaFor(sha string) *Delta {
	for _, d := range p.Deltas {
		if d.Contains(sha) {
			return d
		}
	}
	return nil
}

// DeltaNamed returns the delta with the given derived branch name, or nil.
func (p *Plan) DeltaNamed(branchName string) *Delta {
	for _, d := range p.Deltas {
		if d.BranchName == branchName {
			return d
		}
	}
	return nil
}

// BranchNames returns the derived branch names in canonical delta order.
func (p *Plan) BranchNames() []string {
	names := make([]string, len(p.Deltas))
	for i, d := range p.Deltas {
		names[i] = d.BranchName
	}
	return names
}

// Empty reports whether the plan assigns no commits at all.
func (p *Plan) Empty() bool {
	return len(p.Deltas) == 0
}

// Equal reports whether two plans have the same canonical structure: the
// same local sequence, delta partition and dependencies. Derived branch
// names are not compared; they are a function of the structure and config.
func (p *Plan) Equal(other *Plan) bool {
	if other == nil || len(p.Local) != len(other.Local) || len(p.Deltas) != len(other.Deltas) {
		return false
	}
	for i := range p.Local {
		if p.Local[i] != other.Local[i] {
			return false
		}
	}
	for i, d := range p.Deltas {
		o := other.Deltas[i]
		if d.ID != o.ID || d.Dep != o.Dep || len(d.Commits) != len(o.Commits) {
			return false
		}
		for j := range d.Commits {
			if d.Commits[j] != o.Commits[j] {
				return false
			}
		}
	}
	return true
}
