package engine

import (
	"context"
	"fmt"

	"flok.dev/flok/internal/plan"
)

// Reconcile computes the actions needed to make the repository's managed
// branches realize a finished plan. It reads the repository but never
// mutates it; Apply carries the actions out.
func (e *Engine) Reconcile(ctx context.Context, p *plan.Plan, chains []plan.Chain, prune bool) (*Reconciliation, error) {
	rec := &Reconciliation{Plan: p, Chains: chains}

	upstreamTip, err := e.run.ResolveRevision(e.cfg.UpstreamRef())
	if err != nil {
		return nil, err
	}

	// A rewrite invalidates every dependent branch below it, even one whose
	// content still matches, because its recorded base commit is about to
	// change.
	rewritten := make([]bool, len(p.Deltas))
	for i, d := range p.Deltas {
		kind, err := e.classify(ctx, p, d, upstreamTip, rewritten)
		if err != nil {
			return nil, err
		}
		if kind != ActionNoop {
			rewritten[i] = true
		}
		rec.Actions = append(rec.Actions, Action{Kind: kind, Delta: d})
	}

	if err := e.findOrphans(p, rec, prune); err != nil {
		return nil, err
	}
	return rec, nil
}

func (e *Engine) classify(ctx context.Context, p *plan.Plan, d *plan.Delta, upstreamTip string, rewritten []bool) (ActionKind, error) {
	if !e.run.BranchExists(d.BranchName) {
		return ActionCreate, nil
	}
	if d.Dep != plan.Upstream && rewritten[d.Dep] {
		return ActionRewrite, nil
	}

	baseTip := upstreamTip
	if d.Dep != plan.Upstream {
		tip, err := e.run.ResolveRevision(p.Deltas[d.Dep].BranchName)
		if err != nil {
			return ActionNoop, err
		}
		baseTip = tip
	}

	match, err := e.branchMatches(ctx, d, baseTip)
	if err != nil {
		return ActionNoop, err
	}
	if match {
		return ActionNoop, nil
	}
	return ActionRewrite, nil
}

// branchMatches reports whether the existing branch already realizes the
// delta: it sits on the expected base and carries the same commits, compared
// by subject and patch content. SHAs are never compared because every
// cherry-pick rewrites them.
func (e *Engine) branchMatches(ctx context.Context, d *plan.Delta, baseTip string) (bool, error) {
	k := len(d.Commits)
	parent, err := e.run.ResolveRevision(fmt.Sprintf("%s~%d", d.BranchName, k))
	if err != nil || parent != baseTip {
		return false, nil
	}

	branchCommits, err := e.run.LastCommits(ctx, d.BranchName, k)
	if err != nil {
		return false, err
	}
	if len(branchCommits) != k {
		return false, nil
	}

	for j, c := range branchCommits {
		if c.Subject != d.Commits[j].Subject {
			return false, nil
		}
		branchID, err := e.run.PatchID(ctx, c.SHA)
		if err != nil {
			return false, err
		}
		planID, err := e.run.PatchID(ctx, d.Commits[j].SHA)
		if err != nil {
			return false, err
		}
		if branchID != planID {
			return false, nil
		}
	}
	return true, nil
}

// findOrphans classifies managed branches the plan no longer names. A branch
// whose tip is reachable from upstream has been integrated and is safe to
// delete; anything else is drift and is only deleted when pruning is forced.
func (e *Engine) findOrphans(p *plan.Plan, rec *Reconciliation, prune bool) error {
	pattern := plan.ManagedNamePattern(e.cfg.BranchTemplate)
	planned := make(map[string]bool, len(p.Deltas))
	for _, name := range p.BranchNames() {
		planned[name] = true
	}

	branches, err := e.run.LocalBranches()
	if err != nil {
		return err
	}

	for _, b := range branches {
		if b == e.cfg.Local || b == e.cfg.Upstream || planned[b] || !pattern.MatchString(b) {
			continue
		}
		if prune {
			rec.Deletes = append(rec.Deletes, b)
			continue
		}
		integrated, err := e.run.IsAncestor(b, e.cfg.UpstreamRef())
		if err != nil {
			return err
		}
		if integrated {
			rec.Deletes = append(rec.Deletes, b)
		} else {
			rec.Drift = append(rec.Drift, b)
		}
	}
	return nil
}
