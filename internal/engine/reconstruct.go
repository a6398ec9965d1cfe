package engine

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"flok.dev/flok/internal/plan"
)

// inferred is a delta recovered from an existing branch during
// reconstruction, before canonical ordering is known
type inferred struct {
	name    string
	commits []plan.Commit
	dep     *inferred
}

// Reconstruct rebuilds the last applied plan from the repository alone.
// Nothing is persisted between runs, so the plan is recovered from the
// naming convention: a local commit whose derived branch name exists as a
// branch anchors a delta, and the branch's own history reveals the delta's
// commits and its dependency. Commits are matched by subject because
// cherry-picking rewrote their SHAs.
func (e *Engine) Reconstruct(ctx context.Context) (*plan.Plan, error) {
	local, err := e.LocalCommits(ctx)
	if err != nil {
		return nil, err
	}

	branches, err := e.run.LocalBranches()
	if err != nil {
		return nil, err
	}
	branchSet := make(map[string]bool, len(branches))
	for _, b := range branches {
		branchSet[b] = true
	}

	bySubject := make(map[string]plan.Commit, len(local))
	pos := make(map[string]int, len(local))
	for i, c := range local {
		bySubject[c.Subject] = c
		pos[c.Subject] = i
	}

	// The commit below the oldest delta commit should be the upstream tip;
	// anything else means a commit was reworded since the last run.
	upstreamSubject := ""
	if tip, err := e.run.LastCommits(ctx, e.cfg.UpstreamRef(), 1); err == nil && len(tip) > 0 {
		upstreamSubject = tip[0].Subject
	}

	byName := make(map[string]*inferred)
	var found []*inferred
	for i, c := range local {
		name := plan.DeriveBranchName(c.Subject, e.cfg.BranchTemplate)
		if !branchSet[name] {
			continue
		}

		var inf *inferred
		if e.cfg.Anchor == plan.AnchorFirst {
			inf, err = e.inferFromFirst(ctx, name, i, len(local), bySubject, found, upstreamSubject)
		} else {
			inf, err = e.inferFromLast(ctx, name, i, bySubject, byName, upstreamSubject)
		}
		if err != nil {
			return nil, err
		}

		byName[name] = inf
		found = append(found, inf)
	}

	sort.Slice(found, func(a, b int) bool {
		return pos[found[a].commits[0].Subject] < pos[found[b].commits[0].Subject]
	})

	index := make(map[*inferred]int, len(found))
	for i, inf := range found {
		index[inf] = i
	}

	p := &plan.Plan{Local: local}
	for i, inf := range found {
		dep := plan.Upstream
		if inf.dep != nil {
			dep = index[inf.dep]
		}
		p.Deltas = append(p.Deltas, &plan.Delta{
			ID:      strconv.Itoa(i),
			Commits: inf.commits,
			Dep:     dep,
		})
	}
	return p, nil
}

// inferFromFirst recovers a delta anchored on its first commit. The branch
// history is walked back far enough to cover every local commit that could
// follow the anchor; the eponymous commit marks the delta's start, the
// commit just below it identifies the dependency.
func (e *Engine) inferFromFirst(ctx context.Context, name string, i, nLocal int, bySubject map[string]plan.Commit, found []*inferred, upstreamSubject string) (*inferred, error) {
	candidates, err := e.run.LastCommits(ctx, name, nLocal-i+1)
	if err != nil {
		return nil, err
	}

	start := -1
	for j, cc := range candidates {
		if plan.DeriveBranchName(cc.Subject, e.cfg.BranchTemplate) == name {
			start = j
			break
		}
	}
	if start < 0 {
		return nil, invalidBranchState(name)
	}

	inf := &inferred{name: name}
	if start > 0 {
		prev := candidates[start-1]
		for _, other := range found {
			if other.commits[len(other.commits)-1].Subject == prev.Subject {
				inf.dep = other
				break
			}
		}
		if inf.dep == nil && prev.Subject != upstreamSubject {
			e.log.Warn("warning: unknown commit below branch %s: %q", name, prev.Subject)
		}
	}

	for _, cc := range candidates[start:] {
		c, ok := bySubject[cc.Subject]
		if !ok {
			e.log.Warn("warning: unknown commit message encountered: %q", cc.Subject)
			break
		}
		inf.commits = append(inf.commits, c)
	}
	if len(inf.commits) == 0 {
		return nil, invalidBranchState(name)
	}
	return inf, nil
}

// inferFromLast recovers a delta anchored on its last commit, which is the
// branch tip. Walking the branch history backwards, a commit belonging to an
// already recovered delta marks the dependency; known local subjects extend
// the delta; anything else ends it.
func (e *Engine) inferFromLast(ctx context.Context, name string, i int, bySubject map[string]plan.Commit, byName map[string]*inferred, upstreamSubject string) (*inferred, error) {
	candidates, err := e.run.LastCommits(ctx, name, i+1)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, invalidBranchState(name)
	}
	tip := candidates[len(candidates)-1]
	if plan.DeriveBranchName(tip.Subject, e.cfg.BranchTemplate) != name {
		return nil, invalidBranchState(name)
	}

	inf := &inferred{name: name}
	for j := len(candidates) - 1; j >= 0; j-- {
		cc := candidates[j]
		ccName := plan.DeriveBranchName(cc.Subject, e.cfg.BranchTemplate)
		if other, ok := byName[ccName]; ok && ccName != name {
			inf.dep = other
			break
		}
		if c, ok := bySubject[cc.Subject]; ok {
			inf.commits = append([]plan.Commit{c}, inf.commits...)
			continue
		}
		if cc.Subject != upstreamSubject {
			e.log.Warn("warning: unknown commit message encountered: %q", cc.Subject)
		}
		break
	}
	if len(inf.commits) == 0 {
		return nil, invalidBranchState(name)
	}
	return inf, nil
}

func invalidBranchState(name string) error {
	return fmt.Errorf(
		"branch %s no longer matches the state its name implies; delete it with `git branch -D %s` or run `flok reset` to start over",
		name, name)
}
