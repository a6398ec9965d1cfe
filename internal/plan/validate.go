package plan

import (
	flokerrors "flok.dev/flok/internal/errors"
)

// Chain is a maximal run of deltas stacked on one another, root first. The
// root targets upstream; every later member targets the one before it.
type Chain []int

// Validate checks the non-crossing stack constraint and returns the chain
// partition of the plan, root chains in canonical order.
//
// Deltas are scanned in canonical order while a stack of open deltas is
// maintained. A delta targeting upstream opens a new chain and is pushed as
// a new base-level entry. A delta targeting another delta P is only legal
// while P is the top of the stack; it is pushed on top of P, which closes P
// for any later delta. Drawn as arcs over the delta order, this accepts a
// plan iff no two dependency arcs cross and no delta is targeted twice.
func Validate(p *Plan) ([]Chain, error) {
	var (
		stack   []int
		chains  []Chain
		chainOf = make(map[int]int, len(p.Deltas))
	)

	for i, d := range p.Deltas {
		if d.Dep == Upstream {
			stack = append(stack, i)
			chains = append(chains, Chain{i})
			chainOf[i] = len(chains) - 1
			continue
		}

		if d.Dep >= i || len(stack) == 0 || stack[len(stack)-1] != d.Dep {
			return nil, flokerrors.NewCrossingDependencyError(
				d.ID, p.Deltas[normalizeDep(p, d.Dep)].ID,
				"re-order local commits so that each delta directly follows the delta it depends on",
				"an interactive rebase of the local branch onto upstream changes the commit order without changing content",
			)
		}

		stack = append(stack, i)
		ci := chainOf[d.Dep]
		chains[ci] = append(chains[ci], i)
		chainOf[i] = ci
	}

	return chains, nil
}

// normalizeDep guards error reporting against dependency indices that fall
// outside the canonical range (a dependency stated on a late line of an
// early delta can point forward).
func normalizeDep(p *Plan, dep int) int {
	if dep < 0 || dep >= len(p.Deltas) {
		return 0
	}
	return dep
}
