// Package engine contains the core flok workflow: reading the local commit
// sequence, building and reconstructing integration plans, reconciling a
// validated plan against the repository's managed branches and applying the
// resulting actions with cherry-picks.
//
// The engine never talks to git directly; it depends on the git.Runner
// interface so the same logic runs against a real repository and against the
// in-memory fake used in tests.
package engine
