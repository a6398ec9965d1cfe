// Package git provides the version-control backend for flok.
//
// Read-side repository access (branches, refs, ancestry) goes through
// go-git; the mutating and plumbing operations go-git does not cover
// (cherry-pick, checkout, push, patch-id) shell out to the git binary via
// a CommandRunner. The Runner interface wraps both so the engine can be
// exercised against a fake backend in tests.
//
// This package should be the only place where git commands are executed.
package git
