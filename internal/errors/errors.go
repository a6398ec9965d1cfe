// Package errors provides sentinel errors and custom error types for the flok application.
// Use errors.Is() and errors.As() to check for specific error types.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common conditions
var (
	// ErrPlanSyntax indicates that the integration plan text could not be parsed
	ErrPlanSyntax = errors.New("plan syntax error")

	// ErrAmbiguousDependency indicates that a delta states two different dependencies
	ErrAmbiguousDependency = errors.New("ambiguous dependency")

	// ErrCrossingDependency indicates that dependency pointers cross the delta order
	ErrCrossingDependency = errors.New("crossing dependency")

	// ErrDuplicateAnchor indicates that two deltas derive the same branch name
	ErrDuplicateAnchor = errors.New("duplicate anchor")

	// ErrCherryPickConflict indicates that a cherry-pick stopped on a conflict
	ErrCherryPickConflict = errors.New("cherry-pick conflict")

	// ErrDirtyWorkTree indicates that the work tree has uncommitted changes
	ErrDirtyWorkTree = errors.New("work tree not clean")

	// ErrDiverged indicates that local and upstream have diverged
	ErrDiverged = errors.New("local and upstream have diverged")

	// ErrOnManagedBranch indicates that HEAD is on a flok-managed branch
	ErrOnManagedBranch = errors.New("on a flok-managed branch")

	// ErrNotOnLocal indicates that HEAD is not on the configured local branch
	ErrNotOnLocal = errors.New("not on the local branch")

	// ErrNoRemote indicates that no remote is configured
	ErrNoRemote = errors.New("remote must be set")
)

// ParseError represents a syntax error in the integration plan text.
// Line is 1-based and refers to the plan as presented to the user,
// comment and blank lines included.
type ParseError struct {
	Line   int
	Reason string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
	}
	return e.Reason
}

// Is returns true if the target error is ErrPlanSyntax
func (e *ParseError) Is(target error) bool {
	return target == ErrPlanSyntax
}

// NewParseError creates a new ParseError
func NewParseError(line int, format string, args ...interface{}) *ParseError {
	return &ParseError{Line: line, Reason: fmt.Sprintf(format, args...)}
}

// AmbiguousDependencyError represents conflicting dependency restatements within one delta
type AmbiguousDependencyError struct {
	Line  int
	Label string
	First string
	Other string
}

func (e *AmbiguousDependencyError) Error() string {
	return fmt.Sprintf("line %d: delta %q states dependency %q but was already assigned %q",
		e.Line, e.Label, e.Other, e.First)
}

// Is returns true if the target error is ErrAmbiguousDependency or ErrPlanSyntax
func (e *AmbiguousDependencyError) Is(target error) bool {
	return target == ErrAmbiguousDependency || target == ErrPlanSyntax
}

// CrossingDependencyError represents a dependency pointer that crosses the delta order,
// making the plan unrealizable as a set of linear branch chains.
type CrossingDependencyError struct {
	DeltaID      string
	DependencyID string
	Hints        []string
}

func (e *CrossingDependencyError) Error() string {
	return fmt.Sprintf("delta d%s cannot depend on d%s: the dependency crosses an open chain",
		e.DeltaID, e.DependencyID)
}

// Is returns true if the target error is ErrCrossingDependency
func (e *CrossingDependencyError) Is(target error) bool {
	return target == ErrCrossingDependency
}

// NewCrossingDependencyError creates a new CrossingDependencyError
func NewCrossingDependencyError(deltaID, dependencyID string, hints ...string) *CrossingDependencyError {
	return &CrossingDependencyError{DeltaID: deltaID, DependencyID: dependencyID, Hints: hints}
}

// DuplicateAnchorError represents two deltas whose anchor commits derive the same branch name
type DuplicateAnchorError struct {
	BranchName string
	FirstID    string
	SecondID   string
}

func (e *DuplicateAnchorError) Error() string {
	return fmt.Sprintf("deltas d%s and d%s both derive branch name %q; edit the anchor commit messages so they differ",
		e.FirstID, e.SecondID, e.BranchName)
}

// Is returns true if the target error is ErrDuplicateAnchor
func (e *DuplicateAnchorError) Is(target error) bool {
	return target == ErrDuplicateAnchor
}

// CherryPickConflictError represents a cherry-pick that stopped on a conflict.
// The branch under construction is left in git's native conflict state.
type CherryPickConflictError struct {
	BranchName string
	CommitSHA  string
	Hints      []string
}

func (e *CherryPickConflictError) Error() string {
	if e.CommitSHA != "" {
		return fmt.Sprintf("cherry-pick failed at branch %s on commit %s", e.BranchName, e.CommitSHA)
	}
	return fmt.Sprintf("cherry-pick failed at branch %s", e.BranchName)
}

// Is returns true if the target error is ErrCherryPickConflict
func (e *CherryPickConflictError) Is(target error) bool {
	return target == ErrCherryPickConflict
}

// GitCommandError represents an error from a git command execution
type GitCommandError struct {
	Command string
	Args    []string
	Stdout  string
	Stderr  string
	Err     error
}

func (e *GitCommandError) Error() string {
	msg := fmt.Sprintf("git command failed: %s", e.Command)
	if len(e.Args) > 0 {
		msg += fmt.Sprintf(" %v", e.Args)
	}
	if e.Stderr != "" {
		msg += fmt.Sprintf("\nstderr: %s", e.Stderr)
	}
	if e.Stdout != "" {
		msg += fmt.Sprintf("\nstdout: %s", e.Stdout)
	}
	if e.Err != nil {
		msg += fmt.Sprintf("\n%v", e.Err)
	}
	return msg
}

func (e *GitCommandError) Unwrap() error {
	return e.Err
}

// NewGitCommandError creates a new GitCommandError
func NewGitCommandError(command string, args []string, stdout, stderr string, err error) *GitCommandError {
	return &GitCommandError{
		Command: command,
		Args:    args,
		Stdout:  stdout,
		Stderr:  stderr,
		Err:     err,
	}
}

// HintsOf returns the remediation hints attached to err, if any.
func HintsOf(err error) []string {
	var crossing *CrossingDependencyError
	if errors.As(err, &crossing) {
		return crossing.Hints
	}
	var conflict *CherryPickConflictError
	if errors.As(err, &conflict) {
		return conflict.Hints
	}
	return nil
}

// IsValidationError reports whether err rejected the plan before any repository
// mutation: syntax, structural and identity errors all qualify.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrPlanSyntax) ||
		errors.Is(err, ErrCrossingDependency) ||
		errors.Is(err, ErrDuplicateAnchor)
}

// FormatHints renders hints the way the CLI prints them.
func FormatHints(hints []string) string {
	var b strings.Builder
	for _, h := range hints {
		fmt.Fprintf(&b, "Hint: %s\n", h)
	}
	return b.String()
}
