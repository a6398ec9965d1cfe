package engine

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"flok.dev/flok/internal/plan"
)

// fakeCommit is one commit in the fake repository. PatchID stands in for the
// commit's content; cherry-picking preserves it while minting a new SHA.
type fakeCommit struct {
	sha     string
	subject string
	parent  string
	patchID string
}

// fakeRunner is an in-memory git.Runner with linear histories, enough to
// exercise reconciliation and apply without a real repository.
type fakeRunner struct {
	commits  map[string]fakeCommit
	branches map[string]string
	current  string
	head     string
	nextSHA  int

	// conflicts holds patch IDs whose cherry-pick fails
	conflicts map[string]bool

	deleted      []string
	cherryPicked int
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{
		commits:   make(map[string]fakeCommit),
		branches:  make(map[string]string),
		conflicts: make(map[string]bool),
	}
}

// commit appends a commit to a branch and returns its SHA
func (f *fakeRunner) commit(branch, subject string) string {
	return f.commitPatch(branch, subject, "patch:"+subject)
}

// commitPatch appends a commit with an explicit patch ID, for simulating an
// amended commit whose subject stayed the same
func (f *fakeRunner) commitPatch(branch, subject, patchID string) string {
	sha := f.mintSHA()
	f.commits[sha] = fakeCommit{
		sha:     sha,
		subject: subject,
		parent:  f.branches[branch],
		patchID: patchID,
	}
	f.branches[branch] = sha
	if f.current == branch {
		f.head = sha
	}
	return sha
}

func (f *fakeRunner) mintSHA() string {
	f.nextSHA++
	return fmt.Sprintf("%08da1b2c3d4", f.nextSHA)
}

func (f *fakeRunner) RepoRoot() (string, error) {
	return "/fake", nil
}

func (f *fakeRunner) CurrentBranch() (string, error) {
	if f.current == "" {
		return "", fmt.Errorf("HEAD is not on a branch")
	}
	return f.current, nil
}

func (f *fakeRunner) LocalBranches() ([]string, error) {
	names := make([]string, 0, len(f.branches))
	for name := range f.branches {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (f *fakeRunner) BranchExists(name string) bool {
	_, ok := f.branches[name]
	return ok
}

func (f *fakeRunner) ObjectExists(rev string) bool {
	_, err := f.ResolveRevision(rev)
	return err == nil
}

func (f *fakeRunner) ResolveRevision(rev string) (string, error) {
	name := rev
	back := 0
	if idx := strings.Index(rev, "~"); idx >= 0 {
		name = rev[:idx]
		n, err := strconv.Atoi(rev[idx+1:])
		if err != nil {
			return "", fmt.Errorf("bad revision %q", rev)
		}
		back = n
	}

	sha := ""
	switch {
	case name == "HEAD":
		sha = f.head
	case f.branches[name] != "":
		sha = f.branches[name]
	default:
		if _, ok := f.commits[name]; ok {
			sha = name
		}
	}
	if sha == "" {
		return "", fmt.Errorf("unknown revision %q", rev)
	}

	for i := 0; i < back; i++ {
		c, ok := f.commits[sha]
		if !ok || c.parent == "" {
			return "", fmt.Errorf("revision %q walks past the root", rev)
		}
		sha = c.parent
	}
	return sha, nil
}

func (f *fakeRunner) Head() (string, error) {
	if f.head == "" {
		return "", fmt.Errorf("unborn HEAD")
	}
	return f.head, nil
}

func (f *fakeRunner) IsWorkTreeClean(context.Context) (bool, error) {
	return true, nil
}

func (f *fakeRunner) CommitsBetween(_ context.Context, base, tip string) ([]plan.Commit, error) {
	baseSHA, err := f.ResolveRevision(base)
	if err != nil {
		return nil, err
	}
	tipSHA, err := f.ResolveRevision(tip)
	if err != nil {
		return nil, err
	}

	var commits []plan.Commit
	for sha := tipSHA; sha != "" && sha != baseSHA; {
		c := f.commits[sha]
		commits = append(commits, plan.Commit{SHA: c.sha, Subject: c.subject})
		sha = c.parent
	}
	reverse(commits)
	return commits, nil
}

func (f *fakeRunner) LastCommits(_ context.Context, rev string, n int) ([]plan.Commit, error) {
	sha, err := f.ResolveRevision(rev)
	if err != nil {
		return nil, err
	}

	var commits []plan.Commit
	for ; sha != "" && len(commits) < n; sha = f.commits[sha].parent {
		c := f.commits[sha]
		commits = append(commits, plan.Commit{SHA: c.sha, Subject: c.subject})
	}
	reverse(commits)
	return commits, nil
}

func (f *fakeRunner) IsAncestor(ancestor, descendant string) (bool, error) {
	ancestorSHA, err := f.ResolveRevision(ancestor)
	if err != nil {
		return false, err
	}
	sha, err := f.ResolveRevision(descendant)
	if err != nil {
		return false, err
	}
	for ; sha != ""; sha = f.commits[sha].parent {
		if sha == ancestorSHA {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRunner) HaveDiverged(_ context.Context, local, upstream string) (bool, error) {
	onUpstreamOnly, err := f.IsAncestor(upstream, local)
	if err != nil {
		return false, err
	}
	return !onUpstreamOnly, nil
}

func (f *fakeRunner) PatchID(_ context.Context, rev string) (string, error) {
	sha, err := f.ResolveRevision(rev)
	if err != nil {
		return "", err
	}
	return f.commits[sha].patchID, nil
}

func (f *fakeRunner) RemoteTrackingBranch(context.Context, string) (string, error) {
	return "", nil
}

func (f *fakeRunner) CheckoutBranch(_ context.Context, name string) error {
	sha, ok := f.branches[name]
	if !ok {
		return fmt.Errorf("no branch %q", name)
	}
	f.current = name
	f.head = sha
	return nil
}

func (f *fakeRunner) CheckoutDetached(_ context.Context, rev string) error {
	sha, err := f.ResolveRevision(rev)
	if err != nil {
		return err
	}
	f.current = ""
	f.head = sha
	return nil
}

func (f *fakeRunner) ForceBranch(name, rev string) error {
	sha, err := f.ResolveRevision(rev)
	if err != nil {
		return err
	}
	f.branches[name] = sha
	return nil
}

func (f *fakeRunner) DeleteBranch(_ context.Context, name string) error {
	if _, ok := f.branches[name]; !ok {
		return fmt.Errorf("no branch %q", name)
	}
	delete(f.branches, name)
	f.deleted = append(f.deleted, name)
	return nil
}

func (f *fakeRunner) CherryPick(_ context.Context, shas ...string) error {
	for _, sha := range shas {
		src, ok := f.commits[sha]
		if !ok {
			return fmt.Errorf("unknown commit %q", sha)
		}
		if f.conflicts[src.patchID] {
			return fmt.Errorf("could not apply %s", sha)
		}
		newSHA := f.mintSHA()
		f.commits[newSHA] = fakeCommit{
			sha:     newSHA,
			subject: src.subject,
			parent:  f.head,
			patchID: src.patchID,
		}
		f.head = newSHA
		f.cherryPicked++
	}
	return nil
}

func (f *fakeRunner) CherryPickAbort(context.Context) error {
	return nil
}

func (f *fakeRunner) CherryPickHead() (string, error) {
	return "", fmt.Errorf("no cherry-pick in progress")
}

func (f *fakeRunner) Push(context.Context, string, string, []string) (string, error) {
	return "", nil
}

func reverse(commits []plan.Commit) {
	for i, j := 0, len(commits)-1; i < j; i, j = i+1, j-1 {
		commits[i], commits[j] = commits[j], commits[i]
	}
}
