package plan

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	flokerrors "flok.dev/flok/internal/errors"
)

func TestDeriveBranchName(t *testing.T) {
	t.Parallel()

	name := DeriveBranchName("Add the parser!", NamePlaceholder)
	require.Regexp(t, `^add-the-parser-[0-9a-f]{8}$`, name)

	// Stable across calls, sensitive to the subject text
	require.Equal(t, name, DeriveBranchName("Add the parser!", NamePlaceholder))
	require.NotEqual(t, name, DeriveBranchName("Add the parser", NamePlaceholder))
}

func TestDeriveBranchNameSubjectWithoutWords(t *testing.T) {
	t.Parallel()

	name := DeriveBranchName("!!!", NamePlaceholder)
	require.Regexp(t, `^[0-9a-f]{8}$`, name)
}

func TestDeriveBranchNameTemplate(t *testing.T) {
	t.Parallel()

	name := DeriveBranchName("fix it", "wip/{name}")
	require.True(t, strings.HasPrefix(name, "wip/fix-it-"))
}

func TestDeriveBranchNameCapsLength(t *testing.T) {
	t.Parallel()

	subject := strings.Repeat("verylongword ", 40)
	name := DeriveBranchName(subject, NamePlaceholder)
	require.LessOrEqual(t, len(name), MaxBranchNameByteLength)
	require.Regexp(t, `-[0-9a-f]{8}$`, name)
}

func TestManagedNamePattern(t *testing.T) {
	t.Parallel()

	pattern := ManagedNamePattern(NamePlaceholder)
	require.True(t, pattern.MatchString(DeriveBranchName("Add the parser!", NamePlaceholder)))
	require.True(t, pattern.MatchString(DeriveBranchName("!!!", NamePlaceholder)))
	require.False(t, pattern.MatchString("main"))
	require.False(t, pattern.MatchString("feature/add-parser"))
	require.False(t, pattern.MatchString("add-parser"))
}

func TestManagedNamePatternWithTemplate(t *testing.T) {
	t.Parallel()

	pattern := ManagedNamePattern("wip/{name}")
	derived := DeriveBranchName("fix it", "wip/{name}")
	require.True(t, pattern.MatchString(derived))
	require.False(t, pattern.MatchString(DeriveBranchName("fix it", NamePlaceholder)))
	require.False(t, pattern.MatchString("wip/fix-it"))
}

func TestAssignBranchNames(t *testing.T) {
	t.Parallel()

	local := testCommits("add parser", "parser tests", "add lexer")
	p := &Plan{Local: local, Deltas: []*Delta{
		{ID: "0", Commits: []Commit{local[0], local[1]}, Dep: Upstream},
		{ID: "1", Commits: []Commit{local[2]}, Dep: 0},
	}}

	err := AssignBranchNames(p, AnchorFirst, NamePlaceholder, "origin/main")
	require.NoError(t, err)
	require.Equal(t, DeriveBranchName("add parser", NamePlaceholder), p.Deltas[0].BranchName)
	require.Equal(t, "origin/main", p.Deltas[0].TargetName)
	require.Equal(t, p.Deltas[0].BranchName, p.Deltas[1].TargetName)
}

func TestAssignBranchNamesAnchorPolicy(t *testing.T) {
	t.Parallel()

	local := testCommits("first subject", "last subject")
	p := &Plan{Local: local, Deltas: []*Delta{
		{ID: "0", Commits: []Commit{local[0], local[1]}, Dep: Upstream},
	}}

	require.NoError(t, AssignBranchNames(p, AnchorLast, NamePlaceholder, "origin/main"))
	require.Equal(t, DeriveBranchName("last subject", NamePlaceholder), p.Deltas[0].BranchName)
}

func TestAssignBranchNamesRejectsCollisions(t *testing.T) {
	t.Parallel()

	local := testCommits("same subject", "other subject")
	// Different commits, same anchor subject through the last-commit anchor
	p := &Plan{Local: local, Deltas: []*Delta{
		{ID: "0", Commits: []Commit{local[0]}, Dep: Upstream},
		{ID: "1", Commits: []Commit{local[1], {SHA: "ffffffff", Subject: "same subject"}}, Dep: 0},
	}}

	err := AssignBranchNames(p, AnchorLast, NamePlaceholder, "origin/main")
	require.ErrorIs(t, err, flokerrors.ErrDuplicateAnchor)
}
