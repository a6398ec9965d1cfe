package plan

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	flokerrors "flok.dev/flok/internal/errors"
)

// testCommits builds a local commit sequence with unique, prefix-friendly SHAs
func testCommits(subjects ...string) []Commit {
	commits := make([]Commit, len(subjects))
	for i, s := range subjects {
		commits[i] = Commit{
			SHA:     fmt.Sprintf("%08d%032d", i+1, i+1),
			Subject: s,
		}
	}
	return commits
}

func line(action string, c Commit) string {
	return fmt.Sprintf("%s %s", action, c.ShortString())
}

func TestParseSingleDelta(t *testing.T) {
	t.Parallel()

	local := testCommits("one", "two", "three")
	text := line("s", local[0]) + "\n" + line("d", local[1]) + "\n" + line("s", local[2])

	p, err := Parse(text, local)
	require.NoError(t, err)
	require.Len(t, p.Deltas, 1)
	require.Equal(t, "0", p.Deltas[0].ID)
	require.Equal(t, Upstream, p.Deltas[0].Dep)
	require.Equal(t, []Commit{local[1]}, p.Deltas[0].Commits)
}

func TestParseOmittedLineMeansSkip(t *testing.T) {
	t.Parallel()

	local := testCommits("one", "two", "three")
	text := line("d", local[1])

	p, err := Parse(text, local)
	require.NoError(t, err)
	require.Len(t, p.Deltas, 1)
	require.Equal(t, []Commit{local[1]}, p.Deltas[0].Commits)
	require.Nil(t, p.DeltaFor(local[0].SHA))
	require.Nil(t, p.DeltaFor(local[2].SHA))
}

func TestParseUnlabeledLinesStayDistinct(t *testing.T) {
	t.Parallel()

	local := testCommits("one", "two")
	text := line("d", local[0]) + "\n" + line("d", local[1])

	p, err := Parse(text, local)
	require.NoError(t, err)
	require.Len(t, p.Deltas, 2)
	require.Equal(t, Upstream, p.Deltas[0].Dep)
	require.Equal(t, Upstream, p.Deltas[1].Dep)
}

func TestParseExplicitLabelGroupsNonAdjacentLines(t *testing.T) {
	t.Parallel()

	local := testCommits("one", "two", "three")
	text := line("da", local[0]) + "\n" + line("d", local[1]) + "\n" + line("da", local[2])

	p, err := Parse(text, local)
	require.NoError(t, err)
	require.Len(t, p.Deltas, 2)
	require.Equal(t, []Commit{local[0], local[2]}, p.Deltas[0].Commits)
	require.Equal(t, []Commit{local[1]}, p.Deltas[1].Commits)
}

func TestParseDependencies(t *testing.T) {
	t.Parallel()

	local := testCommits("one", "two", "three")

	tests := []struct {
		name string
		text string
		deps []int
	}{
		{
			name: "stacked",
			text: line("da", local[0]) + "\n" + line("db@a", local[1]),
			deps: []int{Upstream, 0},
		},
		{
			name: "d-prefixed reference",
			text: line("da", local[0]) + "\n" + line("db@da", local[1]),
			deps: []int{Upstream, 0},
		},
		{
			name: "dependency inherited by later lines of the delta",
			text: line("da", local[0]) + "\n" + line("db@a", local[1]) + "\n" + line("db", local[2]),
			deps: []int{Upstream, 0},
		},
		{
			name: "dependency stated on a later line only",
			text: line("da", local[0]) + "\n" + line("db", local[1]) + "\n" + line("db@a", local[2]),
			deps: []int{Upstream, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p, err := Parse(tt.text, local)
			require.NoError(t, err)
			require.Len(t, p.Deltas, len(tt.deps))
			for i, dep := range tt.deps {
				require.Equal(t, dep, p.Deltas[i].Dep)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	local := testCommits("one", "two", "three")

	tests := []struct {
		name     string
		text     string
		sentinel error
	}{
		{
			name:     "unknown action",
			text:     line("x", local[0]),
			sentinel: flokerrors.ErrPlanSyntax,
		},
		{
			name:     "missing commit id",
			text:     "d",
			sentinel: flokerrors.ErrPlanSyntax,
		},
		{
			name:     "unmatched commit id",
			text:     "d deadbeef unknown subject",
			sentinel: flokerrors.ErrPlanSyntax,
		},
		{
			name:     "lines out of local order",
			text:     line("d", local[1]) + "\n" + line("d", local[0]),
			sentinel: flokerrors.ErrPlanSyntax,
		},
		{
			name:     "undefined dependency label",
			text:     line("d@zz", local[0]),
			sentinel: flokerrors.ErrPlanSyntax,
		},
		{
			name:     "self reference",
			text:     line("da@a", local[0]),
			sentinel: flokerrors.ErrPlanSyntax,
		},
		{
			name:     "forward reference",
			text:     line("da@b", local[0]) + "\n" + line("db", local[1]),
			sentinel: flokerrors.ErrPlanSyntax,
		},
		{
			name:     "skip line without commit id",
			text:     "s",
			sentinel: flokerrors.ErrPlanSyntax,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse(tt.text, local)
			require.ErrorIs(t, err, tt.sentinel)
		})
	}
}

func TestParseAmbiguousDependency(t *testing.T) {
	t.Parallel()

	local := testCommits("one", "two", "three", "four")
	text := line("db", local[0]) + "\n" +
		line("dc", local[1]) + "\n" +
		line("da@b", local[2]) + "\n" +
		line("da@c", local[3])

	_, err := Parse(text, local)
	require.ErrorIs(t, err, flokerrors.ErrAmbiguousDependency)

	var ambiguous *flokerrors.AmbiguousDependencyError
	require.ErrorAs(t, err, &ambiguous)
	require.Equal(t, 4, ambiguous.Line)
	require.Equal(t, "a", ambiguous.Label)
}

func TestParseErrorsCarryLineNumbers(t *testing.T) {
	t.Parallel()

	local := testCommits("one", "two")
	// Comment and blank lines count toward the reported line number
	text := "# plan\n\n" + line("d", local[0]) + "\nnope " + local[1].ShortString()

	_, err := Parse(text, local)
	var parseErr *flokerrors.ParseError
	require.ErrorAs(t, err, &parseErr)
	require.Equal(t, 4, parseErr.Line)
}

func TestParseIgnoresCommentsAndBlankLines(t *testing.T) {
	t.Parallel()

	local := testCommits("one")
	text := "\n# comment\n" + line("d", local[0]) + "\n\n# trailing\n"

	p, err := Parse(text, local)
	require.NoError(t, err)
	require.Len(t, p.Deltas, 1)
}
