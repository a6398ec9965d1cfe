package plan

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSerialize(t *testing.T) {
	t.Parallel()

	local := testCommits("one", "two", "three")
	p := &Plan{Local: local, Deltas: []*Delta{
		{ID: "0", Commits: []Commit{local[0]}, Dep: Upstream},
		{ID: "1", Commits: []Commit{local[2]}, Dep: 0},
	}}

	got := Serialize(p)
	want := "d0 " + local[0].ShortString() + "\n" +
		"s " + local[1].ShortString() + "\n" +
		"d1@d0 " + local[2].ShortString() + "\n"
	require.Equal(t, want, got)
}

func TestSerializeParseRoundTrip(t *testing.T) {
	t.Parallel()

	local := testCommits("one", "two", "three", "four", "five")

	tests := []struct {
		name string
		text string
	}{
		{
			name: "skips only",
			text: "",
		},
		{
			name: "flat",
			text: line("d", local[0]) + "\n" + line("d", local[1]),
		},
		{
			name: "stacked with skips",
			text: line("da", local[0]) + "\n" +
				line("s", local[1]) + "\n" +
				line("db@a", local[2]),
		},
		{
			name: "multi-commit delta with a second chain",
			text: line("da", local[0]) + "\n" +
				line("da", local[1]) + "\n" +
				line("db@a", local[2]) + "\n" +
				line("dc", local[3]) + "\n" +
				line("dd@c", local[4]),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p, err := Parse(tt.text, local)
			require.NoError(t, err)

			again, err := Parse(Serialize(p), local)
			require.NoError(t, err)
			require.True(t, p.Equal(again))

			// Serialization is canonical, so it is a fixed point
			require.Equal(t, Serialize(p), Serialize(again))
		})
	}
}

func TestStripComments(t *testing.T) {
	t.Parallel()

	text := "d0 abcd1234 one\n\n# a comment\ns abcd5678 two\n   \n"
	got := StripComments(text)
	require.Equal(t, "d0 abcd1234 one\ns abcd5678 two", got)

	require.Equal(t, "", StripComments(Instructions))
}

func TestInstructionsSurviveRoundTrip(t *testing.T) {
	t.Parallel()

	local := testCommits("one", "two")
	p, err := Parse(line("d", local[0])+Instructions, local)
	require.NoError(t, err)
	require.Len(t, p.Deltas, 1)
	require.True(t, strings.HasPrefix(Serialize(p), "d0 "))
}
