package cli

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveDeltaRef(t *testing.T) {
	t.Parallel()

	branches := []string{
		"add-parser-1a2b3c4d",
		"parser-tests-5e6f7a8b",
		"add-lexer-9c0d1e2f",
	}

	tests := []struct {
		name    string
		ref     string
		want    string
		wantErr string
	}{
		{name: "index", ref: "1", want: "parser-tests-5e6f7a8b"},
		{name: "index with prefix", ref: "d2", want: "add-lexer-9c0d1e2f"},
		{name: "unique substring", ref: "lexer", want: "add-lexer-9c0d1e2f"},
		{name: "case insensitive substring", ref: "LEXER", want: "add-lexer-9c0d1e2f"},
		{name: "index out of range falls back to substring", ref: "9", wantErr: "unique"},
		{name: "ambiguous substring", ref: "parser", wantErr: "unique"},
		{name: "no match", ref: "nothing", wantErr: "unique"},
		{name: "invalid characters", ref: "a b", wantErr: "invalid"},
		{name: "empty", ref: "", wantErr: "invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ResolveDeltaRef(tt.ref, branches)
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}
