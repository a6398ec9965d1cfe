package plan

import (
	"fmt"
	"strings"
)

// Instructions is appended to the plan when it is opened in an editor.
// It documents the line grammar; parsing strips it back out.
const Instructions = `

# Edit the integration plan.
#
# Commands:
# d <commit> = use commit in a single-commit delta off upstream
# d@<ref> <commit> = use commit in a single-commit delta off delta <ref>
# d<label> <commit> = use commit in the labeled delta
# d<label>@<ref> <commit> = use commit in the labeled delta off delta <ref>
# s <commit> = do not use commit
#
# A dependency reference is a delta label, optionally prefixed with "d".
# If you delete a line, the commit will not be used (same as "s").
# If you remove everything, nothing will be changed.
#
`

// Serialize renders a canonical plan as editable text: one line per local
// commit in local order. Serializing and re-parsing a canonical plan yields
// the identical canonical plan.
func Serialize(p *Plan) string {
	var b strings.Builder
	for _, c := range p.Local {
		b.WriteString(serializeLine(p, c))
		b.WriteString("\n")
	}
	return b.String()
}

func serializeLine(p *Plan, c Commit) string {
	d := p.DeltaFor(c.SHA)
	if d == nil {
		return fmt.Sprintf("s %s", c.ShortString())
	}
	command := "d" + d.ID
	if d.Dep != Upstream {
		command += "@d" + p.Deltas[d.Dep].ID
	}
	return fmt.Sprintf("%s %s", command, c.ShortString())
}

// StripComments drops comment and blank lines, returning only the lines
// that carry plan content. Used to decide whether an edited plan is empty.
func StripComments(text string) string {
	var kept []string
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}
