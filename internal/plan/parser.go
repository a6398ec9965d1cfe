package plan

import (
	"regexp"
	"strconv"
	"strings"

	flokerrors "flok.dev/flok/internal/errors"
)

// deltaCommandRegex matches a delta action token: "d", an optional alnum
// label, and an optional "@ref" dependency where ref may carry a "d" prefix.
var deltaCommandRegex = regexp.MustCompile(`^d([0-9A-Za-z]*)(?:@(d?[0-9A-Za-z]+))?$`)

// parsedLine is one plan line after tokenization, before canonicalization.
type parsedLine struct {
	lineNo int
	label  string // "" means a synthetic single-line label
	depRef string // "" means no dependency stated on this line
	commit Commit
	pos    int // index of commit in the local sequence
}

// lineGroup accumulates the lines of one delta during canonicalization.
type lineGroup struct {
	label    string // explicit label, or synthetic marker
	explicit bool
	lines    []parsedLine

	depGroup *lineGroup // resolved dependency, nil = upstream
	depLine  int        // line that stated the dependency, for error reporting
}

func (g *lineGroup) firstPos() int {
	return g.lines[0].pos
}

// Parse turns raw plan text plus the local commit sequence into a canonical
// Plan. Lines are matched to local commits in order by SHA prefix; a local
// commit with no line is skipped. Comment lines and blank lines are ignored.
//
// All failures are reported with the 1-based line number of the offending
// line in the text as presented to the user.
func Parse(text string, local []Commit) (*Plan, error) {
	lines, err := tokenize(text, local)
	if err != nil {
		return nil, err
	}

	groups, err := groupLines(lines)
	if err != nil {
		return nil, err
	}

	if err := resolveDependencies(groups); err != nil {
		return nil, err
	}

	return canonicalize(local, groups)
}

// tokenize splits the plan into parsed lines and matches each delta line to
// a local commit. The match cursor only moves forward, which both enforces
// that plan lines appear in local-commit order and guarantees every commit
// is consumed at most once.
func tokenize(text string, local []Commit) ([]parsedLine, error) {
	var lines []parsedLine
	cursor := 0
	for i, raw := range strings.Split(text, "\n") {
		lineNo := i + 1
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		fields := strings.Fields(trimmed)
		if len(fields) < 2 {
			return nil, flokerrors.NewParseError(lineNo, "each line needs at least an action and a commit id")
		}
		command, shaPrefix := fields[0], fields[1]

		if command == "s" {
			// An absent line means skip, so a present skip line only has to
			// be well-formed; the commit is left unassigned either way.
			continue
		}

		m := deltaCommandRegex.FindStringSubmatch(command)
		if m == nil {
			return nil, flokerrors.NewParseError(lineNo, "unrecognized action %q", command)
		}

		pos := matchCommit(local, shaPrefix, cursor)
		if pos < 0 {
			return nil, flokerrors.NewParseError(lineNo, "cannot match commit %q to a local commit", shaPrefix)
		}
		cursor = pos + 1

		lines = append(lines, parsedLine{
			lineNo: lineNo,
			label:  m[1],
			depRef: m[2],
			commit: local[pos],
			pos:    pos,
		})
	}
	return lines, nil
}

// matchCommit finds the first local commit at or after the cursor whose SHA
// starts with the given prefix. Returns -1 when there is none.
func matchCommit(local []Commit, shaPrefix string, cursor int) int {
	for i := cursor; i < len(local); i++ {
		if strings.HasPrefix(local[i].SHA, shaPrefix) {
			return i
		}
	}
	return -1
}

// groupLines partitions lines into deltas. An explicit label groups every
// line carrying it into the same delta, adjacent or not. A line without a
// label always becomes its own delta; omitted labels are never merged.
func groupLines(lines []parsedLine) ([]*lineGroup, error) {
	var groups []*lineGroup
	byLabel := make(map[string]*lineGroup)
	synthetic := 0

	for _, line := range lines {
		if line.label == "" {
			// Synthetic markers stay internal; canonical IDs are positional,
			// so they never surface in serialized plans.
			g := &lineGroup{label: "~" + strconv.Itoa(synthetic)}
			synthetic++
			g.lines = append(g.lines, line)
			groups = append(groups, g)
			continue
		}

		g, ok := byLabel[line.label]
		if !ok {
			g = &lineGroup{label: line.label, explicit: true}
			byLabel[line.label] = g
			groups = append(groups, g)
		}
		g.lines = append(g.lines, line)
	}
	return groups, nil
}

// resolveDependencies resolves every @ref against the explicit labels of the
// plan and enforces the per-line rules: the referenced delta's first commit
// must be strictly earlier than the referencing line's commit, and a delta
// may state its dependency on any number of lines as long as every statement
// resolves to the same target.
func resolveDependencies(groups []*lineGroup) error {
	byLabel := make(map[string]*lineGroup)
	for _, g := range groups {
		if g.explicit {
			byLabel[g.label] = g
		}
	}

	for _, g := range groups {
		for _, line := range g.lines {
			if line.depRef == "" {
				continue
			}
			target := lookupLabel(byLabel, line.depRef)
			if target == nil {
				return flokerrors.NewParseError(line.lineNo, "dependency %q does not name a delta", line.depRef)
			}
			if target == g || target.firstPos() >= line.pos {
				return flokerrors.NewParseError(line.lineNo,
					"dependency %q must start earlier than this commit (forward and self references are not allowed)",
					line.depRef)
			}
			if g.depGroup != nil && g.depGroup != target {
				return &flokerrors.AmbiguousDependencyError{
					Line:  line.lineNo,
					Label: g.label,
					First: g.depGroup.label,
					Other: target.label,
				}
			}
			if g.depGroup == nil {
				g.depGroup = target
				g.depLine = line.lineNo
			}
		}
	}
	return nil
}

// lookupLabel resolves a dependency reference. A bare label and a
// d-prefixed label denote the same delta; exact matches win so that a label
// which itself starts with "d" stays addressable.
func lookupLabel(byLabel map[string]*lineGroup, ref string) *lineGroup {
	if g, ok := byLabel[ref]; ok {
		return g
	}
	if stripped := strings.TrimPrefix(ref, "d"); stripped != ref {
		if g, ok := byLabel[stripped]; ok {
			return g
		}
	}
	return nil
}

// canonicalize orders deltas by first assigned commit, renumbers them with
// positional IDs and rewrites dependencies as indices.
func canonicalize(local []Commit, groups []*lineGroup) (*Plan, error) {
	// Groups are already in first-commit order: the match cursor is
	// monotonic, so first appearance order equals first commit order.
	index := make(map[*lineGroup]int, len(groups))
	for i, g := range groups {
		index[g] = i
	}

	p := &Plan{Local: local}
	for i, g := range groups {
		d := &Delta{ID: strconv.Itoa(i), Dep: Upstream}
		for _, line := range g.lines {
			d.Commits = append(d.Commits, line.commit)
		}
		if g.depGroup != nil {
			d.Dep = index[g.depGroup]
		}
		p.Deltas = append(p.Deltas, d)
	}
	return p, nil
}
