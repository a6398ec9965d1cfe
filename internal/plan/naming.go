package plan

import (
	"crypto/md5"
	"encoding/hex"
	"regexp"
	"strconv"
	"strings"

	flokerrors "flok.dev/flok/internal/errors"
)

// AnchorPolicy selects which commit of a delta derives its branch name.
type AnchorPolicy string

const (
	// AnchorFirst derives the branch name from the delta's first commit
	AnchorFirst AnchorPolicy = "first"
	// AnchorLast derives the branch name from the delta's last commit
	AnchorLast AnchorPolicy = "last"
)

const (
	// MaxBranchNameByteLength caps derived names well inside git's ref limits
	MaxBranchNameByteLength = 234

	// fingerprintLength is the number of hex digits of the subject digest
	// kept in the branch name
	fingerprintLength = 8

	// NamePlaceholder is the token in a branch template replaced by the
	// derived slug-and-fingerprint name
	NamePlaceholder = "{name}"
)

// wordRegex extracts the lowercase word runs that make up the slug
var wordRegex = regexp.MustCompile(`[0-9a-z]+`)

// DeriveBranchName maps a commit subject to a stable, ref-safe branch name:
// a lowercase word slug plus a fixed-width content fingerprint, rendered
// through the configured template. The name only depends on the subject
// text, never on the commit SHA, because cherry-picking rewrites SHAs on
// every run.
func DeriveBranchName(subject, template string) string {
	sum := md5.Sum([]byte(subject))
	fingerprint := hex.EncodeToString(sum[:])[:fingerprintLength]

	words := wordRegex.FindAllString(strings.ToLower(subject), -1)
	name := fingerprint
	if len(words) > 0 {
		name = strings.Join(words, "-") + "-" + fingerprint
	}
	if len(name) > MaxBranchNameByteLength {
		keep := MaxBranchNameByteLength - fingerprintLength - 1
		name = strings.TrimSuffix(name[:keep], "-") + "-" + fingerprint
	}

	if !strings.Contains(template, NamePlaceholder) {
		return name
	}
	return strings.ReplaceAll(template, NamePlaceholder, name)
}

// ManagedNamePattern returns the anchored regular expression that recognizes
// branches created by flok under the given template. This naming convention
// is the only persisted record of branch ownership.
func ManagedNamePattern(template string) *regexp.Regexp {
	namePattern := `(?:[0-9a-z]+-)*[0-9a-f]{` + strconv.Itoa(fingerprintLength) + `}`
	if !strings.Contains(template, NamePlaceholder) {
		return regexp.MustCompile(`^` + namePattern + `$`)
	}
	quoted := regexp.QuoteMeta(template)
	quotedPlaceholder := regexp.QuoteMeta(NamePlaceholder)
	return regexp.MustCompile(`^` + strings.ReplaceAll(quoted, quotedPlaceholder, namePattern) + `$`)
}

// AssignBranchNames derives a branch name for every delta from its anchor
// commit and records each delta's target branch. Must run after Validate so
// that dependencies precede their dependents in canonical order.
func AssignBranchNames(p *Plan, policy AnchorPolicy, template, upstreamName string) error {
	seen := make(map[string]string, len(p.Deltas))
	for _, d := range p.Deltas {
		name := DeriveBranchName(d.Anchor(policy).Subject, template)
		if firstID, ok := seen[name]; ok {
			return &flokerrors.DuplicateAnchorError{
				BranchName: name,
				FirstID:    firstID,
				SecondID:   d.ID,
			}
		}
		seen[name] = d.ID

		d.BranchName = name
		if d.Dep == Upstream {
			d.TargetName = upstreamName
		} else {
			d.TargetName = p.Deltas[d.Dep].BranchName
		}
	}
	return nil
}
