package cli

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	// deltaRefRegex limits references to branch-name-like characters
	deltaRefRegex = regexp.MustCompile(`^[0-9A-Za-z_-]+$`)

	// indexRefRegex matches an index reference with an optional "d" prefix
	indexRefRegex = regexp.MustCompile(`^d?([0-9]+)$`)
)

// ResolveDeltaRef maps a user-supplied delta reference to one of the branch
// names, which must be in canonical delta order. An index reference selects
// by position; anything else matches as a case-insensitive substring and
// must be unique.
func ResolveDeltaRef(ref string, branches []string) (string, error) {
	ref = strings.TrimSpace(ref)
	if !deltaRefRegex.MatchString(ref) {
		return "", fmt.Errorf("invalid delta reference %q", ref)
	}

	if m := indexRefRegex.FindStringSubmatch(ref); m != nil {
		if index, err := strconv.Atoi(m[1]); err == nil && index < len(branches) {
			return branches[index], nil
		}
	}

	var matches []string
	needle := strings.ToLower(ref)
	for _, b := range branches {
		if strings.Contains(strings.ToLower(b), needle) {
			matches = append(matches, b)
		}
	}
	if len(matches) == 1 {
		return matches[0], nil
	}
	return "", fmt.Errorf("could not match %q to a unique branch", ref)
}
