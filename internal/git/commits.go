package git

import (
	"fmt"
	"strings"

	"flok.dev/flok/internal/plan"
)

// parseOnelines parses `rev-list --pretty=oneline` output into commits,
// oldest first. rev-list prints newest first, so the lines are reversed.
func parseOnelines(lines []string) ([]plan.Commit, error) {
	commits := make([]plan.Commit, 0, len(lines))
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		commit, err := parseOneline(line)
		if err != nil {
			return nil, err
		}
		commits = append(commits, commit)
	}
	return commits, nil
}

// parseOneline parses a single "<sha> <subject>" line.
func parseOneline(line string) (plan.Commit, error) {
	sha, subject, found := strings.Cut(line, " ")
	if !found {
		// A commit with an empty message still has the separator absent.
		sha = line
	}
	if len(sha) < 4 {
		return plan.Commit{}, fmt.Errorf("malformed rev-list line: %q", line)
	}
	return plan.Commit{SHA: sha, Subject: strings.TrimSpace(subject)}, nil
}
