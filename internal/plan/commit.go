package plan

import "fmt"

// Commit is one commit of the local branch that is not on upstream.
// It is owned by the git backend; flok never mutates commits and never
// caches them across runs, because cherry-picking rewrites their SHAs.
type Commit struct {
	SHA     string
	Subject string
}

// ShortSHA returns an abbreviated commit identifier for display and plan text.
func (c Commit) ShortSHA() string {
	if len(c.SHA) > 8 {
		return c.SHA[:8]
	}
	return c.SHA
}

// ShortString renders the commit the way plan lines and status output show it.
func (c Commit) ShortString() string {
	return fmt.Sprintf("%s %s", c.ShortSHA(), c.Subject)
}
