package stars

import (
	"regexp"
	"strings"
)

// repoExpr pulls the owner and repository segments out of a github.com URL.
// Deeper path segments (e.g. /tree/main/...) are ignored so that sub-path
// links resolve to the repository that hosts them.
var repoExpr = regexp.MustCompile(`github\.com/([^/\s)#?]+)/([^/\s)#?]+)`)

// RepoID identifies one GitHub repository.
type RepoID struct {
	Owner string
	Name  string
}

// Key returns the normalized grouping key for the repository.
func (id RepoID) Key() string {
	return strings.ToLower(id.Owner + "/" + id.Name)
}

// ParseRepoID extracts a repository identity from a URL.  Returns false for
// URLs not hosted on github.com.
func ParseRepoID(url string) (RepoID, bool) {
	m := repoExpr.FindStringSubmatch(url)
	if m == nil {
		return RepoID{}, false
	}
	id := RepoID{
		Owner: m[1],
		Name:  strings.TrimSuffix(m[2], ".git"),
	}
	if id.Owner == "" || id.Name == "" {
		return RepoID{}, false
	}
	return id, true
}
