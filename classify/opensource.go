package classify

import (
	"strings"
)

// openForgeDomains are hosting platforms where linked projects are publicly
// inspectable.
var openForgeDomains = []string{
	"github.com",
	"gitlab.com",
	"gitea.com",
	"gitea.io",
	"bitbucket.org",
	"codeberg.org",
	"sourcehut.org",
	"sr.ht",
	"git.sr.ht",
	"savannah.gnu.org",
	"sourceforge.net",
	"launchpad.net",
}

// selfHostedCues are substrings commonly present in self-hosted forge URLs.
// Matching on them is a heuristic: a domain that merely contains "git" inside
// an unrelated word will also match, and callers must treat the result as
// best-effort rather than authoritative.
var selfHostedCues = []string{
	"/git/",
	"git.",
	"gitea.",
	"gitlab.",
}

// OpenSourceURL reports whether a URL appears to point at an open,
// publicly hosted source repository.
func OpenSourceURL(url string) bool {
	if url == "" {
		return false
	}
	lower := strings.ToLower(url)

	for _, domain := range openForgeDomains {
		if strings.Contains(lower, domain) {
			return true
		}
	}

	// Relative links inside the first-party servers repository point within
	// that same open project.
	if !strings.HasPrefix(url, "http") {
		return true
	}

	for _, cue := range selfHostedCues {
		if strings.Contains(lower, cue) {
			return true
		}
	}

	return false
}
