package extract

import (
	"regexp"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/three-water666/open-mcp-servers-market/classify"
	"github.com/three-water666/open-mcp-servers-market/domain"
)

// ReferenceBaseURL resolves relative links found in the reference tier of the
// first-party servers README.
var ReferenceBaseURL = "https://github.com/modelcontextprotocol/servers/tree/main/"

// Section headings as they appear in the first-party README.  The document is
// located by literal heading text rather than structure because the README
// layout shifts over time while the headings stay put.
var (
	referenceHeading    = "## 🌟 Reference Servers"
	integrationsHeading = "### 🎖️ Official Integrations"
	communityHeading    = "### 🌎 Community Servers"
)

// boldItemExpr recognizes `- **[name](url)** - description` bullets with an
// optional leading logo image.  The em-dash variant of the separator is also
// accepted.  Descriptions may continue onto following lines; items arrive
// here as pre-split blocks, so the trailing capture is multi-line.
var boldItemExpr = regexp.MustCompile(`(?s)^-\s+(?:<img[^>]+src="([^"]+)"[^>]*/?>\s*)?\*\*\[([^\]]+)\]\(([^)]+)\)\*\*\s+(?:—|-)\s+(.*)$`)

var whitespaceExpr = regexp.MustCompile(`\s+`)

// OfficialList extracts the tiered first-party README: the reference tier
// plus the official-integration and community tiers nested under the
// third-party heading.  A missing section produces an empty tier rather than
// an error, and malformed items are skipped.
func OfficialList(text string) *domain.OfficialList {
	l := domain.NewOfficialList()

	for _, s := range sectionItems(text, referenceHeading, "\n##") {
		if s.URL != "" && !strings.HasPrefix(s.URL, "http") {
			s.URL = ReferenceBaseURL + s.URL
			s.IsOpenSource = classify.OpenSourceURL(s.URL)
		}
		s.Logo = ""
		l.Reference = append(l.Reference, s)
	}

	// The integrations tier ends at the next same-level heading so that the
	// community tier below it is not swallowed.
	l.Integrations = append(l.Integrations, sectionItems(text, integrationsHeading, "\n###")...)

	for _, s := range sectionItems(text, communityHeading, "\n##") {
		s.Logo = ""
		l.Community = append(l.Community, s)
	}

	log.WithField("reference", len(l.Reference)).
		WithField("integrations", len(l.Integrations)).
		WithField("community", len(l.Community)).
		Debug("Extracted first-party listing")
	return l
}

// sectionBody captures everything between the heading and the next heading
// marker (or end of document).  Returns "" when the heading is absent.
func sectionBody(text string, heading string, terminator string) string {
	i := strings.Index(text, heading)
	if i == -1 {
		return ""
	}
	body := text[i+len(heading):]
	if j := strings.Index(body, terminator); j != -1 {
		body = body[:j]
	}
	return body
}

// sectionItems extracts every well-formed bold-title bullet in the named
// section.
func sectionItems(text string, heading string, terminator string) []*domain.Server {
	var (
		servers = []*domain.Server{}
		body    = sectionBody(text, heading, terminator)
	)
	if body == "" {
		return servers
	}

	for _, block := range itemBlocks(body) {
		m := boldItemExpr.FindStringSubmatch(block)
		if m == nil {
			continue
		}
		var (
			logo = strings.TrimSpace(m[1])
			name = strings.TrimSpace(m[2])
			url  = strings.TrimSpace(m[3])
			desc = strings.TrimSpace(whitespaceExpr.ReplaceAllString(m[4], " "))
		)
		s := domain.NewServer(name, url)
		s.Description = desc
		s.Logo = logo
		s.IsOpenSource = classify.OpenSourceURL(url)
		servers = append(servers, s)
	}
	return servers
}

// itemBlocks splits a section body into one block per bullet.  A bullet runs
// until the next bullet start, a blank line, or the end of the section.
func itemBlocks(body string) []string {
	var (
		blocks  = []string{}
		current []string
	)
	flush := func() {
		if len(current) > 0 {
			blocks = append(blocks, strings.Join(current, "\n"))
			current = nil
		}
	}
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "- "):
			flush()
			current = []string{trimmed}
		case trimmed == "":
			flush()
		case current != nil:
			current = append(current, trimmed)
		}
	}
	flush()
	return blocks
}
