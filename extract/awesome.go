package extract

import (
	"bufio"
	"regexp"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/three-water666/open-mcp-servers-market/classify"
	"github.com/three-water666/open-mcp-servers-market/domain"
)

var (
	// categoryExpr recognizes `### Category` headers, tolerating an embedded
	// anchor tag ahead of the visible text.
	categoryExpr = regexp.MustCompile(`^###\s+(?:.*?>)?([^<]+)(?:</a>)?.*$`)

	// itemExpr recognizes `- [name](url) <trailing>` bullet entries.
	itemExpr = regexp.MustCompile(`^\s*-\s*\[([^\]]+)\]\(([^)]+)\)(.*)$`)
)

// AwesomeList extracts servers from the flat community listing, where each
// bullet carries a glyph cluster describing language, scope, platform, and
// officiality.  Lines matching neither the header nor the item shape are
// skipped; the upstream document format is not grammatically stable.
func AwesomeList(text string) []*domain.Server {
	var (
		servers  = []*domain.Server{}
		category = ""
		scanner  = bufio.NewScanner(strings.NewReader(text))
	)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if m := categoryExpr.FindStringSubmatch(line); m != nil {
			category = strings.TrimSpace(m[1])
			continue
		}

		m := itemExpr.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		var (
			name = strings.TrimSpace(m[1])
			url  = strings.TrimSpace(m[2])
			rest = strings.TrimSpace(m[3])
		)

		// Trailing text divides into a glyph cluster and a description at
		// the first " - " span.  Without the separator the whole remainder
		// is treated as glyphs.
		cluster, description := rest, ""
		if idx := strings.Index(rest, " - "); idx != -1 {
			cluster, description = rest[:idx], rest[idx+3:]
		}

		s := domain.NewServer(name, url)
		s.Description = strings.TrimSpace(description)
		s.Category = category
		s.Languages = classify.Languages(cluster)
		s.Scopes = classify.Scopes(cluster)
		s.Platforms = classify.Platforms(cluster)
		s.IsOfficial = classify.IsOfficial(cluster)
		s.IsOpenSource = classify.OpenSourceURL(url)
		servers = append(servers, s)
	}

	log.WithField("servers", len(servers)).Debug("Extracted flat community listing")
	return servers
}
