package catalog

import (
	"sort"

	"github.com/three-water666/open-mcp-servers-market/domain"
)

// DefaultTopLimit is the ranked subset size used when no limit is given.
var DefaultTopLimit = 100

// Top filters the catalog to servers carrying a star count and returns up to
// limit of them sorted by star count descending.  Servers without a count
// are excluded entirely rather than ranked as zero.  Ties keep the catalog's
// insertion order (sort is stable), so output is deterministic run-to-run.
func Top(c *domain.Catalog, limit int) []*domain.Server {
	if limit <= 0 {
		limit = DefaultTopLimit
	}

	ranked := []*domain.Server{}
	c.EachServer(func(s *domain.Server) {
		if s.StarCount != nil {
			ranked = append(ranked, s)
		}
	})

	sort.SliceStable(ranked, func(i int, j int) bool {
		return *ranked[i].StarCount > *ranked[j].StarCount
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
