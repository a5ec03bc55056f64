package catalog

import (
	log "github.com/sirupsen/logrus"

	"github.com/three-water666/open-mcp-servers-market/domain"
)

// Source is one ordered group of extracted servers feeding the merge.
type Source struct {
	// Tag is the provenance marker recorded on servers this source
	// contributes first.
	Tag string

	// Kind optionally assigns a tier to servers from this source.
	Kind string

	// ExplicitOfficial marks sources that assert is_official themselves
	// (the flat annotated list).  Tiered sources leave the flag unset and
	// rely on the reference/integration default instead.
	ExplicitOfficial bool

	Servers []*domain.Server
}

// Merge folds all sources into one deduplicated catalog keyed by normalized
// identity.  Sources must be supplied in the documented priority order
// (flat list, reference, integrations, community): first-writer-wins fields
// keep the value from the earliest source that had one, while tag sets, the
// official / open-source flags, and star counts merge order-independently.
// Input servers are never modified; merged entries are fresh copies.
func Merge(sources ...Source) *domain.Catalog {
	var (
		c        = domain.NewCatalog()
		explicit = map[string]bool{}
	)

	for _, src := range sources {
		for _, s := range src.Servers {
			incoming := cloneServer(s)
			if incoming.Source == "" {
				incoming.Source = src.Tag
			}
			if incoming.Kind == "" {
				incoming.Kind = src.Kind
			}

			key := incoming.Key()
			if src.ExplicitOfficial {
				explicit[key] = true
			}

			if existing, ok := c.Get(key); ok {
				existing.Merge(incoming)
			} else {
				c.Put(key, incoming)
			}
		}
	}

	// Reference and integration tiers are authoritative: their servers
	// default to official unless some source stated otherwise.
	c.EachServer(func(s *domain.Server) {
		if s.IsOfficial || explicit[s.Key()] {
			return
		}
		if s.Kind == domain.KindReference || s.Kind == domain.KindIntegration {
			s.IsOfficial = true
		}
	})

	log.WithField("servers", c.Len()).Debug("Merged catalog")
	return c
}

func cloneServer(s *domain.Server) *domain.Server {
	clone := *s
	clone.Languages = append([]string{}, s.Languages...)
	clone.Scopes = append([]string{}, s.Scopes...)
	clone.Platforms = append([]string{}, s.Platforms...)
	if s.StarCount != nil {
		n := *s.StarCount
		clone.StarCount = &n
	}
	return &clone
}
