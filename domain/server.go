package domain

import (
	"strings"

	"github.com/three-water666/open-mcp-servers-market/pkg/contains"
)

// Server kinds assigned by tiered sources.  Flat sources leave Kind empty.
const (
	KindReference   = "reference"
	KindIntegration = "integration"
	KindCommunity   = "community"
)

// Server is a single catalog entry for an MCP server implementation.
type Server struct {
	Name         string   `json:"name"`
	URL          string   `json:"url"`
	Description  string   `json:"description"`
	Category     string   `json:"category"`
	Languages    []string `json:"languages"`
	Scopes       []string `json:"scopes"`
	Platforms    []string `json:"platforms"`
	IsOfficial   bool     `json:"is_official"`
	IsOpenSource bool     `json:"is_open_source"`
	StarCount    *int     `json:"star_count,omitempty"`
	Logo         string   `json:"logo,omitempty"`
	Source       string   `json:"source,omitempty"`
	Kind         string   `json:"type,omitempty"`
}

func NewServer(name string, url string) *Server {
	s := &Server{
		Name:      name,
		URL:       url,
		Languages: []string{},
		Scopes:    []string{},
		Platforms: []string{},
	}
	return s
}

// Key produces the normalized identity key used to deduplicate servers
// across sources: the lower-cased URL, or name-plus-URL when no URL exists.
func (s *Server) Key() string {
	if s.URL != "" {
		return strings.ToLower(s.URL)
	}
	return s.Name + "|" + s.URL
}

// SetStarCount attaches a star count to the server.
func (s *Server) SetStarCount(n int) {
	s.StarCount = &n
}

// Merge folds fields from other into s.  Text fields follow a
// fill-missing-don't-overwrite policy, tag slices are unioned, and the
// official / open-source markers are monotone: once true, always true.
// Star counts and logos fill in only when currently absent.
func (s *Server) Merge(other *Server) {
	if s.Name == "" {
		s.Name = other.Name
	}
	if s.URL == "" {
		s.URL = other.URL
	}
	if s.Description == "" {
		s.Description = other.Description
	}
	if s.Category == "" {
		s.Category = other.Category
	}
	s.Languages = unionStrings(s.Languages, other.Languages)
	s.Scopes = unionStrings(s.Scopes, other.Scopes)
	s.Platforms = unionStrings(s.Platforms, other.Platforms)
	if other.IsOfficial {
		s.IsOfficial = true
	}
	if other.IsOpenSource {
		s.IsOpenSource = true
	}
	if s.StarCount == nil && other.StarCount != nil {
		n := *other.StarCount
		s.StarCount = &n
	}
	if s.Logo == "" {
		s.Logo = other.Logo
	}
	if s.Source == "" {
		s.Source = other.Source
	}
	if s.Kind == "" {
		s.Kind = other.Kind
	}
}

// unionStrings appends unseen items from b onto a, preserving the order in
// which values were first observed.
func unionStrings(a []string, b []string) []string {
	if a == nil {
		a = []string{}
	}
	for _, s := range b {
		if !contains.String(a, s) {
			a = append(a, s)
		}
	}
	return a
}
