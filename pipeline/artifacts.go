package pipeline

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/three-water666/open-mcp-servers-market/domain"
)

// Artifact filenames written into the output directory.
var (
	AwesomeArtifactName  = "awesome_mcp_servers.json"
	OfficialArtifactName = "mcp_official_servers.json"
	TopArtifactName      = "mcp_top100_servers.json"
)

// tierEntry is the artifact shape for reference and community servers.
type tierEntry struct {
	Name         string `json:"name"`
	URL          string `json:"url"`
	Description  string `json:"description"`
	StarCount    *int   `json:"star_count,omitempty"`
	IsOpenSource bool   `json:"is_open_source"`
}

// integrationEntry additionally carries the logo; the key is always present
// in the artifact, null when the item had none.
type integrationEntry struct {
	Name         string  `json:"name"`
	URL          string  `json:"url"`
	Description  string  `json:"description"`
	Logo         *string `json:"logo"`
	StarCount    *int    `json:"star_count,omitempty"`
	IsOpenSource bool    `json:"is_open_source"`
}

type officialArtifact struct {
	ReferenceServers []tierEntry `json:"reference_servers"`
	ThirdParty       struct {
		OfficialIntegrations []integrationEntry `json:"official_integrations"`
		CommunityServers     []tierEntry        `json:"community_servers"`
	} `json:"third_party"`
}

func newOfficialArtifact(l *domain.OfficialList) *officialArtifact {
	a := &officialArtifact{
		ReferenceServers: []tierEntry{},
	}
	a.ThirdParty.OfficialIntegrations = []integrationEntry{}
	a.ThirdParty.CommunityServers = []tierEntry{}

	for _, s := range l.Reference {
		a.ReferenceServers = append(a.ReferenceServers, newTierEntry(s))
	}
	for _, s := range l.Integrations {
		e := integrationEntry{
			Name:         s.Name,
			URL:          s.URL,
			Description:  s.Description,
			StarCount:    s.StarCount,
			IsOpenSource: s.IsOpenSource,
		}
		if s.Logo != "" {
			logo := s.Logo
			e.Logo = &logo
		}
		a.ThirdParty.OfficialIntegrations = append(a.ThirdParty.OfficialIntegrations, e)
	}
	for _, s := range l.Community {
		a.ThirdParty.CommunityServers = append(a.ThirdParty.CommunityServers, newTierEntry(s))
	}
	return a
}

func newTierEntry(s *domain.Server) tierEntry {
	e := tierEntry{
		Name:         s.Name,
		URL:          s.URL,
		Description:  s.Description,
		StarCount:    s.StarCount,
		IsOpenSource: s.IsOpenSource,
	}
	return e
}

// writeArtifact serializes v as human-readable JSON under dir.
func writeArtifact(dir string, name string, v interface{}) error {
	if err := os.MkdirAll(dir, os.FileMode(int(0755))); err != nil {
		return errors.Wrapf(err, "creating output directory %q", dir)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrapf(err, "marshalling artifact %q", name)
	}
	path := filepath.Join(dir, name)
	if err := ioutil.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return errors.Wrapf(err, "writing artifact %q", name)
	}
	log.WithField("artifact", path).WithField("bytes", len(data)).Info("Wrote artifact")
	return nil
}
