package pipeline

import (
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/three-water666/open-mcp-servers-market/catalog"
	"github.com/three-water666/open-mcp-servers-market/db"
	"github.com/three-water666/open-mcp-servers-market/domain"
	"github.com/three-water666/open-mcp-servers-market/extract"
	"github.com/three-water666/open-mcp-servers-market/source"
	"github.com/three-water666/open-mcp-servers-market/stars"
)

// Provenance tags recorded on merged servers.
const (
	SourceAwesome  = "awesome"
	SourceOfficial = "official"
)

// Config wires the batch pipeline together.
type Config struct {
	Awesome     source.DataSource // Flat annotated community list; nil or missing tolerated.
	Official    source.DataSource // Tiered first-party README; nil or missing tolerated.
	OutputDir   string            // Destination for JSON artifacts.
	GitHubToken string            // Empty token skips star-count enrichment.
	TopLimit    int               // Ranked subset size; <=0 selects the default.
	SkipEnrich  bool              // Force-skip enrichment regardless of token.
}

func NewConfig() *Config {
	cfg := &Config{
		OutputDir: ".",
	}
	return cfg
}

// Run executes the full batch transform: fetch, extract, enrich, merge,
// persist, rank.  Individual stage failures are logged and skipped so that a
// best-effort partial catalog is always produced; only persistence problems
// surface as errors.
func Run(dbClient db.Client, cfg *Config) error {
	var (
		started        = time.Now()
		awesomeServers = []*domain.Server{}
		official       = domain.NewOfficialList()
		haveAwesome    bool
		haveOfficial   bool
	)

	if text, ok := fetchDocument(cfg.Awesome); ok {
		awesomeServers = extract.AwesomeList(text)
		haveAwesome = true
		log.WithField("source", cfg.Awesome.Name()).WithField("servers", len(awesomeServers)).Info("Extracted flat listing")
	}
	if text, ok := fetchDocument(cfg.Official); ok {
		official = extract.OfficialList(text)
		haveOfficial = true
		log.WithField("source", cfg.Official.Name()).WithField("servers", official.Len()).Info("Extracted tiered listing")
	}

	// Enrichment runs over every extracted record at once so that servers
	// from different sources resolving to one repository all pick up the
	// same count.
	if !cfg.SkipEnrich {
		all := make([]*domain.Server, 0, len(awesomeServers)+official.Len())
		all = append(all, awesomeServers...)
		all = append(all, official.Reference...)
		all = append(all, official.Integrations...)
		all = append(all, official.Community...)
		stars.NewClient(cfg.GitHubToken).Enrich(all)
	}

	if haveAwesome {
		if err := writeArtifact(cfg.OutputDir, AwesomeArtifactName, awesomeServers); err != nil {
			log.Errorf("Flat artifact not written: %s", err)
		}
	}
	if haveOfficial {
		if err := writeArtifact(cfg.OutputDir, OfficialArtifactName, newOfficialArtifact(official)); err != nil {
			log.Errorf("Tiered artifact not written: %s", err)
		}
	}

	cat := Merge(awesomeServers, official)

	if dbClient != nil {
		if err := dbClient.CatalogSave(cat); err != nil {
			return err
		}
		if err := dbClient.MetaSave(db.MetaLastRun, []byte(started.UTC().Format(time.RFC3339))); err != nil {
			return err
		}
		log.WithField("servers", cat.Len()).Info("Catalog persisted")
	}

	top := catalog.Top(cat, cfg.TopLimit)
	if err := writeArtifact(cfg.OutputDir, TopArtifactName, top); err != nil {
		log.Errorf("Ranked artifact not written: %s", err)
	}

	log.WithField("merged", cat.Len()).
		WithField("ranked", len(top)).
		WithField("elapsed", time.Since(started).Round(time.Millisecond)).
		Info("Pipeline run finished")
	return nil
}

// Merge combines both extractions in the documented priority order: the flat
// community list first, then the reference, integration, and community tiers
// of the first-party listing.
func Merge(awesomeServers []*domain.Server, official *domain.OfficialList) *domain.Catalog {
	return catalog.Merge(
		catalog.Source{Tag: SourceAwesome, ExplicitOfficial: true, Servers: awesomeServers},
		catalog.Source{Tag: SourceOfficial, Kind: domain.KindReference, Servers: official.Reference},
		catalog.Source{Tag: SourceOfficial, Kind: domain.KindIntegration, Servers: official.Integrations},
		catalog.Source{Tag: SourceOfficial, Kind: domain.KindCommunity, Servers: official.Community},
	)
}

// fetchDocument pulls one document, treating absence as a skippable
// condition rather than a failure.
func fetchDocument(ds source.DataSource) (string, bool) {
	if ds == nil {
		return "", false
	}
	data, err := ds.Fetch()
	if err != nil {
		if err == source.ErrNotFound {
			log.WithField("source", ds.Name()).Info("Source document not found, proceeding without it")
		} else {
			log.WithField("source", ds.Name()).Errorf("Fetching source document: %s", err)
		}
		return "", false
	}
	return string(data), true
}
