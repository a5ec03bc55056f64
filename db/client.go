package db

import (
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/three-water666/open-mcp-servers-market/domain"
)

const (
	TableMetadata = "catalog-metadata"
	TableServers  = "servers"

	// MetaCatalogOrder persists the catalog's insertion order so ranking
	// tie-breaks survive a round trip through the store.
	MetaCatalogOrder = "catalog-order"

	// MetaLastRun records the wall-clock time of the last pipeline run.
	MetaLastRun = "last-run"
)

var ErrKeyNotFound = errors.New("requested key not found")

// Client is the persistence interface for the merged server catalog.
type Client interface {
	Open() error                                // Open / start DB client connection.
	Close() error                               // Close / shutdown the DB client connection.
	Purge(tables ...string) error               // Reset the named tables.
	CatalogSave(c *domain.Catalog) error        // Replace the stored catalog wholesale.
	Catalog() (*domain.Catalog, error)          // Load the stored catalog, insertion order intact.
	Server(key string) (*domain.Server, error)  // Retrieve a single server by identity key.
	EachServer(fn func(s *domain.Server)) error // Iterate over stored servers in catalog order.
	ServersLen() (int, error)                   // Number of servers in the stored catalog.
	MetaSave(key string, value []byte) error    // Store a metadata key/value.
	Meta(key string) ([]byte, error)            // Retrieve a metadata value.
	MetaDelete(key string) error                // Delete a metadata key.
}

// Type enumerates supported store backends.
type Type int

const (
	Bolt Type = iota
)

// Config identifies a store backend configuration.
type Config interface {
	Type() Type
}

// NewClient constructs a DB client for the passed configuration.
func NewClient(config Config) (Client, error) {
	switch config.Type() {
	case Bolt:
		return newBoltClient(config.(*BoltConfig)), nil
	default:
		return nil, fmt.Errorf("no client constructor available for db configuration type: %v", config.Type())
	}
}

// WithClient handles client construction, open, and close around fn.
func WithClient(config Config, fn func(dbClient Client) error) (err error) {
	var dbClient Client
	if dbClient, err = NewClient(config); err != nil {
		return
	}

	if err = dbClient.Open(); err != nil {
		err = fmt.Errorf("opening DB client %T: %s", dbClient, err)
		return
	}
	defer func() {
		if closeErr := dbClient.Close(); closeErr != nil {
			if err == nil {
				err = fmt.Errorf("closing DB client %T: %s", dbClient, closeErr)
			} else {
				log.Errorf("Existing error before attempt to close DB client %T: %s", dbClient, err)
				log.Errorf("Also encountered problem closing DB client %T: %s", dbClient, closeErr)
			}
		}
	}()

	err = fn(dbClient)
	return
}
