package db

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/three-water666/open-mcp-servers-market/domain"
)

// BoltConfig configures the embedded bolt store.
type BoltConfig struct {
	DBFile      string
	BoltOptions *bolt.Options
}

func NewBoltConfig(dbFile string) *BoltConfig {
	cfg := &BoltConfig{
		DBFile: dbFile,
		BoltOptions: &bolt.Options{
			Timeout: 1 * time.Second,
		},
	}
	return cfg
}

func (cfg *BoltConfig) Type() Type {
	return Bolt
}

type boltClient struct {
	config *BoltConfig
	db     *bolt.DB
	mu     sync.Mutex
}

func newBoltClient(config *BoltConfig) *boltClient {
	c := &boltClient{
		config: config,
	}
	return c
}

func (c *boltClient) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db != nil {
		return nil
	}

	db, err := bolt.Open(c.config.DBFile, 0600, c.config.BoltOptions)
	if err != nil {
		return err
	}
	c.db = db

	return c.db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{TableMetadata, TableServers} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("creating bucket %q: %s", name, err)
			}
		}
		return nil
	})
}

func (c *boltClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db == nil {
		return nil
	}
	if err := c.db.Close(); err != nil {
		return err
	}
	c.db = nil
	return nil
}

func (c *boltClient) Purge(tables ...string) error {
	return c.db.Update(func(tx *bolt.Tx) error {
		for _, table := range tables {
			if err := tx.DeleteBucket([]byte(table)); err != nil && err != bolt.ErrBucketNotFound {
				return err
			}
			if _, err := tx.CreateBucketIfNotExists([]byte(table)); err != nil {
				return err
			}
		}
		return nil
	})
}

// CatalogSave replaces the stored catalog with c.  The insertion order is
// written alongside the entries because bolt iterates in byte order, which
// would otherwise scramble the deterministic ranking order.
func (c *boltClient) CatalogSave(cat *domain.Catalog) error {
	order := []string{}
	return c.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket([]byte(TableServers)); err != nil && err != bolt.ErrBucketNotFound {
			return err
		}
		b, err := tx.CreateBucketIfNotExists([]byte(TableServers))
		if err != nil {
			return err
		}

		var saveErr error
		cat.EachServer(func(s *domain.Server) {
			if saveErr != nil {
				return
			}
			key := s.Key()
			v, err := json.Marshal(s)
			if err != nil {
				saveErr = err
				return
			}
			if err := b.Put([]byte(key), v); err != nil {
				saveErr = err
				return
			}
			order = append(order, key)
		})
		if saveErr != nil {
			return saveErr
		}

		meta := tx.Bucket([]byte(TableMetadata))
		v, err := json.Marshal(order)
		if err != nil {
			return err
		}
		return meta.Put([]byte(MetaCatalogOrder), v)
	})
}

func (c *boltClient) Catalog() (*domain.Catalog, error) {
	cat := domain.NewCatalog()
	err := c.db.View(func(tx *bolt.Tx) error {
		var (
			b     = tx.Bucket([]byte(TableServers))
			meta  = tx.Bucket([]byte(TableMetadata))
			order = []string{}
		)
		if v := meta.Get([]byte(MetaCatalogOrder)); v != nil {
			if err := json.Unmarshal(v, &order); err != nil {
				return err
			}
		}

		add := func(k []byte, v []byte) error {
			s := &domain.Server{}
			if err := json.Unmarshal(v, s); err != nil {
				return fmt.Errorf("unmarshalling server %q: %s", string(k), err)
			}
			cat.Put(string(k), s)
			return nil
		}

		for _, key := range order {
			if v := b.Get([]byte(key)); v != nil {
				if err := add([]byte(key), v); err != nil {
					return err
				}
			}
		}
		// Entries missing from the order index still come out, just last.
		return b.ForEach(func(k []byte, v []byte) error {
			if _, ok := cat.Get(string(k)); ok {
				return nil
			}
			return add(k, v)
		})
	})
	if err != nil {
		return nil, err
	}
	return cat, nil
}

func (c *boltClient) Server(key string) (*domain.Server, error) {
	s := &domain.Server{}
	err := c.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(TableServers)).Get([]byte(key))
		if v == nil {
			return ErrKeyNotFound
		}
		return json.Unmarshal(v, s)
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (c *boltClient) EachServer(fn func(s *domain.Server)) error {
	cat, err := c.Catalog()
	if err != nil {
		return err
	}
	cat.EachServer(fn)
	return nil
}

func (c *boltClient) ServersLen() (int, error) {
	n := 0
	err := c.db.View(func(tx *bolt.Tx) error {
		n = tx.Bucket([]byte(TableServers)).Stats().KeyN
		return nil
	})
	return n, err
}

func (c *boltClient) MetaSave(key string, value []byte) error {
	return c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(TableMetadata)).Put([]byte(key), value)
	})
}

func (c *boltClient) Meta(key string) ([]byte, error) {
	var value []byte
	err := c.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(TableMetadata)).Get([]byte(key))
		if v == nil {
			return ErrKeyNotFound
		}
		value = append(value, v...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (c *boltClient) MetaDelete(key string) error {
	return c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(TableMetadata)).Delete([]byte(key))
	})
}
