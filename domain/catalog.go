package domain

// Catalog is an insertion-ordered collection of merged servers keyed by
// normalized identity.  Iteration order is fixed to the order in which keys
// were first added so that downstream ranking is deterministic run-to-run.
type Catalog struct {
	servers map[string]*Server
	order   []string
}

func NewCatalog() *Catalog {
	c := &Catalog{
		servers: map[string]*Server{},
		order:   []string{},
	}
	return c
}

func (c *Catalog) Get(key string) (*Server, bool) {
	s, ok := c.servers[key]
	return s, ok
}

// Put stores the server under key.  The first Put of a key establishes its
// position in iteration order; subsequent Puts replace the value in place.
func (c *Catalog) Put(key string, s *Server) {
	if _, ok := c.servers[key]; !ok {
		c.order = append(c.order, key)
	}
	c.servers[key] = s
}

func (c *Catalog) Len() int {
	return len(c.order)
}

// EachServer invokes the callback on every server in insertion order.
func (c *Catalog) EachServer(fn func(s *Server)) {
	for _, key := range c.order {
		fn(c.servers[key])
	}
}

// Servers returns all entries in insertion order.
func (c *Catalog) Servers() []*Server {
	all := make([]*Server, 0, len(c.order))
	for _, key := range c.order {
		all = append(all, c.servers[key])
	}
	return all
}
