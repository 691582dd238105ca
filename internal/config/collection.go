package config

// Collection is an ordered, keyed, read-only snapshot over a set of
// configuration nodes. Duplicate ids collapse last-write-wins, mirroring
// Configuration.Add.
type Collection struct {
	order []string
	byID  map[string]*Configuration
}

// NewCollection builds a collection from the given nodes, indexed by id
func NewCollection(configs ...*Configuration) *Collection {
	c := &Collection{
		byID: make(map[string]*Configuration, len(configs)),
	}
	for _, cfg := range configs {
		id := cfg.ID()
		if _, ok := c.byID[id]; !ok {
			c.order = append(c.order, id)
		}
		c.byID[id] = cfg
	}
	return c
}

// Find returns the node with the exact id, or a LookupError naming it
func (c *Collection) Find(id string) (*Configuration, error) {
	cfg, ok := c.byID[id]
	if !ok {
		return nil, &LookupError{Key: id}
	}
	return cfg, nil
}

// All returns the contained nodes in insertion order
func (c *Collection) All() []*Configuration {
	out := make([]*Configuration, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

// IDs returns the contained ids in insertion order
func (c *Collection) IDs() []string {
	return append([]string(nil), c.order...)
}

// Len returns the number of unique ids in the collection
func (c *Collection) Len() int {
	return len(c.order)
}
