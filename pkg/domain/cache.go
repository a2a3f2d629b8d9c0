package domain

import "go.uber.org/zap"

// Cache memoizes computed domains by column name. Entries are invalidated
// (deleted, not recomputed) when their column is structurally mutated.
type Cache struct {
	entries map[string]Domain
	log     *zap.Logger
}

// NewCache creates an empty cache. Single-value notices go to log.
func NewCache(log *zap.Logger) *Cache {
	return &Cache{
		entries: make(map[string]Domain),
		log:     log,
	}
}

// Get returns the cached domain of the named column, computing it from
// values on a miss. Failures are not cached. The result is a copy, so
// callers may modify it freely.
func (c *Cache) Get(name string, values []interface{}) (Domain, error) {
	if d, ok := c.entries[name]; ok {
		return Copy(d), nil
	}
	d, err := Calculate(values, name, c.log)
	if err != nil {
		return nil, err
	}
	c.entries[name] = d
	return Copy(d), nil
}

// Cached reports whether a domain is memoized for name.
func (c *Cache) Cached(name string) bool {
	_, ok := c.entries[name]
	return ok
}

// Invalidate drops the entries for the given columns.
func (c *Cache) Invalidate(names ...string) {
	for _, name := range names {
		delete(c.entries, name)
	}
}

// Reset drops every entry.
func (c *Cache) Reset() {
	c.entries = make(map[string]Domain)
}

// Len returns the number of memoized domains.
func (c *Cache) Len() int { return len(c.entries) }
