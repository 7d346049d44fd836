package pyramid

type cacheEntry struct {
	tile *Tile
	refs int
}

// Cache guarantees at most one live Tile per coordinate. Entries are
// reference counted by the levels holding them and evicted at zero.
//
// Cache is not safe for concurrent use; it is only touched by Engine.Refresh.
type Cache struct {
	entries map[Coordinate]*cacheEntry
}

func NewCache() *Cache {
	return &Cache{entries: make(map[Coordinate]*cacheEntry)}
}

// Acquire returns the live tile for c, creating it with url when there is
// none. Every call takes a reference that must be given back with Release.
func (c *Cache) Acquire(coord Coordinate, url string) (t *Tile, created bool) {
	if e, ok := c.entries[coord]; ok {
		e.refs++
		return e.tile, false
	}
	t = newTile(coord, url)
	c.entries[coord] = &cacheEntry{tile: t, refs: 1}
	return t, true
}

func (c *Cache) Lookup(coord Coordinate) (*Tile, bool) {
	e, ok := c.entries[coord]
	if !ok {
		return nil, false
	}
	return e.tile, true
}

// Release drops one reference to coord and evicts the tile when none is left.
func (c *Cache) Release(coord Coordinate) {
	e, ok := c.entries[coord]
	if !ok {
		return
	}
	e.refs--
	if e.refs > 0 {
		return
	}
	delete(c.entries, coord)
	e.tile.released.Store(true)
}

func (c *Cache) Len() int {
	return len(c.entries)
}
