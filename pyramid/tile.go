package pyramid

import "sync/atomic"

// Tile is one loadable image bound to a coordinate. Loaded is written by the
// loader from any goroutine, everything else only from the frame loop.
type Tile struct {
	coord    Coordinate
	url      string
	loaded   atomic.Bool
	released atomic.Bool
	visible  bool
}

func newTile(c Coordinate, url string) *Tile {
	return &Tile{coord: c, url: url, visible: true}
}

func (t *Tile) Coordinate() Coordinate {
	return t.coord
}

func (t *Tile) URL() string {
	return t.url
}

func (t *Tile) Loaded() bool {
	return t.loaded.Load()
}

// SetLoaded is called by the loader on completion. Results arriving after the
// tile was evicted from the cache are dropped.
func (t *Tile) SetLoaded(loaded bool) {
	if t.released.Load() {
		return
	}
	t.loaded.Store(loaded)
}

// Released reports whether no level references the tile any more.
func (t *Tile) Released() bool {
	return t.released.Load()
}

func (t *Tile) Visible() bool {
	return t.visible
}

func (t *Tile) SetVisible(visible bool) {
	t.visible = visible
}

func (t *Tile) ShouldDraw() bool {
	return t.visible && t.Loaded()
}
