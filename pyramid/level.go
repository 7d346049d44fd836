package pyramid

import (
	"github.com/paulmach/orb"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

type tileSource interface {
	acquire(c Coordinate) *Tile
	release(c Coordinate)
}

// Level holds the resident tiles of one zoom level, in insertion order.
type Level struct {
	level   int
	visible bool
	tiles   *orderedmap.OrderedMap[Coordinate, *Tile]
	src     tileSource
}

func newLevel(level int, src tileSource) *Level {
	return &Level{
		level:   level,
		visible: true,
		tiles:   orderedmap.New[Coordinate, *Tile](),
		src:     src,
	}
}

func (l *Level) Level() int {
	return l.level
}

func (l *Level) Visible() bool {
	return l.visible
}

func (l *Level) SetVisible(visible bool) {
	l.visible = visible
}

func (l *Level) Len() int {
	return l.tiles.Len()
}

func (l *Level) Has(c Coordinate) bool {
	_, ok := l.tiles.Get(c)
	return ok
}

func (l *Level) Tiles() []*Tile {
	res := make([]*Tile, 0, l.tiles.Len())
	for p := l.tiles.Oldest(); p != nil; p = p.Next() {
		res = append(res, p.Value)
	}
	return res
}

// Add puts a tile into the level, handing over the caller's cache reference.
// Tiles of another level are refused.
func (l *Level) Add(t *Tile) bool {
	if int(t.Coordinate().Level) != l.level || l.Has(t.Coordinate()) {
		return false
	}
	l.tiles.Set(t.Coordinate(), t)
	return true
}

// UpdateTiles drops tiles not in targets and, when addNew is set, adds the
// missing ones. Without addNew missing coordinates stay empty until a later frame.
func (l *Level) UpdateTiles(targets []Coordinate, addNew bool) {
	want := make(map[Coordinate]struct{}, len(targets))
	for _, c := range targets {
		want[c] = struct{}{}
	}

	var stale []Coordinate
	for p := l.tiles.Oldest(); p != nil; p = p.Next() {
		if _, ok := want[p.Key]; !ok {
			stale = append(stale, p.Key)
		}
	}
	for _, c := range stale {
		l.tiles.Delete(c)
		l.src.release(c)
	}

	if !addNew {
		return
	}
	for _, c := range targets {
		if int(c.Level) != l.level || l.Has(c) {
			continue
		}
		l.tiles.Set(c, l.src.acquire(c))
	}
}

// AllTilesLoaded reports whether every resident tile is loaded. An empty
// level has nothing to show and is never reported as loaded.
func (l *Level) AllTilesLoaded() bool {
	if l.tiles.Len() == 0 {
		return false
	}
	for p := l.tiles.Oldest(); p != nil; p = p.Next() {
		if !p.Value.Loaded() {
			return false
		}
	}
	return true
}

func (l *Level) ShouldDrawCount() int {
	n := 0
	for p := l.tiles.Oldest(); p != nil; p = p.Next() {
		if p.Value.ShouldDraw() {
			n++
		}
	}
	return n
}

func (l *Level) Extents() []orb.Bound {
	res := make([]orb.Bound, 0, l.tiles.Len())
	for p := l.tiles.Oldest(); p != nil; p = p.Next() {
		res = append(res, p.Key.Bound())
	}
	return res
}

func (l *Level) setTilesVisible(visible bool) {
	for p := l.tiles.Oldest(); p != nil; p = p.Next() {
		p.Value.SetVisible(visible)
	}
}

// clear releases every tile, used when the level leaves the pyramid.
func (l *Level) clear() {
	for p := l.tiles.Oldest(); p != nil; p = p.Next() {
		l.src.release(p.Key)
	}
	l.tiles = orderedmap.New[Coordinate, *Tile]()
}
