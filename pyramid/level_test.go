package pyramid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cacheSource struct {
	cache  *Cache
	loader *fakeLoader
}

func (s *cacheSource) acquire(c Coordinate) *Tile {
	t, created := s.cache.Acquire(c, testURLs.TileURL(c.Level, c.Row, c.Column))
	if created {
		s.loader.Load(t)
	}
	return t
}

func (s *cacheSource) release(c Coordinate) {
	s.cache.Release(c)
}

func newTestLevel(level int) (*Level, *cacheSource) {
	src := &cacheSource{cache: NewCache(), loader: newFakeLoader(false)}
	return newLevel(level, src), src
}

func coords(tiles []*Tile) []Coordinate {
	res := make([]Coordinate, 0, len(tiles))
	for _, t := range tiles {
		res = append(res, t.Coordinate())
	}
	return res
}

func TestLevel_UpdateTilesAddsAndRemoves(t *testing.T) {
	l, src := newTestLevel(6)

	first := block(6, 20, 30)
	l.UpdateTiles(first, true)
	assert.Equal(t, first, coords(l.Tiles()))
	assert.Len(t, src.loader.requests, 4)

	second := append(block(6, 20, 30)[2:], NewCoordinate(6, 22, 30))
	l.UpdateTiles(second, true)
	assert.Equal(t, second, coords(l.Tiles()))
	assert.Equal(t, 3, src.cache.Len())
	assert.Len(t, src.loader.requests, 5)
}

func TestLevel_UpdateTilesIdempotent(t *testing.T) {
	l, src := newTestLevel(9)
	targets := block(9, 100, 200)

	l.UpdateTiles(targets, true)
	before := l.Tiles()
	l.UpdateTiles(targets, true)
	after := l.Tiles()

	require.Len(t, after, len(before))
	for i := range before {
		assert.Same(t, before[i], after[i])
	}
	assert.Len(t, src.loader.requests, 4)
	assert.Equal(t, 4, src.cache.Len())
}

func TestLevel_UpdateTilesWithoutAddNew(t *testing.T) {
	l, src := newTestLevel(8)
	l.UpdateTiles(block(8, 0, 0), true)

	next := append(block(8, 0, 0)[:1], NewCoordinate(8, 5, 5))
	l.UpdateTiles(next, false)
	assert.Equal(t, []Coordinate{NewCoordinate(8, 0, 0)}, coords(l.Tiles()))
	assert.Len(t, src.loader.requests, 4)

	l.UpdateTiles(next, true)
	assert.Equal(t, next, coords(l.Tiles()))
	assert.Len(t, src.loader.requests, 5)
}

func TestLevel_UpdateTilesSkipsForeignLevels(t *testing.T) {
	l, _ := newTestLevel(4)
	l.UpdateTiles([]Coordinate{NewCoordinate(5, 0, 0), NewCoordinate(4, 0, 0)}, true)
	assert.Equal(t, []Coordinate{NewCoordinate(4, 0, 0)}, coords(l.Tiles()))
}

func TestLevel_AllTilesLoaded(t *testing.T) {
	l, src := newTestLevel(3)
	assert.False(t, l.AllTilesLoaded(), "empty level is not usable")

	l.UpdateTiles(block(3, 2, 2), true)
	assert.False(t, l.AllTilesLoaded())

	for _, tile := range src.loader.requested {
		tile.SetLoaded(true)
	}
	assert.True(t, l.AllTilesLoaded())
	assert.Equal(t, 4, l.ShouldDrawCount())
}

func TestLevel_Add(t *testing.T) {
	l, src := newTestLevel(1)
	tile := src.acquire(NewCoordinate(1, 0, 1))
	assert.True(t, l.Add(tile))
	assert.False(t, l.Add(tile))
	assert.False(t, l.Add(newTile(NewCoordinate(2, 0, 0), "")))
	assert.Equal(t, 1, l.Len())
}

func TestLevel_ClearReleases(t *testing.T) {
	l, src := newTestLevel(5)
	l.UpdateTiles(block(5, 4, 4), true)
	tiles := l.Tiles()

	l.clear()
	assert.Zero(t, l.Len())
	assert.Zero(t, src.cache.Len())
	for _, tile := range tiles {
		assert.True(t, tile.Released())
	}
}

func TestLevel_Extents(t *testing.T) {
	l, _ := newTestLevel(2)
	l.UpdateTiles([]Coordinate{NewCoordinate(2, 0, 0), NewCoordinate(2, 3, 3)}, true)
	extents := l.Extents()
	require.Len(t, extents, 2)
	assert.Equal(t, NewCoordinate(2, 0, 0).Bound(), extents[0])
	assert.Equal(t, NewCoordinate(2, 3, 3).Bound(), extents[1])
}
