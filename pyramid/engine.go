package pyramid

import (
	"github.com/paulmach/orb"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultDeltaLevel 距最深层级在该差值内的层级不主动请求新瓦片
	DefaultDeltaLevel = 2
	// DefaultFullOverlapLevel is the level from which one level no longer covers the whole visible globe.
	DefaultFullOverlapLevel = 4
	DefaultThreshold        = 1.0

	extentLevelOffset = 3
)

// Engine keeps one Level per zoom level from 0 to the deepest level the
// camera resolves to and decides every frame which tiles are requested and drawn.
//
// Engine is not safe for concurrent use: Refresh and Draw must run on the frame loop.
type Engine struct {
	globe  Globe
	camera Camera
	urls   URLResolver
	loader Loader
	cache  *Cache
	log    logrus.FieldLogger

	deltaLevel       int
	fullOverlapLevel int
	threshold        float64

	levels []*Level
}

type Option func(*Engine)

func WithDeltaLevel(delta int) Option {
	return func(e *Engine) { e.deltaLevel = delta }
}

func WithFullOverlapLevel(level int) Option {
	return func(e *Engine) { e.fullOverlapLevel = level }
}

func WithThreshold(threshold float64) Option {
	return func(e *Engine) { e.threshold = threshold }
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(e *Engine) { e.log = log }
}

func WithCache(c *Cache) Option {
	return func(e *Engine) { e.cache = c }
}

// New creates levels 0 and 1. Level 1 is filled with its four tiles right away.
func New(globe Globe, camera Camera, urls URLResolver, loader Loader, opts ...Option) *Engine {
	e := &Engine{
		globe:            globe,
		camera:           camera,
		urls:             urls,
		loader:           loader,
		log:              logrus.StandardLogger(),
		deltaLevel:       DefaultDeltaLevel,
		fullOverlapLevel: DefaultFullOverlapLevel,
		threshold:        DefaultThreshold,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.cache == nil {
		e.cache = NewCache()
	}

	e.levels = append(e.levels, newLevel(0, e))
	level1 := newLevel(1, e)
	e.levels = append(e.levels, level1)
	for row := uint32(0); row <= 1; row++ {
		for column := uint32(0); column <= 1; column++ {
			level1.Add(e.acquire(NewCoordinate(1, row, column)))
		}
	}
	return e
}

func (e *Engine) acquire(c Coordinate) *Tile {
	t, created := e.cache.Acquire(c, e.urls.TileURL(c.Level, c.Row, c.Column))
	if created {
		e.loader.Load(t)
	}
	return t
}

func (e *Engine) release(c Coordinate) {
	e.cache.Release(c)
}

// AddNew reports whether new tiles of level are requested while the camera
// resolves to lastLevel. Levels just above the deepest one churn while zooming
// and are left to fill later.
func AddNew(level, lastLevel, delta int) bool {
	return level == lastLevel || lastLevel-level > delta
}

// Refresh runs one frame of the pyramid update.
func (e *Engine) Refresh() {
	currentLevel := e.globe.Level()
	lastLevel := e.globe.LastLevel()
	// pitch adjusted threshold, min(90/(90-pitch), 1.5), is disabled
	pitch := e.camera.Pitch()
	lastLevelTiles := e.camera.VisibleTiles(lastLevel, VisibleOptions{Threshold: e.threshold})

	e.updateLevelCount(lastLevel)

	targets := ancestorTargets(lastLevelTiles, lastLevel)
	for level := 2; level <= lastLevel; level++ {
		e.levels[level].UpdateTiles(targets[level], AddNew(level, lastLevel, e.deltaLevel))
	}

	e.updateVisibility(currentLevel, lastLevel)

	e.log.WithFields(logrus.Fields{
		"level":     currentLevel,
		"lastLevel": lastLevel,
		"pitch":     pitch,
		"visible":   len(lastLevelTiles),
		"levels":    len(e.levels),
		"cached":    e.cache.Len(),
	}).Debug("pyramid refreshed")
}

// ancestorTargets returns, indexed by level, the coordinates needed at every
// level from 2 to lastLevel to cover what is visible at lastLevel.
func ancestorTargets(lastLevelTiles []Coordinate, lastLevel int) [][]Coordinate {
	if lastLevel < 0 {
		return nil
	}
	targets := make([][]Coordinate, lastLevel+1)
	cur := lastLevelTiles
	for level := lastLevel; level >= 2; level-- {
		targets[level] = cur
		cur = Parents(cur)
	}
	return targets
}

// updateLevelCount 根据最深层级增删子图层, 第0级和第1级不删除
func (e *Engine) updateLevelCount(lastLevel int) {
	count := len(e.levels)
	delta := lastLevel + 1 - count
	if delta > 0 {
		for i := 0; i < delta; i++ {
			e.levels = append(e.levels, newLevel(count+i, e))
		}
		return
	}
	for i := 0; i < -delta; i++ {
		last := len(e.levels) - 1
		if last < 2 {
			break
		}
		e.levels[last].clear()
		e.levels[last] = nil
		e.levels = e.levels[:last]
	}
}

func (e *Engine) updateVisibility(currentLevel, lastLevel int) {
	for _, l := range e.levels {
		l.SetVisible(true)
		l.setTilesVisible(true)
	}

	if currentLevel < e.fullOverlapLevel {
		return
	}
	ancestorLevel := lastLevel - e.deltaLevel - 1
	if ancestorLevel < 1 || ancestorLevel >= len(e.levels) {
		return
	}

	allLoadedLevel := -1
	for level := ancestorLevel; level >= 0; level-- {
		if e.levels[level].AllTilesLoaded() {
			allLoadedLevel = level
			break
		}
	}
	if allLoadedLevel >= 0 {
		for _, l := range e.levels {
			l.SetVisible(l.Level() >= allLoadedLevel)
		}
	}
	e.levels[ancestorLevel].SetVisible(true)
}

func (e *Engine) Levels() []*Level {
	return e.levels
}

// Level returns the level container i, or nil when it is not resident.
func (e *Engine) Level(i int) *Level {
	if i < 0 || i >= len(e.levels) {
		return nil
	}
	return e.levels[i]
}

func (e *Engine) Cache() *Cache {
	return e.cache
}

// Extents returns the bounds of the resident tiles of level. An out of
// range level falls back to three levels above the deepest one.
func (e *Engine) Extents(level int) []orb.Bound {
	if level < 0 || level > len(e.levels)-1 {
		level = len(e.levels) - 1 - extentLevelOffset
	}
	l := e.Level(level)
	if l == nil {
		return nil
	}
	return l.Extents()
}

// Extent is the union of Extents(level). ok is false when the level holds no tiles.
func (e *Engine) Extent(level int) (b orb.Bound, ok bool) {
	extents := e.Extents(level)
	if len(extents) == 0 {
		return orb.Bound{}, false
	}
	b = extents[0]
	for _, ext := range extents[1:] {
		b = b.Union(ext)
	}
	return b, true
}

// LevelStats 单个层级的瓦片数量
type LevelStats struct {
	Level        int
	AllCount     int
	VisibleCount int
}

func (e *Engine) Stats() []LevelStats {
	res := make([]LevelStats, 0, len(e.levels))
	for _, l := range e.levels {
		res = append(res, LevelStats{
			Level:        l.Level(),
			AllCount:     l.Len(),
			VisibleCount: l.ShouldDrawCount(),
		})
	}
	return res
}

func (e *Engine) LogVisibleTiles() {
	e.log.Info("logVisibleTiles start")
	for _, s := range e.Stats() {
		e.log.WithFields(logrus.Fields{
			"level":        s.Level,
			"allCount":     s.AllCount,
			"visibleCount": s.VisibleCount,
		}).Info("level tiles")
	}
	e.log.Info("logVisibleTiles end")
}
