package pyramid

import "fmt"

type fakeGlobe struct {
	level     int
	lastLevel int
}

func (g *fakeGlobe) Level() int     { return g.level }
func (g *fakeGlobe) LastLevel() int { return g.lastLevel }

func (g *fakeGlobe) set(level int) {
	g.level = level
	g.lastLevel = level
}

type fakeCamera struct {
	visible   map[int][]Coordinate
	threshold float64
	matrix    [16]float64
}

func (c *fakeCamera) VisibleTiles(level int, opts VisibleOptions) []Coordinate {
	c.threshold = opts.Threshold
	return c.visible[level]
}

func (c *fakeCamera) Pitch() float64 { return 30 }

func (c *fakeCamera) ProjViewMatrix() [16]float64 { return c.matrix }

// block returns four sibling coordinates, sharing one parent when row and column are even.
func block(level, row, column uint32) []Coordinate {
	return []Coordinate{
		NewCoordinate(level, row, column),
		NewCoordinate(level, row, column+1),
		NewCoordinate(level, row+1, column),
		NewCoordinate(level, row+1, column+1),
	}
}

type fakeLoader struct {
	requests  []Coordinate
	loadNow   bool
	requested map[Coordinate]*Tile
}

func newFakeLoader(loadNow bool) *fakeLoader {
	return &fakeLoader{loadNow: loadNow, requested: make(map[Coordinate]*Tile)}
}

func (l *fakeLoader) Load(t *Tile) {
	l.requests = append(l.requests, t.Coordinate())
	l.requested[t.Coordinate()] = t
	if l.loadNow {
		t.SetLoaded(true)
	}
}

func (l *fakeLoader) countAt(level uint32) int {
	n := 0
	for _, c := range l.requests {
		if c.Level == level {
			n++
		}
	}
	return n
}

var testURLs = URLResolverFunc(func(level, row, column uint32) string {
	return fmt.Sprintf("http://tiles.test/%d/%d/%d.png", level, column, row)
})

type fakeProgram struct {
	used     int
	matrices map[string][16]float64
	ints     map[string]int
}

func (p *fakeProgram) Use() { p.used++ }

func (p *fakeProgram) UniformMatrix4(name string, m [16]float64) { p.matrices[name] = m }

func (p *fakeProgram) Uniform1i(name string, v int) { p.ints[name] = v }

type fakeRenderer struct {
	program *fakeProgram
	depth   []DepthFunc
	drawn   []Coordinate
}

func newFakeRenderer(withProgram bool) *fakeRenderer {
	r := &fakeRenderer{}
	if withProgram {
		r.program = &fakeProgram{matrices: map[string][16]float64{}, ints: map[string]int{}}
	}
	return r
}

func (r *fakeRenderer) Program(name string) (Program, bool) {
	if r.program == nil || name != TileProgram {
		return nil, false
	}
	return r.program, true
}

func (r *fakeRenderer) DepthFunc(f DepthFunc) { r.depth = append(r.depth, f) }

func (r *fakeRenderer) DrawTile(_ Program, t *Tile) { r.drawn = append(r.drawn, t.Coordinate()) }
