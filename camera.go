package main

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
	"github.com/paulmach/orb/planar"
	"gonum.org/v1/gonum/mat"

	"tiler/pyramid"
)

// FlightCamera 沿飞行路径移动的模拟相机, 缩放级别先放大后缩小
type FlightCamera struct {
	path     orb.LineString
	lengths  []float64 // cumulative, planar degrees
	minLevel int
	maxLevel int
	frames   int
	width    int
	height   int
	pitch    float64

	center orb.Point
	zoom   float64
}

func NewFlightCamera(path orb.LineString, c FlightConf) *FlightCamera {
	cam := &FlightCamera{
		path:     path,
		minLevel: clampLevel(c.MinLevel),
		maxLevel: clampLevel(c.MaxLevel),
		frames:   c.Frames,
		width:    c.Width,
		height:   c.Height,
		pitch:    c.Pitch,
	}
	cam.lengths = make([]float64, len(path))
	for i := 1; i < len(path); i++ {
		cam.lengths[i] = cam.lengths[i-1] + planar.Distance(path[i-1], path[i])
	}
	cam.Advance(0)
	return cam
}

func clampLevel(level int) int {
	if level < ZoomMin {
		return ZoomMin
	}
	if level > ZoomMax {
		return ZoomMax
	}
	return level
}

// Advance moves the camera to the given frame.
func (c *FlightCamera) Advance(frame int) {
	t := 0.0
	if c.frames > 1 {
		t = float64(frame) / float64(c.frames-1)
	}
	t = math.Max(0, math.Min(1, t))
	c.center = c.pointAt(t)

	phase := 2 * t
	if phase > 1 {
		phase = 2 - phase
	}
	c.zoom = float64(c.minLevel) + float64(c.maxLevel-c.minLevel)*phase
}

func (c *FlightCamera) pointAt(t float64) orb.Point {
	if len(c.path) == 0 {
		return orb.Point{}
	}
	total := c.lengths[len(c.lengths)-1]
	if total == 0 {
		return c.path[0]
	}
	d := t * total
	for i := 1; i < len(c.path); i++ {
		if d > c.lengths[i] {
			continue
		}
		seg := c.lengths[i] - c.lengths[i-1]
		if seg == 0 {
			return c.path[i]
		}
		r := (d - c.lengths[i-1]) / seg
		a, b := c.path[i-1], c.path[i]
		return orb.Point{a[0] + (b[0]-a[0])*r, a[1] + (b[1]-a[1])*r}
	}
	return c.path[len(c.path)-1]
}

func (c *FlightCamera) Center() orb.Point {
	return c.center
}

func (c *FlightCamera) Zoom() float64 {
	return c.zoom
}

// Level 当前级别
func (c *FlightCamera) Level() int {
	return int(math.Floor(c.zoom))
}

// LastLevel 相机能分辨的最深级别
func (c *FlightCamera) LastLevel() int {
	level := int(math.Round(c.zoom))
	if level > c.maxLevel {
		level = c.maxLevel
	}
	return level
}

func (c *FlightCamera) Pitch() float64 {
	return c.pitch
}

// VisibleTiles returns the tiles under the viewport around the centre,
// widened by the threshold and clamped to the tile grid, row by row.
func (c *FlightCamera) VisibleTiles(level int, opts pyramid.VisibleOptions) []pyramid.Coordinate {
	level = clampLevel(level)
	threshold := opts.Threshold
	if threshold <= 0 {
		threshold = 1
	}
	z := maptile.Zoom(level)
	frac := maptile.Fraction(c.center, z)
	halfW := float64(c.width) / 2 / TileSize * threshold
	halfH := float64(c.height) / 2 / TileSize * threshold
	last := float64(uint32(1)<<uint32(level)) - 1

	x0, x1 := clampFloor(frac[0]-halfW, last), clampFloor(frac[0]+halfW, last)
	y0, y1 := clampFloor(frac[1]-halfH, last), clampFloor(frac[1]+halfH, last)

	res := make([]pyramid.Coordinate, 0, (x1-x0+1)*(y1-y0+1))
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			res = append(res, pyramid.NewCoordinate(uint32(level), y, x))
		}
	}
	return res
}

func clampFloor(v, last float64) uint32 {
	return uint32(math.Max(0, math.Min(last, math.Floor(v))))
}

// ProjViewMatrix maps normalized mercator coordinates ([0,1] at level 0) to
// clip space, row-major.
func (c *FlightCamera) ProjViewMatrix() [16]float64 {
	world := math.Exp2(c.zoom) * TileSize
	merc := maptile.Fraction(c.center, 0)

	view := mat.NewDense(4, 4, []float64{
		1, 0, 0, -merc[0],
		0, 1, 0, -merc[1],
		0, 0, 1, 0,
		0, 0, 0, 1,
	})
	proj := mat.NewDense(4, 4, []float64{
		2 * world / float64(c.width), 0, 0, 0,
		0, -2 * world / float64(c.height), 0, 0,
		0, 0, -1, 0,
		0, 0, 0, 1,
	})
	var pv mat.Dense
	pv.Mul(proj, view)

	var res [16]float64
	copy(res[:], pv.RawMatrix().Data)
	return res
}
