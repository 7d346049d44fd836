package pyramid

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
)

// Coordinate 瓦片行列号, Row 对应 maptile 的 Y, Column 对应 X
type Coordinate struct {
	Level  uint32
	Row    uint32
	Column uint32
}

func NewCoordinate(level, row, column uint32) Coordinate {
	return Coordinate{Level: level, Row: row, Column: column}
}

func FromMapTile(t maptile.Tile) Coordinate {
	return Coordinate{Level: uint32(t.Z), Row: t.Y, Column: t.X}
}

func (c Coordinate) MapTile() maptile.Tile {
	return maptile.New(c.Column, c.Row, maptile.Zoom(c.Level))
}

// Parent returns the coordinate one level up. Level 0 has no parent.
func (c Coordinate) Parent() (Coordinate, bool) {
	if c.Level == 0 {
		return c, false
	}
	return FromMapTile(c.MapTile().Parent()), true
}

// Bound 瓦片经纬度范围
func (c Coordinate) Bound() orb.Bound {
	return c.MapTile().Bound()
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%d/%d/%d", c.Level, c.Row, c.Column)
}

// Parents maps every coordinate to its parent, dropping duplicates while
// keeping the order in which parents are first seen. Level 0 coordinates are skipped.
func Parents(cs []Coordinate) []Coordinate {
	seen := make(map[Coordinate]struct{}, len(cs))
	res := make([]Coordinate, 0, len(cs)/4+1)
	for _, c := range cs {
		p, ok := c.Parent()
		if !ok {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		res = append(res, p)
	}
	return res
}
