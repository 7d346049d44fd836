package pyramid

import (
	"testing"

	"github.com/paulmach/orb/maptile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoordinate_Parent(t *testing.T) {
	tests := []struct {
		name  string
		coord Coordinate
		want  Coordinate
	}{
		{name: "level 1", coord: NewCoordinate(1, 1, 0), want: NewCoordinate(0, 0, 0)},
		{name: "even", coord: NewCoordinate(5, 10, 10), want: NewCoordinate(4, 5, 5)},
		{name: "odd", coord: NewCoordinate(5, 11, 11), want: NewCoordinate(4, 5, 5)},
		{name: "mixed", coord: NewCoordinate(12, 2049, 3000), want: NewCoordinate(11, 1024, 1500)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.coord.Parent()
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCoordinate_ParentFormula(t *testing.T) {
	for level := uint32(1); level <= 8; level++ {
		n := uint32(1) << level
		for row := uint32(0); row < n; row += 3 {
			for column := uint32(0); column < n; column += 5 {
				got, ok := NewCoordinate(level, row, column).Parent()
				require.True(t, ok)
				assert.Equal(t, NewCoordinate(level-1, row/2, column/2), got)
			}
		}
	}
}

func TestCoordinate_RootHasNoParent(t *testing.T) {
	_, ok := NewCoordinate(0, 0, 0).Parent()
	assert.False(t, ok)
}

func TestCoordinate_MapTile(t *testing.T) {
	c := NewCoordinate(3, 5, 2)
	mt := c.MapTile()
	assert.Equal(t, maptile.New(2, 5, 3), mt)
	assert.Equal(t, c, FromMapTile(mt))
	assert.Equal(t, "3/5/2", c.String())
}

func TestCoordinate_Bound(t *testing.T) {
	b := NewCoordinate(1, 0, 0).Bound()
	assert.InDelta(t, -180, b.Min.X(), 1e-9)
	assert.InDelta(t, 0, b.Max.X(), 1e-9)
	assert.InDelta(t, 0, b.Min.Y(), 1e-9)
	assert.Greater(t, b.Max.Y(), 85.0)
}

func TestParents(t *testing.T) {
	children := []Coordinate{
		NewCoordinate(5, 10, 10),
		NewCoordinate(5, 10, 11),
		NewCoordinate(5, 11, 10),
		NewCoordinate(5, 11, 11),
	}
	assert.Equal(t, []Coordinate{NewCoordinate(4, 5, 5)}, Parents(children))

	mixed := []Coordinate{
		NewCoordinate(3, 0, 2),
		NewCoordinate(3, 7, 7),
		NewCoordinate(3, 1, 3),
		NewCoordinate(0, 0, 0),
	}
	assert.Equal(t, []Coordinate{NewCoordinate(2, 0, 1), NewCoordinate(2, 3, 3)}, Parents(mixed))
	assert.Empty(t, Parents(nil))
}
