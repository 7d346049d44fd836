package main

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tiler/pyramid"
)

func testFlight() FlightConf {
	return FlightConf{MinLevel: 2, MaxLevel: 12, Frames: 11, Width: 512, Height: 256}
}

func TestFlightCamera_VisibleTiles(t *testing.T) {
	cam := NewFlightCamera(orb.LineString{{0, 0}}, testFlight())

	tests := []struct {
		name      string
		level     int
		threshold float64
		want      []pyramid.Coordinate
	}{
		{
			name:      "root",
			level:     0,
			threshold: 1,
			want:      []pyramid.Coordinate{pyramid.NewCoordinate(0, 0, 0)},
		},
		{
			name:      "clamped to grid",
			level:     1,
			threshold: 1,
			want: []pyramid.Coordinate{
				pyramid.NewCoordinate(1, 0, 0), pyramid.NewCoordinate(1, 0, 1),
				pyramid.NewCoordinate(1, 1, 0), pyramid.NewCoordinate(1, 1, 1),
			},
		},
		{
			name:      "viewport",
			level:     3,
			threshold: 1,
			want: []pyramid.Coordinate{
				pyramid.NewCoordinate(3, 3, 3), pyramid.NewCoordinate(3, 3, 4), pyramid.NewCoordinate(3, 3, 5),
				pyramid.NewCoordinate(3, 4, 3), pyramid.NewCoordinate(3, 4, 4), pyramid.NewCoordinate(3, 4, 5),
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cam.VisibleTiles(tt.level, pyramid.VisibleOptions{Threshold: tt.threshold})
			assert.Equal(t, tt.want, got)
		})
	}

	wide := cam.VisibleTiles(3, pyramid.VisibleOptions{Threshold: 2})
	assert.Len(t, wide, 15)
}

func TestFlightCamera_Advance(t *testing.T) {
	cam := NewFlightCamera(orb.LineString{{0, 0}, {10, 0}}, testFlight())

	assert.Equal(t, orb.Point{0, 0}, cam.Center())
	assert.Equal(t, 2, cam.Level())
	assert.Equal(t, 2, cam.LastLevel())

	cam.Advance(5)
	assert.InDelta(t, 5, cam.Center().X(), 1e-9)
	assert.InDelta(t, 12, cam.Zoom(), 1e-9)
	assert.Equal(t, 12, cam.LastLevel())

	cam.Advance(2)
	assert.InDelta(t, 2, cam.Center().X(), 1e-9)
	assert.InDelta(t, 6, cam.Zoom(), 1e-9)

	cam.Advance(10)
	assert.InDelta(t, 10, cam.Center().X(), 1e-9)
	assert.InDelta(t, 2, cam.Zoom(), 1e-9)

	cam.Advance(100)
	assert.InDelta(t, 10, cam.Center().X(), 1e-9)
}

func TestFlightCamera_ProjViewMatrix(t *testing.T) {
	cam := NewFlightCamera(orb.LineString{{0, 0}}, testFlight())
	m := cam.ProjViewMatrix()

	// the centre maps to the origin of clip space
	x := m[0]*0.5 + m[1]*0.5 + m[3]
	y := m[4]*0.5 + m[5]*0.5 + m[7]
	assert.InDelta(t, 0, x, 1e-9)
	assert.InDelta(t, 0, y, 1e-9)
	assert.InDelta(t, 2*4*TileSize/512.0, m[0], 1e-9)
	require.Equal(t, 1.0, m[15])
}
