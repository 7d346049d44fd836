package main

import (
	"tiler/pyramid"
)

// headlessProgram records what a GL program would have received.
type headlessProgram struct {
	name     string
	used     int
	matrices map[string][16]float64
	ints     map[string]int
}

func (p *headlessProgram) Use() {
	p.used++
}

func (p *headlessProgram) UniformMatrix4(name string, m [16]float64) {
	p.matrices[name] = m
}

func (p *headlessProgram) Uniform1i(name string, v int) {
	p.ints[name] = v
}

// headlessRenderer 无窗口渲染器, 只统计绘制的瓦片
type headlessRenderer struct {
	programs  map[string]*headlessProgram
	depth     pyramid.DepthFunc
	draws     int
	drawnByLv map[int]int
}

func newHeadlessRenderer() *headlessRenderer {
	return &headlessRenderer{
		programs:  make(map[string]*headlessProgram),
		drawnByLv: make(map[int]int),
	}
}

// Init 注册瓦片着色器程序, 之前的帧不会绘制
func (r *headlessRenderer) Init() {
	r.programs[pyramid.TileProgram] = &headlessProgram{
		name:     pyramid.TileProgram,
		matrices: make(map[string][16]float64),
		ints:     make(map[string]int),
	}
}

func (r *headlessRenderer) Program(name string) (pyramid.Program, bool) {
	p, ok := r.programs[name]
	if !ok {
		return nil, false
	}
	return p, true
}

func (r *headlessRenderer) DepthFunc(f pyramid.DepthFunc) {
	r.depth = f
}

func (r *headlessRenderer) DrawTile(_ pyramid.Program, t *pyramid.Tile) {
	r.draws++
	r.drawnByLv[int(t.Coordinate().Level)]++
	log.Tracef("draw tile %s depth %s", t.Coordinate(), r.depth)
}
