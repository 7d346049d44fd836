package pyramid

const (
	uniformProjView = "uPMVMatrix"
	uniformSampler  = "uSampler"
)

// DrawStats counts the tiles drawn per level in one pass.
type DrawStats struct {
	Tiles    int
	PerLevel map[int]int
}

// Draw renders the loaded tiles of the visible levels, coarse levels first.
// Nothing is drawn while the tile program is not available.
func (e *Engine) Draw(r Renderer) DrawStats {
	stats := DrawStats{PerLevel: make(map[int]int)}
	program, ok := r.Program(TileProgram)
	if !ok {
		return stats
	}
	program.Use()
	program.UniformMatrix4(uniformProjView, e.camera.ProjViewMatrix())
	program.Uniform1i(uniformSampler, 0)

	// levels do not share consistent depth values, drawing them with LEQUAL flickers while dragging
	r.DepthFunc(DepthAlways)
	defer r.DepthFunc(DepthLessEqual)

	for _, l := range e.levels {
		if !l.Visible() {
			continue
		}
		for p := l.tiles.Oldest(); p != nil; p = p.Next() {
			if !p.Value.ShouldDraw() {
				continue
			}
			r.DrawTile(program, p.Value)
			stats.Tiles++
			stats.PerLevel[l.Level()]++
		}
	}
	return stats
}
