package pyramid

// VisibleOptions 可见瓦片查询参数
type VisibleOptions struct {
	Threshold float64
}

// Camera turns a level into the coordinates visible on screen.
type Camera interface {
	VisibleTiles(level int, opts VisibleOptions) []Coordinate
	// Pitch in degrees
	Pitch() float64
	ProjViewMatrix() [16]float64
}

// Globe reports the current zoom level and the deepest level the camera resolves to.
type Globe interface {
	Level() int
	LastLevel() int
}

// URLResolver builds the fetch url of a tile.
type URLResolver interface {
	TileURL(level, row, column uint32) string
}

type URLResolverFunc func(level, row, column uint32) string

func (f URLResolverFunc) TileURL(level, row, column uint32) string {
	return f(level, row, column)
}

// Loader requests the image of a tile. Load must not block; the loader calls
// t.SetLoaded(true) once the image is available.
type Loader interface {
	Load(t *Tile)
}

type DepthFunc int

const (
	DepthLessEqual DepthFunc = iota
	DepthAlways
)

func (d DepthFunc) String() string {
	switch d {
	case DepthAlways:
		return "ALWAYS"
	case DepthLessEqual:
		return "LEQUAL"
	}
	return "UNKNOWN"
}

// TileProgram is the name of the shader program tiles are drawn with.
const TileProgram = "tile"

type Program interface {
	Use()
	UniformMatrix4(name string, m [16]float64)
	Uniform1i(name string, v int)
}

type Renderer interface {
	Program(name string) (Program, bool)
	DepthFunc(f DepthFunc)
	DrawTile(p Program, t *Tile)
}
