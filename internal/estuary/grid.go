// Package estuary defines the static world model for drone survey missions
// over the Rio Poxim estuary: the grid of cell classifications, the battery
// price of moving between cells, and the scenario data (home pad, survey
// sites, battery budget) a mission starts from.
package estuary

import "fmt"

// Position is a cell coordinate on the mission grid. X grows eastward,
// Y grows southward.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Manhattan returns the orthogonal walking distance to other.
func (p Position) Manhattan(other Position) int {
	return abs(p.X-other.X) + abs(p.Y-other.Y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// CellKind classifies a grid cell.
type CellKind uint8

const (
	Open       CellKind = iota // navigable water or mangrove
	Impassable                 // restricted area, never entered
	UrbanZone                  // navigable but penalized (Urban Penalty)
)

func (k CellKind) String() string {
	return [...]string{"Open", "Impassable", "UrbanZone"}[k]
}

// OutOfBoundsError reports a position outside the grid extent.
type OutOfBoundsError struct {
	Pos           Position
	Width, Height int
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("position %v outside %dx%d grid", e.Pos, e.Width, e.Height)
}

// Grid is the cell-kind table for one mission. It is populated once, before
// planning starts, and read-only afterwards; nothing mutates it during a
// planning session.
type Grid struct {
	width, height int
	cells         []CellKind // row-major, index y*width+x
}

// NewGrid creates a grid with every cell Open.
func NewGrid(width, height int) *Grid {
	return &Grid{
		width:  width,
		height: height,
		cells:  make([]CellKind, width*height),
	}
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }

// InBounds reports whether p lies inside the grid extent.
func (g *Grid) InBounds(p Position) bool {
	return p.X >= 0 && p.X < g.width && p.Y >= 0 && p.Y < g.height
}

// Kind returns the classification of the cell at p.
func (g *Grid) Kind(p Position) (CellKind, error) {
	if !g.InBounds(p) {
		return Open, &OutOfBoundsError{Pos: p, Width: g.width, Height: g.height}
	}
	return g.cells[p.Y*g.width+p.X], nil
}

// SetKind classifies the cell at p. Construction only; grids are read-only
// once a planning session starts.
func (g *Grid) SetKind(p Position, k CellKind) error {
	if !g.InBounds(p) {
		return &OutOfBoundsError{Pos: p, Width: g.width, Height: g.height}
	}
	g.cells[p.Y*g.width+p.X] = k
	return nil
}

// IsPassable reports whether the drone may occupy p. False for Impassable
// cells and for anything outside the grid.
func (g *Grid) IsPassable(p Position) bool {
	if !g.InBounds(p) {
		return false
	}
	return g.cells[p.Y*g.width+p.X] != Impassable
}
