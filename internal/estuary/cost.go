package estuary

import "fmt"

const (
	// BaseCost is the battery price of one unit move over open water.
	BaseCost = 1

	// UrbanPenalty multiplies the base cost when the destination cell is
	// urban. Entering a zone costs 3x; leaving it is priced by the next
	// destination, so stepping back out costs the baseline again.
	UrbanPenalty = 3
)

// InvalidMoveError reports a step that is not an axis-aligned unit move.
type InvalidMoveError struct {
	From, To Position
}

func (e *InvalidMoveError) Error() string {
	return fmt.Sprintf("move %v -> %v is not an axis-aligned unit step", e.From, e.To)
}

// CostModel prices drone actions on a grid. Moving costs battery according
// to the destination cell; collecting a sample is not locomotion and costs
// nothing.
type CostModel struct {
	grid *Grid
}

// NewCostModel prices moves against the given grid.
func NewCostModel(g *Grid) *CostModel {
	return &CostModel{grid: g}
}

// StepCost returns the battery cost of moving between two adjacent cells.
// Only axis-aligned unit moves are priced; anything else is an
// InvalidMoveError. Both endpoints must lie inside the grid.
func (m *CostModel) StepCost(from, to Position) (int, error) {
	if abs(to.X-from.X)+abs(to.Y-from.Y) != 1 {
		return 0, &InvalidMoveError{From: from, To: to}
	}
	if !m.grid.InBounds(from) {
		return 0, &OutOfBoundsError{Pos: from, Width: m.grid.width, Height: m.grid.height}
	}
	kind, err := m.grid.Kind(to)
	if err != nil {
		return 0, err
	}
	if kind == UrbanZone {
		return BaseCost * UrbanPenalty, nil
	}
	return BaseCost, nil
}

// CollectCost is the battery price of sampling the cell under the drone.
func (m *CostModel) CollectCost() int {
	return 0
}
