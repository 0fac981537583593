package estuary

import (
	"github.com/pkg/errors"
)

// MaxTargets caps the survey sites per scenario; route planning packs the
// pending set into a 64-bit mask.
const MaxTargets = 64

// Scenario describes one survey mission: grid extent, the fixed home pad,
// the cells that are off-limits or urban, the sites to sample, and the
// battery budget. The JSON shape is what tools/gen_scenarios emits.
type Scenario struct {
	Name       string     `json:"name"`
	Width      int        `json:"width"`
	Height     int        `json:"height"`
	Home       Position   `json:"home"`
	Capacity   int        `json:"capacity"`
	Obstacles  []Position `json:"obstacles,omitempty"`
	UrbanZones []Position `json:"urban_zones,omitempty"`
	Targets    []Position `json:"targets"`
	MaxSteps   int        `json:"max_steps,omitempty"`
}

// Validate checks scenario consistency.
func (s *Scenario) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return errors.Errorf("scenario %q: grid extent %dx%d invalid", s.Name, s.Width, s.Height)
	}
	if s.Capacity <= 0 {
		return errors.Errorf("scenario %q: battery capacity %d invalid", s.Name, s.Capacity)
	}
	if len(s.Targets) > MaxTargets {
		return errors.Errorf("scenario %q: %d survey sites exceeds limit of %d", s.Name, len(s.Targets), MaxTargets)
	}
	inBounds := func(p Position) bool {
		return p.X >= 0 && p.X < s.Width && p.Y >= 0 && p.Y < s.Height
	}
	if !inBounds(s.Home) {
		return errors.Errorf("scenario %q: home %v outside grid", s.Name, s.Home)
	}
	blocked := make(map[Position]bool, len(s.Obstacles))
	for _, p := range s.Obstacles {
		if !inBounds(p) {
			return errors.Errorf("scenario %q: obstacle %v outside grid", s.Name, p)
		}
		blocked[p] = true
	}
	for _, p := range s.UrbanZones {
		if !inBounds(p) {
			return errors.Errorf("scenario %q: urban zone %v outside grid", s.Name, p)
		}
	}
	if blocked[s.Home] {
		return errors.Errorf("scenario %q: home %v sits on an obstacle", s.Name, s.Home)
	}
	for _, p := range s.Targets {
		if !inBounds(p) {
			return errors.Errorf("scenario %q: survey site %v outside grid", s.Name, p)
		}
		if blocked[p] {
			return errors.Errorf("scenario %q: survey site %v sits on an obstacle", s.Name, p)
		}
	}
	return nil
}

// Grid builds the cell-kind table. Obstacles win when a cell is listed both
// as obstacle and urban zone.
func (s *Scenario) Grid() *Grid {
	g := NewGrid(s.Width, s.Height)
	for _, p := range s.UrbanZones {
		_ = g.SetKind(p, UrbanZone)
	}
	for _, p := range s.Obstacles {
		_ = g.SetKind(p, Impassable)
	}
	return g
}

// Poxim returns the canonical Rio Poxim survey mission: a 10x10 stretch of
// the estuary off Aracaju with the urban margin to the east of the mangrove,
// three standing ADEMA sample requests, and a 60-unit battery.
func Poxim() *Scenario {
	return &Scenario{
		Name:     "poxim",
		Width:    10,
		Height:   10,
		Home:     Position{X: 0, Y: 0},
		Capacity: 60,
		Obstacles: []Position{
			{X: 4, Y: 4}, {X: 5, Y: 4}, {X: 6, Y: 3}, {X: 7, Y: 4}, {X: 2, Y: 6},
		},
		UrbanZones: []Position{
			{X: 1, Y: 1}, {X: 2, Y: 1}, {X: 3, Y: 1},
			{X: 1, Y: 2}, {X: 2, Y: 2},
			{X: 4, Y: 3}, {X: 5, Y: 3},
			{X: 5, Y: 5}, {X: 6, Y: 5},
		},
		Targets: []Position{
			{X: 7, Y: 2}, {X: 3, Y: 8}, {X: 8, Y: 6},
		},
		MaxSteps: 200,
	}
}
