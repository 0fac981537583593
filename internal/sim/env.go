package sim

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/Slotov7/inteligencia-artificial-ufs/internal/agent"
	"github.com/Slotov7/inteligencia-artificial-ufs/internal/estuary"
	"github.com/Slotov7/inteligencia-artificial-ufs/internal/search"
	"github.com/Slotov7/inteligencia-artificial-ufs/internal/sensor"
	"github.com/Slotov7/inteligencia-artificial-ufs/internal/workorder"
)

var (
	_ sensor.Telemetry = (*Environment)(nil)
	_ sensor.Proximity = (*Environment)(nil)
)

// Environment is the simulated estuary: the single source of truth for
// where the drone is, its charge, and which survey sites still owe a
// sample. It refuses physically impossible actions and counts them as
// bumps.
type Environment struct {
	grid    *estuary.Grid
	costs   *estuary.CostModel
	home    estuary.Position
	pos     estuary.Position
	battery int
	pending map[estuary.Position]string // survey site -> order ID
	steps   int
	bumps   int
}

// NewEnvironment builds the world for a scenario with one pending site per
// outstanding order.
func NewEnvironment(sc *estuary.Scenario, orders []workorder.Order) (*Environment, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	grid := sc.Grid()
	pending := make(map[estuary.Position]string, len(orders))
	for _, o := range orders {
		if o.Status == workorder.Closed {
			continue
		}
		if !grid.IsPassable(o.Site) {
			return nil, errors.Errorf("order %s: site %s is not reachable water", o.ID, o.Site)
		}
		if other, dup := pending[o.Site]; dup {
			return nil, errors.Errorf("orders %s and %s share site %s", other, o.ID, o.Site)
		}
		pending[o.Site] = o.ID
	}
	return &Environment{
		grid:    grid,
		costs:   estuary.NewCostModel(grid),
		home:    sc.Home,
		pos:     sc.Home,
		battery: sc.Capacity,
		pending: pending,
	}, nil
}

// Grid returns the world's cell table.
func (e *Environment) Grid() *estuary.Grid {
	return e.grid
}

// Position implements sensor.Telemetry.
func (e *Environment) Position() estuary.Position {
	return e.pos
}

// Battery implements sensor.Telemetry.
func (e *Environment) Battery() int {
	return e.battery
}

// ObstaclesNearby implements sensor.Proximity: impassable cells within the
// given grid radius, row-major order.
func (e *Environment) ObstaclesNearby(radius int) []estuary.Position {
	var out []estuary.Position
	for y := e.pos.Y - radius; y <= e.pos.Y+radius; y++ {
		for x := e.pos.X - radius; x <= e.pos.X+radius; x++ {
			p := estuary.Position{X: x, Y: y}
			if e.pos.Manhattan(p) > radius || !e.grid.InBounds(p) {
				continue
			}
			if k, err := e.grid.Kind(p); err == nil && k == estuary.Impassable {
				out = append(out, p)
			}
		}
	}
	return out
}

// Steps returns how many actions have been executed.
func (e *Environment) Steps() int {
	return e.steps
}

// Bumps returns how many actions the world refused.
func (e *Environment) Bumps() int {
	return e.bumps
}

// OrderAt returns the order waiting at a site.
func (e *Environment) OrderAt(p estuary.Position) (string, bool) {
	id, ok := e.pending[p]
	return id, ok
}

// InUrbanZone reports whether a cell sits in the urban margin.
func (e *Environment) InUrbanZone(p estuary.Position) bool {
	k, err := e.grid.Kind(p)
	return err == nil && k == estuary.UrbanZone
}

// Percept snapshots the world for the agent, pending sites in row-major
// order.
func (e *Environment) Percept() agent.Percept {
	sites := make([]estuary.Position, 0, len(e.pending))
	for p := range e.pending {
		sites = append(sites, p)
	}
	sort.Slice(sites, func(i, j int) bool {
		if sites[i].Y != sites[j].Y {
			return sites[i].Y < sites[j].Y
		}
		return sites[i].X < sites[j].X
	})
	return agent.Percept{Pos: e.pos, Battery: e.battery, Pending: sites}
}

// Apply executes one action. A successful Collect returns the ID of the
// order whose sample was just taken. Refused actions leave the world
// untouched apart from the bump count; the battery is allowed to land on
// exactly zero.
func (e *Environment) Apply(a search.Action) (string, error) {
	if a == search.Collect {
		id, ok := e.pending[e.pos]
		if !ok {
			e.bumps++
			return "", &search.NoTargetHereError{Pos: e.pos}
		}
		delete(e.pending, e.pos)
		e.steps++
		return id, nil
	}

	dx, dy := a.Delta()
	to := estuary.Position{X: e.pos.X + dx, Y: e.pos.Y + dy}
	if !e.grid.IsPassable(to) {
		e.bumps++
		return "", &search.InvalidActionError{Action: a, Pos: e.pos}
	}
	cost, err := e.costs.StepCost(e.pos, to)
	if err != nil {
		e.bumps++
		return "", err
	}
	if cost > e.battery {
		e.bumps++
		return "", &search.InvalidActionError{Action: a, Pos: e.pos}
	}
	e.pos = to
	e.battery -= cost
	e.steps++
	return "", nil
}
