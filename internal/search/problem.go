// Package search formulates drone survey missions as route-planning
// problems and solves them with interchangeable best-first strategies.
package search

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"

	"github.com/Slotov7/inteligencia-artificial-ufs/internal/estuary"
)

// InvalidActionError reports an action applied in a state where it is not
// applicable.
type InvalidActionError struct {
	Action Action
	Pos    estuary.Position
}

func (e *InvalidActionError) Error() string {
	return fmt.Sprintf("action %s not applicable at %s", e.Action, e.Pos)
}

// NoTargetHereError reports a Collect attempted off any pending survey site.
type NoTargetHereError struct {
	Pos estuary.Position
}

func (e *NoTargetHereError) Error() string {
	return fmt.Sprintf("no pending survey site at %s", e.Pos)
}

// Problem is one route-planning task: visit every survey site and get back
// to the home pad before the battery runs out. Transitions are pure; the
// same Problem value can back any number of searches.
type Problem struct {
	grid    *estuary.Grid
	costs   *estuary.CostModel
	home    estuary.Position
	targets []estuary.Position
	index   map[estuary.Position]int
	initial State
}

// NewProblem builds a problem over the given grid. The drone starts at
// start, which is the home pad for a fresh mission leg and the current cell
// when replanning mid-flight. Survey sites are deduped and indexed in
// row-major (y, x) order, so the same site list always produces the same
// packed pending sets.
func NewProblem(grid *estuary.Grid, home, start estuary.Position, targets []estuary.Position, resource int) (*Problem, error) {
	if !grid.IsPassable(home) {
		return nil, errors.Errorf("home %s is not a passable cell", home)
	}
	if !grid.IsPassable(start) {
		return nil, errors.Errorf("start %s is not a passable cell", start)
	}

	seen := make(map[estuary.Position]bool, len(targets))
	sites := make([]estuary.Position, 0, len(targets))
	for _, t := range targets {
		if seen[t] {
			continue
		}
		if !grid.IsPassable(t) {
			return nil, errors.Errorf("survey site %s is not a passable cell", t)
		}
		seen[t] = true
		sites = append(sites, t)
	}
	if len(sites) > estuary.MaxTargets {
		return nil, errors.Errorf("%d survey sites exceeds limit of %d", len(sites), estuary.MaxTargets)
	}
	sort.Slice(sites, func(i, j int) bool {
		if sites[i].Y != sites[j].Y {
			return sites[i].Y < sites[j].Y
		}
		return sites[i].X < sites[j].X
	})

	index := make(map[estuary.Position]int, len(sites))
	for i, t := range sites {
		index[t] = i
	}

	return &Problem{
		grid:    grid,
		costs:   estuary.NewCostModel(grid),
		home:    home,
		targets: sites,
		index:   index,
		initial: State{Pos: start, Resource: resource, Pending: FullSet(len(sites))},
	}, nil
}

// Initial returns the starting state.
func (p *Problem) Initial() State {
	return p.initial
}

// Home returns the home pad position.
func (p *Problem) Home() estuary.Position {
	return p.home
}

// Targets returns the survey sites in index order.
func (p *Problem) Targets() []estuary.Position {
	out := make([]estuary.Position, len(p.targets))
	copy(out, p.targets)
	return out
}

// Actions lists what the drone can do in state s. Collect comes first when
// the drone is parked on a pending site; moves follow clockwise from North
// and are offered only when the cell is passable and the battery left after
// the step is still positive.
func (p *Problem) Actions(s State) []Action {
	acts := make([]Action, 0, 5)
	if i, ok := p.index[s.Pos]; ok && s.Pending.Has(i) {
		acts = append(acts, Collect)
	}
	for _, a := range moveOrder {
		dx, dy := a.Delta()
		to := estuary.Position{X: s.Pos.X + dx, Y: s.Pos.Y + dy}
		if !p.grid.IsPassable(to) {
			continue
		}
		cost, err := p.costs.StepCost(s.Pos, to)
		if err != nil {
			continue
		}
		if s.Resource-cost <= 0 {
			continue
		}
		acts = append(acts, a)
	}
	return acts
}

// Result applies action a to state s and returns the successor. Applying an
// action that Actions would not offer in s is an error.
func (p *Problem) Result(s State, a Action) (State, error) {
	if a == Collect {
		i, ok := p.index[s.Pos]
		if !ok || !s.Pending.Has(i) {
			return State{}, &NoTargetHereError{Pos: s.Pos}
		}
		s.Pending = s.Pending.Without(i)
		return s, nil
	}

	dx, dy := a.Delta()
	to := estuary.Position{X: s.Pos.X + dx, Y: s.Pos.Y + dy}
	if !p.grid.IsPassable(to) {
		return State{}, &InvalidActionError{Action: a, Pos: s.Pos}
	}
	cost, err := p.costs.StepCost(s.Pos, to)
	if err != nil {
		return State{}, err
	}
	if s.Resource-cost <= 0 {
		return State{}, &InvalidActionError{Action: a, Pos: s.Pos}
	}
	s.Pos = to
	s.Resource -= cost
	return s, nil
}

// StepCost returns the battery cost of applying a in s.
func (p *Problem) StepCost(s State, a Action) (int, error) {
	if a == Collect {
		return p.costs.CollectCost(), nil
	}
	dx, dy := a.Delta()
	to := estuary.Position{X: s.Pos.X + dx, Y: s.Pos.Y + dy}
	return p.costs.StepCost(s.Pos, to)
}

// GoalTest reports whether s completes the mission: nothing left to sample,
// drone back on the home pad, battery not exhausted.
func (p *Problem) GoalTest(s State) bool {
	return s.Pending.Empty() && s.Pos == p.home && s.Resource > 0
}
