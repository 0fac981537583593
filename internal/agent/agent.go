// Package agent runs the survey drone's sense-plan-act loop: formulate a
// goal, search a route for it, execute the route, and replan when the world
// disagrees with the plan.
package agent

import (
	"sort"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/Slotov7/inteligencia-artificial-ufs/internal/estuary"
	"github.com/Slotov7/inteligencia-artificial-ufs/internal/search"
)

// Phase is where the agent is in its loop.
type Phase int

const (
	Idle Phase = iota
	Formulating
	Searching
	HasPlan
	Executing
	Failed
)

func (p Phase) String() string {
	return [...]string{"Idle", "Formulating", "Searching", "HasPlan", "Executing", "Failed"}[p]
}

// Percept is one sensor snapshot handed to the agent each step.
type Percept struct {
	Pos     estuary.Position
	Battery int
	Pending []estuary.Position // open survey sites, row-major (y, x) order
}

// Config wires an agent to its mission.
type Config struct {
	Grid     *estuary.Grid
	Home     estuary.Position
	Capacity int
	Strategy search.Strategy
	Utility  Utility
}

// Agent executes survey missions one plan at a time. Not safe for
// concurrent use.
type Agent struct {
	cfg     Config
	phase   Phase
	plan    *Plan
	step    int
	dropped map[estuary.Position]bool
}

// New builds an agent. A nil strategy defaults to A* under neutral wind and
// a zero utility to the Poxim mission tuning.
func New(cfg Config) *Agent {
	if cfg.Strategy == nil {
		cfg.Strategy = search.NewAStar(search.NoWind())
	}
	if cfg.Utility == (Utility{}) {
		cfg.Utility = DefaultUtility()
	}
	return &Agent{cfg: cfg, phase: Idle, dropped: make(map[estuary.Position]bool)}
}

// Phase returns the agent's current phase.
func (a *Agent) Phase() Phase {
	return a.phase
}

// CurrentPlan returns the plan being executed, or nil between plans.
func (a *Agent) CurrentPlan() *Plan {
	return a.plan
}

// Dropped returns the survey sites written off as unreachable, in row-major
// order.
func (a *Agent) Dropped() []estuary.Position {
	out := make([]estuary.Position, 0, len(a.dropped))
	for p := range a.dropped {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out
}

// Act advances the loop by one step: it returns the next action to execute,
// or ok=false once the mission is over. A fresh plan is built when none is
// active and when the observed battery drifts from the plan's prediction.
func (a *Agent) Act(pc Percept) (search.Action, bool, error) {
	if a.phase == Failed {
		return 0, false, errors.New("agent already failed, percept ignored")
	}

	needPlan := a.plan == nil || a.step >= len(a.plan.Actions)
	if !needPlan && pc.Battery != a.plan.PredictedResource(a.step) {
		klog.Warningf("battery %d but plan %s predicted %d, replanning",
			pc.Battery, a.plan.ID, a.plan.PredictedResource(a.step))
		needPlan = true
	}
	if needPlan {
		if a.missionComplete(pc) {
			a.plan = nil
			a.phase = Idle
			return 0, false, nil
		}
		if err := a.replan(pc); err != nil {
			return 0, false, err
		}
		if len(a.plan.Actions) == 0 {
			// The utility rule sent the drone home and it is already there.
			a.plan = nil
			a.phase = Idle
			return 0, false, nil
		}
	}

	act := a.plan.Actions[a.step]
	a.step++
	a.phase = Executing
	return act, true, nil
}

// replan formulates a goal and searches a route for it. A site the search
// proves unreachable is dropped and formulation retried; failing to find a
// way home is final.
func (a *Agent) replan(pc Percept) error {
	for {
		a.phase = Formulating
		live := a.livePending(pc)
		goal := a.cfg.Utility.FormulateGoal(a.cfg.Grid, a.cfg.Home, a.cfg.Capacity,
			Percept{Pos: pc.Pos, Battery: pc.Battery, Pending: live})

		var sites []estuary.Position
		if goal.Kind == VisitTarget {
			sites = []estuary.Position{goal.Site}
		}
		prob, err := search.NewProblem(a.cfg.Grid, a.cfg.Home, pc.Pos, sites, pc.Battery)
		if err != nil {
			a.phase = Failed
			return err
		}

		a.phase = Searching
		res, err := a.cfg.Strategy.Search(prob)
		if err != nil {
			var noPath *search.NoPathFoundError
			if errors.As(err, &noPath) && goal.Kind == VisitTarget {
				klog.Warningf("dropping survey site %s: %v", goal.Site, err)
				a.dropped[goal.Site] = true
				continue
			}
			a.phase = Failed
			return errors.WithMessagef(err, "no way home from %s", pc.Pos)
		}

		plan, err := newPlan(prob, goal, res, pc.Battery)
		if err != nil {
			a.phase = Failed
			return err
		}
		a.plan = plan
		a.step = 0
		a.phase = HasPlan
		klog.V(1).Infof("plan %s: %s via %d actions costing %d (battery %d, %s expanded %d)",
			plan.ID, goal, len(plan.Actions), plan.TotalCost, pc.Battery,
			a.cfg.Strategy.Name(), res.Expanded)
		return nil
	}
}

// livePending filters dropped sites out of the percept's pending list.
func (a *Agent) livePending(pc Percept) []estuary.Position {
	if len(a.dropped) == 0 {
		return pc.Pending
	}
	live := make([]estuary.Position, 0, len(pc.Pending))
	for _, p := range pc.Pending {
		if !a.dropped[p] {
			live = append(live, p)
		}
	}
	return live
}

// missionComplete reports whether the drone is home with nothing left worth
// flying to.
func (a *Agent) missionComplete(pc Percept) bool {
	return pc.Pos == a.cfg.Home && len(a.livePending(pc)) == 0
}
