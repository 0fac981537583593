package agent

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/Slotov7/inteligencia-artificial-ufs/internal/estuary"
	"github.com/Slotov7/inteligencia-artificial-ufs/internal/search"
)

// GoalKind says what a mission leg is for.
type GoalKind int

const (
	VisitTarget GoalKind = iota // Fly to a survey site, sample it, come home
	ReturnHome                  // Head straight back to the pad
)

func (k GoalKind) String() string {
	return [...]string{"VisitTarget", "ReturnHome"}[k]
}

// Goal is one formulated objective. Site is the survey site for VisitTarget
// and the home pad for ReturnHome.
type Goal struct {
	Kind GoalKind
	Site estuary.Position
}

func (g Goal) String() string {
	return fmt.Sprintf("%s %s", g.Kind, g.Site)
}

// Plan is a committed route: the goal it serves, the actions to run, their
// per-step battery costs, and the battery level the plan was built from.
type Plan struct {
	ID        uuid.UUID
	Goal      Goal
	Actions   []search.Action
	Costs     []int
	Resource  int
	TotalCost int
	Expanded  int // search nodes expanded finding the route
}

// newPlan prices res action by action against p, so execution can later
// compare predicted and observed battery levels.
func newPlan(p *search.Problem, goal Goal, res *search.Result, battery int) (*Plan, error) {
	costs := make([]int, len(res.Actions))
	s := p.Initial()
	for i, act := range res.Actions {
		c, err := p.StepCost(s, act)
		if err != nil {
			return nil, err
		}
		next, err := p.Result(s, act)
		if err != nil {
			return nil, err
		}
		costs[i] = c
		s = next
	}
	return &Plan{
		ID:        uuid.New(),
		Goal:      goal,
		Actions:   res.Actions,
		Costs:     costs,
		Resource:  battery,
		TotalCost: res.Cost,
		Expanded:  res.Expanded,
	}, nil
}

// PredictedResource returns the battery level the plan expects right before
// executing action n.
func (p *Plan) PredictedResource(n int) int {
	r := p.Resource
	for i := 0; i < n && i < len(p.Costs); i++ {
		r -= p.Costs[i]
	}
	return r
}
