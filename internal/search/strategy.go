package search

import (
	"strings"

	"github.com/pkg/errors"
)

// Strategy is one way of running the route search. Implementations are
// stateless; each Search call builds its own frontier and caches.
type Strategy interface {
	Name() string
	Search(p *Problem) (*Result, error)
}

// ByName returns the strategy a command-line flag names: "astar", "greedy"
// or "bfs". A* plans under neutral wind so its routes stay optimal; greedy
// rides the Atlantic easterly.
func ByName(name string) (Strategy, error) {
	switch strings.ToLower(name) {
	case "astar", "a*":
		return NewAStar(NoWind()), nil
	case "greedy":
		return NewGreedy(AtlanticEasterly()), nil
	case "bfs", "breadth-first":
		return NewBreadthFirst(), nil
	default:
		return nil, errors.Errorf("unknown strategy %q", name)
	}
}

type aStar struct {
	wind Wind
}

// NewAStar returns A* search: nodes ranked by path cost plus estimate.
// Under a neutral wind the estimate never overshoots, and the route found
// is a cheapest one.
func NewAStar(wind Wind) Strategy {
	return &aStar{wind: wind}
}

func (s *aStar) Name() string { return "A*" }

func (s *aStar) Search(p *Problem) (*Result, error) {
	h := Memoize(NewEstimator(p, s.wind))
	return bestFirst(p, h, func(g int, est float64, _ int) float64 {
		return float64(g) + est
	}, s.Name())
}

type greedy struct {
	wind Wind
}

// NewGreedy returns greedy best-first search: nodes ranked by estimate
// alone. It commits fast and does not promise cheap routes.
func NewGreedy(wind Wind) Strategy {
	return &greedy{wind: wind}
}

func (s *greedy) Name() string { return "Greedy" }

func (s *greedy) Search(p *Problem) (*Result, error) {
	h := Memoize(NewEstimator(p, s.wind))
	return bestFirst(p, h, func(_ int, est float64, _ int) float64 {
		return est
	}, s.Name())
}

type breadthFirst struct{}

// NewBreadthFirst returns breadth-first search: nodes ranked by depth, so
// it finds a shortest action sequence regardless of battery cost.
func NewBreadthFirst() Strategy {
	return breadthFirst{}
}

func (s breadthFirst) Name() string { return "BFS" }

func (s breadthFirst) Search(p *Problem) (*Result, error) {
	return bestFirst(p, zeroEstimate{}, func(_ int, _ float64, depth int) float64 {
		return float64(depth)
	}, s.Name())
}

// zeroEstimate is the null heuristic.
type zeroEstimate struct{}

func (zeroEstimate) Estimate(State) float64 { return 0 }
