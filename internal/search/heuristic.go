package search

import (
	"math"

	"github.com/Slotov7/inteligencia-artificial-ufs/internal/estuary"
)

// Wind models the prevailing easterly off the Atlantic as a multiplier on
// eastward travel estimates.
type Wind struct {
	Factor float64
}

// NoWind returns a neutral wind. Estimates under it never exceed the true
// remaining route cost.
func NoWind() Wind {
	return Wind{Factor: 1}
}

// AtlanticEasterly returns the 1.5 eastward drag measured over the estuary.
// Estimates under it can overshoot the true cost, so it steers greedy
// search and mission utility but never an optimal search.
func AtlanticEasterly() Wind {
	return Wind{Factor: 1.5}
}

// Heuristic estimates the remaining route cost from a state.
type Heuristic interface {
	Estimate(s State) float64
}

// Estimator scores a state by the cheapest way to finish: fly to the
// nearest pending survey site, wind-adjusted, then straight home. With
// nothing pending it is the plain grid distance home.
type Estimator struct {
	home    estuary.Position
	targets []estuary.Position
	wind    Wind
}

// NewEstimator builds an estimator for p's sites and home pad.
func NewEstimator(p *Problem, wind Wind) *Estimator {
	return &Estimator{home: p.home, targets: p.targets, wind: wind}
}

func (e *Estimator) Estimate(s State) float64 {
	if s.Pending.Empty() {
		return float64(s.Pos.Manhattan(e.home))
	}
	best := math.Inf(1)
	for i, t := range e.targets {
		if !s.Pending.Has(i) {
			continue
		}
		if v := e.windLeg(s.Pos, t) + float64(t.Manhattan(e.home)); v < best {
			best = v
		}
	}
	return best
}

// windLeg is the estimated cost of flying from one cell to another with
// eastward distance scaled by the wind factor.
func (e *Estimator) windLeg(from, to estuary.Position) float64 {
	dx := to.X - from.X
	dy := to.Y - from.Y
	if dy < 0 {
		dy = -dy
	}
	east, west := 0, 0
	if dx > 0 {
		east = dx
	} else {
		west = -dx
	}
	return e.wind.Factor*float64(east) + float64(west+dy)
}

// Memoized caches estimates by state.
type Memoized struct {
	h     Heuristic
	cache map[State]float64
}

// Memoize wraps h with a per-search cache.
func Memoize(h Heuristic) *Memoized {
	return &Memoized{h: h, cache: make(map[State]float64)}
}

func (m *Memoized) Estimate(s State) float64 {
	if v, ok := m.cache[s]; ok {
		return v
	}
	v := m.h.Estimate(s)
	m.cache[s] = v
	return v
}
