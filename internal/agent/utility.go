package agent

import (
	"github.com/Slotov7/inteligencia-artificial-ufs/internal/estuary"
)

// Utility decides what a mission leg is worth. With a comfortable battery
// the drone simply heads for the nearest pending site; once the charge
// fraction falls to Threshold it weighs the expected value of one more
// sampling run against going home.
type Utility struct {
	VisitGain   float64 // reward for a sample brought back
	VisitLoss   float64 // loss for stranding the drone on a sampling run
	ReturnGain  float64 // reward for coming home safely
	ReturnLoss  float64 // loss for stranding the drone on the way home
	UrbanFactor float64 // success discount for sites inside the urban margin
	DrainRate   float64 // battery units assumed burned per cell of distance
	Threshold   float64 // charge fraction below which expected values decide
}

// DefaultUtility returns the mission tuning used on the Poxim surveys.
func DefaultUtility() Utility {
	return Utility{
		VisitGain:   100,
		VisitLoss:   150,
		ReturnGain:  50,
		ReturnLoss:  100,
		UrbanFactor: 0.85,
		DrainRate:   1.5,
		Threshold:   0.30,
	}
}

// FormulateGoal picks the next objective from the current percept. It is a
// pure function of its inputs; pending sites come pre-filtered by the
// caller.
func (u Utility) FormulateGoal(g *estuary.Grid, home estuary.Position, capacity int, pc Percept) Goal {
	if len(pc.Pending) == 0 {
		return Goal{Kind: ReturnHome, Site: home}
	}
	site := nearestSite(pc.Pos, pc.Pending)
	if capacity > 0 && float64(pc.Battery)/float64(capacity) > u.Threshold {
		return Goal{Kind: VisitTarget, Site: site}
	}
	if u.expectedVisit(g, pc.Pos, site, home, pc.Battery) > u.expectedReturn(pc.Pos, home, pc.Battery) {
		return Goal{Kind: VisitTarget, Site: site}
	}
	return Goal{Kind: ReturnHome, Site: home}
}

// expectedVisit values a round trip through site: out, sample, home.
func (u Utility) expectedVisit(g *estuary.Grid, pos, site, home estuary.Position, battery int) float64 {
	trip := pos.Manhattan(site) + site.Manhattan(home)
	chance := u.successChance(battery, trip)
	if k, err := g.Kind(site); err == nil && k == estuary.UrbanZone {
		chance *= u.UrbanFactor
	}
	return chance*u.VisitGain - (1-chance)*u.VisitLoss
}

// expectedReturn values flying straight home.
func (u Utility) expectedReturn(pos, home estuary.Position, battery int) float64 {
	chance := u.successChance(battery, pos.Manhattan(home))
	return chance*u.ReturnGain - (1-chance)*u.ReturnLoss
}

// successChance is the odds of finishing a leg of the given straight-line
// length on the current battery, assuming a conservative drain per cell.
func (u Utility) successChance(battery, distance int) float64 {
	if distance <= 0 {
		return 1
	}
	chance := float64(battery) / (float64(distance) * u.DrainRate)
	if chance > 1 {
		chance = 1
	}
	if chance < 0 {
		chance = 0
	}
	return chance
}

// nearestSite returns the closest site by grid distance, ties broken by
// row-major (y, x) order.
func nearestSite(pos estuary.Position, sites []estuary.Position) estuary.Position {
	best := sites[0]
	bestD := pos.Manhattan(best)
	for _, s := range sites[1:] {
		d := pos.Manhattan(s)
		if d < bestD || (d == bestD && (s.Y < best.Y || (s.Y == best.Y && s.X < best.X))) {
			best, bestD = s, d
		}
	}
	return best
}
