// Package diagnosis estimates the risk of severe contamination from
// chemical samples, using a small Bayesian network calibrated for the Poxim
// estuary.
package diagnosis

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/Slotov7/inteligencia-artificial-ufs/internal/sensor"
)

// Tide is the tidal state at sampling time.
type Tide int

const (
	TideUnknown Tide = iota
	TideLow
	TideHigh
)

func (t Tide) String() string {
	return [...]string{"unknown", "low", "high"}[t]
}

// Urban says whether the sample shows urban influence.
type Urban int

const (
	UrbanUnknown Urban = iota
	UrbanYes
	UrbanNo
)

func (u Urban) String() string {
	return [...]string{"unknown", "urban", "open"}[u]
}

// Health is the apparent state of the water column.
type Health int

const (
	HealthUnknown Health = iota
	HealthDegraded
	HealthGood
)

func (h Health) String() string {
	return [...]string{"unknown", "degraded", "good"}[h]
}

// Evidence is what a sample lets us observe. Unknown fields stay
// unobserved and are summed out.
type Evidence struct {
	Tide   Tide
	Urban  Urban
	Health Health
}

// RiskBand buckets a posterior for reporting.
type RiskBand int

const (
	RiskLow RiskBand = iota
	RiskModerate
	RiskHigh
	RiskCritical
)

func (r RiskBand) String() string {
	return [...]string{"low", "moderate", "high", "critical"}[r]
}

// Classify buckets the probability of severe contamination.
func Classify(p float64) RiskBand {
	switch {
	case p < 0.25:
		return RiskLow
	case p < 0.50:
		return RiskModerate
	case p < 0.75:
		return RiskHigh
	default:
		return RiskCritical
	}
}

type healthKey struct {
	tide  Tide
	urban Urban
}

type severeKey struct {
	health Health
	urban  Urban
}

// Network is the contamination model: tide and urban influence are root
// causes, water health depends on both, and severe contamination depends on
// health and urban influence.
type Network struct {
	tidePrior  map[Tide]float64
	urbanPrior map[Urban]float64
	healthCPT  map[healthKey]float64 // P(degraded | tide, urban)
	severeCPT  map[severeKey]float64 // P(severe | health, urban)
}

// EstuaryNetwork returns the network calibrated against ADEMA's historical
// Poxim sampling campaigns.
func EstuaryNetwork() *Network {
	return &Network{
		tidePrior: map[Tide]float64{
			TideLow:  0.55,
			TideHigh: 0.45,
		},
		urbanPrior: map[Urban]float64{
			UrbanYes: 0.35,
			UrbanNo:  0.65,
		},
		healthCPT: map[healthKey]float64{
			{TideLow, UrbanYes}:  0.85,
			{TideLow, UrbanNo}:   0.45,
			{TideHigh, UrbanYes}: 0.70,
			{TideHigh, UrbanNo}:  0.20,
		},
		severeCPT: map[severeKey]float64{
			{HealthDegraded, UrbanYes}: 0.90,
			{HealthDegraded, UrbanNo}:  0.45,
			{HealthGood, UrbanYes}:     0.25,
			{HealthGood, UrbanNo}:      0.05,
		},
	}
}

// Posterior returns P(severe contamination | evidence) by enumerating the
// hidden variables.
func (n *Network) Posterior(ev Evidence) (float64, error) {
	var num, den float64
	for _, t := range []Tide{TideLow, TideHigh} {
		if ev.Tide != TideUnknown && ev.Tide != t {
			continue
		}
		for _, u := range []Urban{UrbanYes, UrbanNo} {
			if ev.Urban != UrbanUnknown && ev.Urban != u {
				continue
			}
			for _, h := range []Health{HealthDegraded, HealthGood} {
				if ev.Health != HealthUnknown && ev.Health != h {
					continue
				}
				ph := n.healthCPT[healthKey{t, u}]
				if h == HealthGood {
					ph = 1 - ph
				}
				joint := n.tidePrior[t] * n.urbanPrior[u] * ph
				den += joint
				num += joint * n.severeCPT[severeKey{h, u}]
			}
		}
	}
	if den == 0 {
		return 0, errors.Errorf("evidence %+v has zero probability", ev)
	}
	return num / den, nil
}

// Distribution returns the posterior over the severe-contamination
// variable.
func (n *Network) Distribution(ev Evidence) (map[string]float64, error) {
	p, err := n.Posterior(ev)
	if err != nil {
		return nil, err
	}
	return map[string]float64{"severe": p, "not severe": 1 - p}, nil
}

// EvidenceFromReading converts a raw sample into observations. Dissolved
// oxygen under 4 mg/L reads as degraded water and 6 or above as good;
// detectable mercury or lead, or a sample taken inside the urban margin,
// reads as urban influence.
func EvidenceFromReading(r sensor.Reading, tide Tide, urbanCell bool) Evidence {
	ev := Evidence{Tide: tide}
	switch {
	case r.DissolvedOxygen < 4:
		ev.Health = HealthDegraded
	case r.DissolvedOxygen >= 6:
		ev.Health = HealthGood
	}
	if r.Mercury > 0.001 || r.Lead > 0.01 || urbanCell {
		ev.Urban = UrbanYes
	} else {
		ev.Urban = UrbanNo
	}
	return ev
}

// Report is one assessed sample.
type Report struct {
	Reading   sensor.Reading
	Evidence  Evidence
	Posterior float64
	Band      RiskBand
}

func (r Report) String() string {
	return fmt.Sprintf("%s risk of severe contamination (p=%.3f, water %s, influence %s)",
		r.Band, r.Posterior, r.Evidence.Health, r.Evidence.Urban)
}

// Diagnose assesses one sample end to end.
func (n *Network) Diagnose(r sensor.Reading, tide Tide, urbanCell bool) (Report, error) {
	ev := EvidenceFromReading(r, tide, urbanCell)
	p, err := n.Posterior(ev)
	if err != nil {
		return Report{}, err
	}
	return Report{Reading: r, Evidence: ev, Posterior: p, Band: Classify(p)}, nil
}
