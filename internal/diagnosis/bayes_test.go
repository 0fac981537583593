package diagnosis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Slotov7/inteligencia-artificial-ufs/internal/sensor"
)

func TestPosteriorKnownValues(t *testing.T) {
	n := EstuaryNetwork()
	tests := []struct {
		name string
		ev   Evidence
		want float64
	}{
		{"low tide inside the urban margin", Evidence{Tide: TideLow, Urban: UrbanYes}, 0.8025},
		{"high tide on open water", Evidence{Tide: TideHigh, Urban: UrbanNo}, 0.13},
		{"no observations at all", Evidence{}, 0.38576875},
		{"degraded urban water dominates the tide", Evidence{Health: HealthDegraded, Urban: UrbanYes}, 0.90},
		{"degraded urban water at low tide", Evidence{Tide: TideLow, Health: HealthDegraded, Urban: UrbanYes}, 0.90},
		{"good water on open water", Evidence{Health: HealthGood, Urban: UrbanNo}, 0.05},
	}
	for _, tt := range tests {
		got, err := n.Posterior(tt.ev)
		require.NoError(t, err, tt.name)
		require.InDelta(t, tt.want, got, 1e-9, tt.name)
	}
}

func TestDistributionSumsToOne(t *testing.T) {
	n := EstuaryNetwork()
	for _, ev := range []Evidence{
		{},
		{Tide: TideLow},
		{Urban: UrbanYes, Health: HealthDegraded},
	} {
		dist, err := n.Distribution(ev)
		require.NoError(t, err)
		require.InDelta(t, 1, dist["severe"]+dist["not severe"], 1e-9)

		p, err := n.Posterior(ev)
		require.NoError(t, err)
		require.InDelta(t, p, dist["severe"], 1e-9)
	}
}

func TestClassifyBands(t *testing.T) {
	tests := []struct {
		p    float64
		want RiskBand
	}{
		{0.10, RiskLow},
		{0.24, RiskLow},
		{0.25, RiskModerate},
		{0.38, RiskModerate},
		{0.50, RiskHigh},
		{0.74, RiskHigh},
		{0.75, RiskCritical},
		{0.90, RiskCritical},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, Classify(tt.p), "Classify(%v)", tt.p)
	}
}

func TestEvidenceFromReading(t *testing.T) {
	tests := []struct {
		name      string
		reading   sensor.Reading
		urbanCell bool
		want      Evidence
	}{
		{
			"clean water on open cell",
			sensor.DefaultReading(), false,
			Evidence{Health: HealthGood, Urban: UrbanNo},
		},
		{
			"anoxic water with mercury",
			sensor.Reading{Mercury: 0.05, Lead: 0.12, DissolvedOxygen: 3.2}, false,
			Evidence{Health: HealthDegraded, Urban: UrbanYes},
		},
		{
			"middling oxygen stays unobserved",
			sensor.Reading{DissolvedOxygen: 5.0}, false,
			Evidence{Health: HealthUnknown, Urban: UrbanNo},
		},
		{
			"lead alone flags urban influence",
			sensor.Reading{Lead: 0.02, DissolvedOxygen: 6.5}, false,
			Evidence{Health: HealthGood, Urban: UrbanYes},
		},
		{
			"urban cell flags influence even when water is clean",
			sensor.DefaultReading(), true,
			Evidence{Health: HealthGood, Urban: UrbanYes},
		},
	}
	for _, tt := range tests {
		got := EvidenceFromReading(tt.reading, TideUnknown, tt.urbanCell)
		require.Equal(t, tt.want, got, tt.name)
	}

	got := EvidenceFromReading(sensor.DefaultReading(), TideHigh, false)
	require.Equal(t, TideHigh, got.Tide)
}

func TestDiagnose(t *testing.T) {
	n := EstuaryNetwork()

	rep, err := n.Diagnose(sensor.Reading{Mercury: 0.05, Lead: 0.12, DissolvedOxygen: 3.2}, TideLow, false)
	require.NoError(t, err)
	require.InDelta(t, 0.90, rep.Posterior, 1e-9)
	require.Equal(t, RiskCritical, rep.Band)
	require.True(t, strings.Contains(rep.String(), "critical"), "report: %s", rep)

	rep, err = n.Diagnose(sensor.DefaultReading(), TideUnknown, false)
	require.NoError(t, err)
	require.InDelta(t, 0.05, rep.Posterior, 1e-9)
	require.Equal(t, RiskLow, rep.Band)
}
