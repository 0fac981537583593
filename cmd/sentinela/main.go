// Command sentinela flies an autonomous water-sampling mission over the Rio
// Poxim estuary: it loads the outstanding ADEMA work orders, plans routes
// with the chosen search strategy, and prints the mission report with the
// ecotoxicological assessment of every sample brought back.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/janpfeifer/must"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/Slotov7/inteligencia-artificial-ufs/internal/agent"
	"github.com/Slotov7/inteligencia-artificial-ufs/internal/diagnosis"
	"github.com/Slotov7/inteligencia-artificial-ufs/internal/estuary"
	"github.com/Slotov7/inteligencia-artificial-ufs/internal/search"
	"github.com/Slotov7/inteligencia-artificial-ufs/internal/sensor"
	"github.com/Slotov7/inteligencia-artificial-ufs/internal/sim"
	"github.com/Slotov7/inteligencia-artificial-ufs/internal/workorder"
)

var (
	flagScenario = flag.String("scenario", "", "Scenario JSON file. Empty flies the built-in Rio Poxim survey.")
	flagStrategy = flag.String("strategy", "astar", "Route search strategy: astar, greedy or bfs.")
	flagTide     = flag.String("tide", "unknown", "Tide observation for sample assessment: low, high or unknown.")
	flagReadings = flag.String("readings", "", "JSON file with per-site water readings for the simulated chemical sensor.")
	flagMaxSteps = flag.Int("max_steps", 0, "Hard cap on executed actions. 0 takes the scenario's cap.")
	flagLowBatt  = flag.Float64("low_battery", 0.30, "Charge fraction below which the drone weighs one more site against heading home.")
	flagMetrics  = flag.String("metrics", "", "Write run metrics to this JSON file.")
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	badStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	scenario := estuary.Poxim()
	if *flagScenario != "" {
		scenario = must.M1(loadScenario(*flagScenario))
	}
	strategy := must.M1(search.ByName(*flagStrategy))
	tide := must.M1(parseTide(*flagTide))

	var readings map[estuary.Position]sensor.Reading
	if *flagReadings != "" {
		readings = must.M1(loadReadings(*flagReadings))
	}

	store := workorder.NewStore(ordersFor(scenario)...)
	utility := agent.DefaultUtility()
	utility.Threshold = *flagLowBatt

	vision := &sensor.FixedVision{Temp: 27.4}
	fmt.Printf("Pre-flight thermal check: surface water %.1f C\n", vision.ThermalReading())

	runner := sim.NewSimulator(sim.Config{
		Scenario: scenario,
		Orders:   store,
		Strategy: strategy,
		Utility:  utility,
		MaxSteps: *flagMaxSteps,
		Chemical: readings,
		Tide:     tide,
	})
	metrics, err := runner.Run(ctx)
	if err != nil {
		if metrics != nil {
			printReport(ctx, scenario, store, metrics)
		}
		klog.Exitf("mission failed: %+v", err)
	}

	printReport(ctx, scenario, store, metrics)
	if *flagMetrics != "" {
		must.M(runner.ExportMetrics(*flagMetrics))
		fmt.Printf("\nMetrics written to %s\n", *flagMetrics)
	}
	if !metrics.Completed {
		os.Exit(1)
	}
}

func printReport(ctx context.Context, sc *estuary.Scenario, orders workorder.Source, m *sim.Metrics) {
	fmt.Println()
	fmt.Println(titleStyle.Render(fmt.Sprintf("Survey %q flown by %s (run %s)", sc.Name, m.Strategy, m.RunID)))
	fmt.Printf("  steps %d, bumps %d, battery %d/%d, planning %s\n",
		m.Steps, m.Bumps, m.BatteryLeft, sc.Capacity, m.PlanningTime.Round(time.Microsecond))
	fmt.Printf("  plans %d, replans %d, nodes expanded %d, samples %d, orders closed %d\n",
		m.PlansBuilt, m.Replans, m.NodesExpanded, m.SamplesCollected, m.OrdersClosed)

	switch {
	case m.Stranded:
		fmt.Printf("  %s\n", badStyle.Render("drone stranded in the field"))
	case !m.Completed:
		fmt.Printf("  %s\n", warnStyle.Render("step cap hit before the mission finished"))
	default:
		fmt.Printf("  %s\n", okStyle.Render("mission complete, drone back at the pad"))
	}
	for _, site := range m.DroppedSites {
		fmt.Printf("  %s\n", warnStyle.Render(fmt.Sprintf("site %s written off: beyond battery reach", site)))
	}

	all := must.M1(orders.List(ctx))
	fmt.Println()
	fmt.Println(titleStyle.Render("Work orders"))
	for _, o := range all {
		line := fmt.Sprintf("%s  %-10s  %s  %s", o.ID, o.Status, o.Site, o.Title)
		switch o.Status {
		case workorder.Closed:
			line = okStyle.Render(line)
		case workorder.InProgress:
			line = warnStyle.Render(line)
		}
		fmt.Println("  " + line)
		if o.Ecotox != "" {
			fmt.Printf("      %s\n", o.Ecotox)
		}
	}
}

// ordersFor returns the standing ADEMA orders for the canonical mission and
// synthesizes one order per survey site for ad-hoc scenarios.
func ordersFor(sc *estuary.Scenario) []workorder.Order {
	if sc.Name == "poxim" {
		return workorder.PoximOrders()
	}
	return workorder.ForScenario(sc)
}

func loadScenario(path string) (*estuary.Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithMessagef(err, "reading scenario %s", path)
	}
	var sc estuary.Scenario
	if err := json.Unmarshal(data, &sc); err != nil {
		return nil, errors.WithMessagef(err, "parsing scenario %s", path)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// siteReading pairs a survey site with the water profile the simulated
// chemical sensor should report there.
type siteReading struct {
	Site    estuary.Position `json:"site"`
	Reading sensor.Reading   `json:"reading"`
}

func loadReadings(path string) (map[estuary.Position]sensor.Reading, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithMessagef(err, "reading water profiles %s", path)
	}
	var rows []siteReading
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, errors.WithMessagef(err, "parsing water profiles %s", path)
	}
	out := make(map[estuary.Position]sensor.Reading, len(rows))
	for _, r := range rows {
		out[r.Site] = r.Reading
	}
	return out, nil
}

func parseTide(s string) (diagnosis.Tide, error) {
	switch strings.ToLower(s) {
	case "low":
		return diagnosis.TideLow, nil
	case "high":
		return diagnosis.TideHigh, nil
	case "unknown", "":
		return diagnosis.TideUnknown, nil
	default:
		return 0, errors.Errorf("unknown tide %q, want low, high or unknown", s)
	}
}
