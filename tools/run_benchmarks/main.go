// Command run_benchmarks flies every benchmark scenario with every search
// strategy and tabulates the outcomes: steps flown, battery left, samples
// recovered, sites written off. Scenarios come from tools/gen_scenarios plus
// the built-in Rio Poxim survey.
package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/janpfeifer/must"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"

	"github.com/Slotov7/inteligencia-artificial-ufs/internal/estuary"
	"github.com/Slotov7/inteligencia-artificial-ufs/internal/search"
	"github.com/Slotov7/inteligencia-artificial-ufs/internal/sim"
	"github.com/Slotov7/inteligencia-artificial-ufs/internal/workorder"
)

// Row is the outcome of one scenario flown with one strategy.
type Row struct {
	Timestamp   string  `json:"timestamp"`
	GoVersion   string  `json:"go_version"`
	OS          string  `json:"os"`
	Arch        string  `json:"arch"`
	Scenario    string  `json:"scenario"`
	Grid        string  `json:"grid"`
	Sites       int     `json:"sites"`
	Strategy    string  `json:"strategy"`
	RuntimeMs   float64 `json:"runtime_ms"`
	PlanningMs  float64 `json:"planning_ms"`
	Steps       int     `json:"steps"`
	Bumps       int     `json:"bumps"`
	BatteryLeft int     `json:"battery_left"`
	PlansBuilt  int     `json:"plans_built"`
	Replans     int     `json:"replans"`
	Expanded    int     `json:"nodes_expanded"`
	Samples     int     `json:"samples"`
	Closed      int     `json:"orders_closed"`
	Dropped     int     `json:"dropped_sites"`
	Completed   bool    `json:"completed"`
	Stranded    bool    `json:"stranded"`
	Error       string  `json:"error,omitempty"`
}

var defaultStrategies = []string{"astar", "greedy", "bfs"}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

func main() {
	inputDir := flag.String("input", "testdata", "Directory of scenario JSON files from gen_scenarios")
	outputFile := flag.String("output", "evidence/benchmark_results.csv", "Output CSV file")
	strategyFilter := flag.String("strategies", "", "Comma-separated strategies to run (default astar,greedy,bfs)")
	builtin := flag.Bool("builtin", true, "Include the built-in Rio Poxim survey")
	parallel := flag.Int("parallel", runtime.NumCPU(), "Concurrent mission runs")
	klog.InitFlags(nil)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	active := defaultStrategies
	if *strategyFilter != "" {
		active = strings.Split(*strategyFilter, ",")
	}
	for _, name := range active {
		must.M1(search.ByName(name))
	}

	scenarios := loadScenarios(*inputDir, *builtin)
	if len(scenarios) == 0 {
		fmt.Fprintf(os.Stderr, "No scenarios to fly. Run gen_scenarios first: go run ./tools/gen_scenarios -suite -output %s\n", *inputDir)
		os.Exit(1)
	}

	total := len(scenarios) * len(active)
	fmt.Printf("Flying %d scenarios x %d strategies = %d missions on %d workers\n",
		len(scenarios), len(active), total, *parallel)

	var (
		mu   sync.Mutex
		rows []Row
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(*parallel)
	for _, sc := range scenarios {
		for _, name := range active {
			g.Go(func() error {
				row, err := flyOne(gctx, sc, name)
				if err != nil {
					return err
				}
				mu.Lock()
				rows = append(rows, row)
				done := len(rows)
				mu.Unlock()
				fmt.Printf("[%d/%d] %s / %s: steps=%d battery=%d samples=%d completed=%t\n",
					done, total, row.Scenario, row.Strategy, row.Steps, row.BatteryLeft, row.Samples, row.Completed)
				return nil
			})
		}
	}
	must.M(g.Wait())

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Scenario != rows[j].Scenario {
			return rows[i].Scenario < rows[j].Scenario
		}
		return rows[i].Strategy < rows[j].Strategy
	})

	must.M(os.MkdirAll(filepath.Dir(*outputFile), 0755))
	must.M(writeCSV(rows, *outputFile))
	fmt.Printf("\nResults written to %s\n", *outputFile)

	printSummary(rows)
}

// loadScenarios gathers the mission worlds to benchmark. Files that do not
// parse or validate are reported and skipped.
func loadScenarios(dir string, builtin bool) []*estuary.Scenario {
	var out []*estuary.Scenario
	if builtin {
		out = append(out, estuary.Poxim())
	}
	files := must.M1(filepath.Glob(filepath.Join(dir, "*.json")))
	sort.Strings(files)
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Skipping %s: %v\n", file, err)
			continue
		}
		var sc estuary.Scenario
		if err := json.Unmarshal(data, &sc); err != nil {
			fmt.Fprintf(os.Stderr, "Skipping %s: %v\n", file, err)
			continue
		}
		if err := sc.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Skipping %s: %v\n", file, err)
			continue
		}
		out = append(out, &sc)
	}
	return out
}

// flyOne runs a single mission. Mission failures become row data; only a
// dead context aborts the benchmark.
func flyOne(ctx context.Context, sc *estuary.Scenario, strategyName string) (Row, error) {
	strategy, err := search.ByName(strategyName)
	if err != nil {
		return Row{}, err
	}
	orders := workorder.ForScenario(sc)
	if sc.Name == "poxim" {
		orders = workorder.PoximOrders()
	}

	start := time.Now()
	// A failed mission is still a data point; res carries its error.
	res, _ := sim.RunMission(ctx, sim.Config{
		Scenario: sc,
		Orders:   workorder.NewStore(orders...),
		Strategy: strategy,
	})
	elapsed := time.Since(start)
	if ctx.Err() != nil {
		return Row{}, ctx.Err()
	}

	m := res.Metrics
	return Row{
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		GoVersion:   runtime.Version(),
		OS:          runtime.GOOS,
		Arch:        runtime.GOARCH,
		Scenario:    sc.Name,
		Grid:        fmt.Sprintf("%dx%d", sc.Width, sc.Height),
		Sites:       len(sc.Targets),
		Strategy:    strategy.Name(),
		RuntimeMs:   float64(elapsed.Microseconds()) / 1000.0,
		PlanningMs:  float64(m.PlanningTime.Microseconds()) / 1000.0,
		Steps:       m.Steps,
		Bumps:       m.Bumps,
		BatteryLeft: m.BatteryLeft,
		PlansBuilt:  m.PlansBuilt,
		Replans:     m.Replans,
		Expanded:    m.NodesExpanded,
		Samples:     m.SamplesCollected,
		Closed:      m.OrdersClosed,
		Dropped:     len(m.DroppedSites),
		Completed:   m.Completed,
		Stranded:    m.Stranded,
		Error:       res.Error,
	}, nil
}

func writeCSV(rows []Row, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{
		"timestamp", "go_version", "os", "arch",
		"scenario", "grid", "sites", "strategy",
		"runtime_ms", "planning_ms", "steps", "bumps",
		"battery_left", "plans_built", "replans", "nodes_expanded",
		"samples", "orders_closed", "dropped_sites", "completed",
		"stranded", "error",
	}
	if err := writer.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		row := []string{
			r.Timestamp, r.GoVersion, r.OS, r.Arch,
			r.Scenario, r.Grid, fmt.Sprintf("%d", r.Sites), r.Strategy,
			fmt.Sprintf("%.3f", r.RuntimeMs), fmt.Sprintf("%.3f", r.PlanningMs),
			fmt.Sprintf("%d", r.Steps), fmt.Sprintf("%d", r.Bumps),
			fmt.Sprintf("%d", r.BatteryLeft), fmt.Sprintf("%d", r.PlansBuilt),
			fmt.Sprintf("%d", r.Replans), fmt.Sprintf("%d", r.Expanded),
			fmt.Sprintf("%d", r.Samples), fmt.Sprintf("%d", r.Closed),
			fmt.Sprintf("%d", r.Dropped), fmt.Sprintf("%t", r.Completed),
			fmt.Sprintf("%t", r.Stranded), r.Error,
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	return writer.Error()
}

// strategyTotals aggregates rows per strategy.
type strategyTotals struct {
	runs      int
	completed int
	stranded  int
	steps     int
	expanded  int
	samples   int
	dropped   int
	runtimeMs float64
}

func printSummary(rows []Row) {
	totals := make(map[string]*strategyTotals)
	for _, r := range rows {
		t, ok := totals[r.Strategy]
		if !ok {
			t = &strategyTotals{}
			totals[r.Strategy] = t
		}
		t.runs++
		if r.Completed {
			t.completed++
		}
		if r.Stranded {
			t.stranded++
		}
		t.steps += r.Steps
		t.expanded += r.Expanded
		t.samples += r.Samples
		t.dropped += r.Dropped
		t.runtimeMs += r.RuntimeMs
	}

	var names []string
	for name := range totals {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println()
	fmt.Println(titleStyle.Render("Benchmark summary"))
	fmt.Printf("%-10s %6s %10s %10s %9s %11s %9s %9s %12s\n",
		"Strategy", "Runs", "Completed", "Stranded", "AvgSteps", "AvgExpand", "Samples", "Dropped", "AvgTime(ms)")
	fmt.Println(strings.Repeat("-", 94))
	for _, name := range names {
		t := totals[name]
		avgSteps := float64(t.steps) / float64(t.runs)
		avgExpand := float64(t.expanded) / float64(t.runs)
		avgMs := t.runtimeMs / float64(t.runs)
		line := fmt.Sprintf("%-10s %6d %10d %10d %9.1f %11.1f %9d %9d %12.2f",
			name, t.runs, t.completed, t.stranded, avgSteps, avgExpand, t.samples, t.dropped, avgMs)
		if t.stranded > 0 || t.completed < t.runs {
			line = warnStyle.Render(line)
		}
		fmt.Println(line)
	}
}
