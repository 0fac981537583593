// Command gen_scenarios generates deterministic survey scenarios for
// benchmarking. Every emitted file is an estuary scenario in the JSON shape
// cmd/sentinela loads, with all survey sites guaranteed reachable from the
// home pad.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/janpfeifer/must"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/Slotov7/inteligencia-artificial-ufs/internal/estuary"
)

// Params drives one scenario generation.
type Params struct {
	Seed            int64   `json:"seed"`
	Width           int     `json:"width"`
	Height          int     `json:"height"`
	Targets         int     `json:"targets"`
	ObstacleDensity float64 `json:"obstacle_density"`
	UrbanDensity    float64 `json:"urban_density"`
	Capacity        int     `json:"capacity"` // 0 sizes the battery from the farthest site
}

// generate builds one scenario. Obstacles and urban zones are scattered at
// the requested densities, then survey sites are drawn from the cells a
// drone can actually reach from the pad.
func generate(p Params) (*estuary.Scenario, error) {
	rng := rand.New(rand.NewSource(p.Seed))

	sc := &estuary.Scenario{
		Name:   fmt.Sprintf("estuary_%dx%d_t%d_s%d", p.Width, p.Height, p.Targets, p.Seed),
		Width:  p.Width,
		Height: p.Height,
		Home:   estuary.Position{X: 0, Y: 0},
	}

	for y := 0; y < p.Height; y++ {
		for x := 0; x < p.Width; x++ {
			cell := estuary.Position{X: x, Y: y}
			if cell == sc.Home {
				continue
			}
			switch r := rng.Float64(); {
			case r < p.ObstacleDensity:
				sc.Obstacles = append(sc.Obstacles, cell)
			case r < p.ObstacleDensity+p.UrbanDensity:
				sc.UrbanZones = append(sc.UrbanZones, cell)
			}
		}
	}

	reachable := flood(sc)
	if len(reachable) < p.Targets {
		return nil, errors.Errorf("scenario %s: only %d reachable cells for %d survey sites, lower the obstacle density",
			sc.Name, len(reachable), p.Targets)
	}
	rng.Shuffle(len(reachable), func(i, j int) {
		reachable[i], reachable[j] = reachable[j], reachable[i]
	})
	sc.Targets = reachable[:p.Targets]

	sc.Capacity = p.Capacity
	if sc.Capacity <= 0 {
		far := 0
		for _, t := range sc.Targets {
			if d := sc.Home.Manhattan(t); d > far {
				far = d
			}
		}
		// Twice the farthest round trip leaves room for detours and
		// urban crossings.
		sc.Capacity = 4 * far
	}
	sc.MaxSteps = 4 * p.Width * p.Height

	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return sc, nil
}

// flood returns every passable cell reachable from the home pad, the pad
// itself excluded.
func flood(sc *estuary.Scenario) []estuary.Position {
	grid := sc.Grid()
	seen := map[estuary.Position]bool{sc.Home: true}
	queue := []estuary.Position{sc.Home}
	var out []estuary.Position
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, d := range [][2]int{{0, -1}, {1, 0}, {0, 1}, {-1, 0}} {
			next := estuary.Position{X: cur.X + d[0], Y: cur.Y + d[1]}
			if seen[next] || !grid.IsPassable(next) {
				continue
			}
			seen[next] = true
			out = append(out, next)
			queue = append(queue, next)
		}
	}
	return out
}

func main() {
	seed := flag.Int64("seed", 42, "Random seed for deterministic generation")
	width := flag.Int("width", 10, "Grid width")
	height := flag.Int("height", 10, "Grid height")
	targets := flag.Int("targets", 3, "Number of survey sites")
	obstacles := flag.Float64("obstacles", 0.08, "Obstacle density (0-1)")
	urban := flag.Float64("urban", 0.12, "Urban zone density (0-1)")
	capacity := flag.Int("capacity", 0, "Battery capacity. 0 sizes it from the farthest site")
	count := flag.Int("count", 1, "Scenarios to generate, seeds counting up from -seed")
	suite := flag.Bool("suite", false, "Generate the benchmark suite: 8x8 through 24x24 grids")
	outputDir := flag.String("output", "testdata", "Output directory")
	klog.InitFlags(nil)
	flag.Parse()

	must.M(os.MkdirAll(*outputDir, 0755))

	var runs []Params
	if *suite {
		for _, size := range []int{8, 12, 16, 20, 24} {
			runs = append(runs, Params{
				Seed:            *seed,
				Width:           size,
				Height:          size,
				Targets:         size / 4,
				ObstacleDensity: *obstacles,
				UrbanDensity:    *urban,
			})
		}
	} else {
		for i := 0; i < *count; i++ {
			runs = append(runs, Params{
				Seed:            *seed + int64(i),
				Width:           *width,
				Height:          *height,
				Targets:         *targets,
				ObstacleDensity: *obstacles,
				UrbanDensity:    *urban,
				Capacity:        *capacity,
			})
		}
	}

	for _, p := range runs {
		sc := must.M1(generate(p))
		path := filepath.Join(*outputDir, sc.Name+".json")
		must.M(os.WriteFile(path, must.M1(json.MarshalIndent(sc, "", "  ")), 0644))
		fmt.Printf("Generated: %s (%d sites, %d obstacles, %d urban cells, battery %d)\n",
			path, len(sc.Targets), len(sc.Obstacles), len(sc.UrbanZones), sc.Capacity)
	}
}
