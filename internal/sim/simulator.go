// Package sim flies survey missions end to end: it loads the outstanding
// work orders, puts a planning agent in a simulated estuary, executes the
// agent's actions, assesses every sample it brings in and closes the
// matching order with the assessment attached.
package sim

import (
	"context"
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/Slotov7/inteligencia-artificial-ufs/internal/agent"
	"github.com/Slotov7/inteligencia-artificial-ufs/internal/diagnosis"
	"github.com/Slotov7/inteligencia-artificial-ufs/internal/estuary"
	"github.com/Slotov7/inteligencia-artificial-ufs/internal/search"
	"github.com/Slotov7/inteligencia-artificial-ufs/internal/sensor"
	"github.com/Slotov7/inteligencia-artificial-ufs/internal/workorder"
)

// Config describes one mission run.
type Config struct {
	// World to fly. Nil means the canonical Rio Poxim survey.
	Scenario *estuary.Scenario

	// Where sampling requests come from. Nil means an in-memory book
	// holding the standing Poxim orders.
	Orders workorder.Source

	// Route planner. Nil means A* under neutral wind.
	Strategy search.Strategy

	// Goal-selection tuning. The zero value takes the default mission
	// tuning.
	Utility agent.Utility

	// Hard cap on executed actions. Zero takes the scenario's cap.
	MaxSteps int

	// Water profile per survey site. Sites without an entry read clean.
	Chemical map[estuary.Position]sensor.Reading

	// Tide observation fed to every sample assessment.
	Tide diagnosis.Tide
}

// DefaultConfig returns the canonical Poxim mission setup.
func DefaultConfig() Config {
	return Config{
		Scenario: estuary.Poxim(),
		Orders:   workorder.NewStore(workorder.PoximOrders()...),
		Strategy: search.NewAStar(search.NoWind()),
		Utility:  agent.DefaultUtility(),
		Tide:     diagnosis.TideUnknown,
	}
}

// Metrics collects what happened during a run.
type Metrics struct {
	RunID    uuid.UUID
	Strategy string

	// Timing
	StartTime    time.Time
	EndTime      time.Time
	PlanningTime time.Duration

	// Flight
	Steps       int
	Bumps       int
	BatteryLeft int

	// Planning
	PlansBuilt    int
	Replans       int
	NodesExpanded int

	// Mission outcome
	SamplesCollected int
	OrdersClosed     int
	DroppedSites     []estuary.Position
	Completed        bool
	Stranded         bool

	// Ecotoxicology
	Diagnoses []diagnosis.Report
}

// Simulator runs one mission over one environment.
type Simulator struct {
	mu sync.Mutex

	config Config

	// State
	env      *Environment
	drone    *agent.Agent
	chem     *sensor.FixedChemical
	network  *diagnosis.Network
	lastPlan uuid.UUID

	metrics Metrics
}

// NewSimulator creates a mission runner. Zero-value config fields fall back
// to the Poxim defaults.
func NewSimulator(config Config) *Simulator {
	if config.Scenario == nil {
		config.Scenario = estuary.Poxim()
	}
	if config.Orders == nil {
		config.Orders = workorder.NewStore(workorder.PoximOrders()...)
	}
	if config.Strategy == nil {
		config.Strategy = search.NewAStar(search.NoWind())
	}
	if config.MaxSteps <= 0 {
		config.MaxSteps = config.Scenario.MaxSteps
	}
	if config.MaxSteps <= 0 {
		config.MaxSteps = 500
	}
	return &Simulator{
		config:  config,
		chem:    sensor.NewFixedChemical(),
		network: diagnosis.EstuaryNetwork(),
		metrics: Metrics{RunID: uuid.New(), Strategy: config.Strategy.Name()},
	}
}

// Run executes the mission until the agent reports it done, the step cap is
// hit or the context ends. The returned metrics are also kept on the
// simulator; on a stranded mission they come back alongside the error.
func (s *Simulator) Run(ctx context.Context) (*Metrics, error) {
	s.metrics.StartTime = time.Now()

	if err := s.setup(ctx); err != nil {
		return nil, err
	}

	for s.env.Steps() < s.config.MaxSteps {
		select {
		case <-ctx.Done():
			s.finish()
			return &s.metrics, ctx.Err()
		default:
		}

		done, err := s.step(ctx)
		if err != nil {
			s.finish()
			return &s.metrics, err
		}
		if done {
			s.metrics.Completed = true
			break
		}
	}

	s.finish()
	klog.V(1).Infof("run %s: %d steps, %d samples, battery %d, completed=%t",
		s.metrics.RunID, s.metrics.Steps, s.metrics.SamplesCollected,
		s.metrics.BatteryLeft, s.metrics.Completed)
	return &s.metrics, nil
}

// setup loads the outstanding orders and builds the world and the agent.
func (s *Simulator) setup(ctx context.Context) error {
	orders, err := s.config.Orders.Outstanding(ctx)
	if err != nil {
		return errors.WithMessage(err, "loading work orders")
	}
	env, err := NewEnvironment(s.config.Scenario, orders)
	if err != nil {
		return err
	}
	s.env = env
	s.drone = agent.New(agent.Config{
		Grid:     env.Grid(),
		Home:     s.config.Scenario.Home,
		Capacity: s.config.Scenario.Capacity,
		Strategy: s.config.Strategy,
		Utility:  s.config.Utility,
	})
	klog.V(1).Infof("run %s: %d orders outstanding, strategy %s, battery %d",
		s.metrics.RunID, len(orders), s.config.Strategy.Name(), s.config.Scenario.Capacity)
	return nil
}

// step advances the mission by one percept-act-apply round.
func (s *Simulator) step(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pc := s.env.Percept()

	start := time.Now()
	act, ok, err := s.drone.Act(pc)
	s.metrics.PlanningTime += time.Since(start)
	if err != nil {
		s.metrics.Stranded = true
		return false, errors.WithMessagef(err, "stranded at %s with battery %d", pc.Pos, pc.Battery)
	}
	if !ok {
		return true, nil
	}

	if p := s.drone.CurrentPlan(); p != nil && p.ID != s.lastPlan {
		s.noteNewPlan(ctx, pc, p)
	}

	collected, err := s.env.Apply(act)
	if err != nil {
		klog.Warningf("world refused %s at %s: %v", act, pc.Pos, err)
		return false, nil
	}
	if collected != "" {
		s.assess(ctx, collected)
	}
	return false, nil
}

// noteNewPlan books a freshly committed plan and flags its order as in
// progress. A plan born away from the home pad counts as a replan.
func (s *Simulator) noteNewPlan(ctx context.Context, pc agent.Percept, p *agent.Plan) {
	s.lastPlan = p.ID
	s.metrics.PlansBuilt++
	s.metrics.NodesExpanded += p.Expanded
	if pc.Pos != s.config.Scenario.Home {
		s.metrics.Replans++
	}
	if p.Goal.Kind != agent.VisitTarget {
		return
	}
	id, ok := s.env.OrderAt(p.Goal.Site)
	if !ok {
		return
	}
	if err := s.config.Orders.UpdateStatus(ctx, id, workorder.InProgress, ""); err != nil {
		klog.Warningf("marking order %s in progress: %v", id, err)
	}
}

// assess runs the fresh sample through the chemical sensor and the
// contamination model, then closes its order with the assessment attached.
func (s *Simulator) assess(ctx context.Context, orderID string) {
	site := s.env.Position()
	reading, ok := s.config.Chemical[site]
	if !ok {
		reading = sensor.DefaultReading()
	}
	s.chem.Set(reading)
	s.metrics.SamplesCollected++

	note := ""
	report, err := s.network.Diagnose(s.chem.Reading(), s.config.Tide, s.env.InUrbanZone(site))
	if err != nil {
		klog.Errorf("assessing sample at %s: %v", site, err)
	} else {
		s.metrics.Diagnoses = append(s.metrics.Diagnoses, report)
		note = report.String()
	}

	if err := s.config.Orders.UpdateStatus(ctx, orderID, workorder.Closed, note); err != nil {
		klog.Warningf("closing order %s: %v", orderID, err)
		return
	}
	s.metrics.OrdersClosed++
	klog.V(1).Infof("order %s closed at %s: %s", orderID, site, note)
}

// finish stamps the end time and folds the world's counters into the
// metrics.
func (s *Simulator) finish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metrics.EndTime = time.Now()
	s.metrics.Steps = s.env.Steps()
	s.metrics.Bumps = s.env.Bumps()
	s.metrics.BatteryLeft = s.env.Battery()
	s.metrics.DroppedSites = s.drone.Dropped()
}

// Metrics returns the metrics collected so far.
func (s *Simulator) Metrics() Metrics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.metrics
}

// ExportMetrics writes the metrics to a JSON file.
func (s *Simulator) ExportMetrics(path string) error {
	metrics := s.Metrics()
	data, err := json.MarshalIndent(metrics, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Result is the final output of a mission run.
type Result struct {
	Metrics Metrics `json:"metrics"`
	Success bool    `json:"success"`
	Error   string  `json:"error,omitempty"`
}

// RunMission is a convenience wrapper: build a simulator, fly the mission,
// wrap up the outcome.
func RunMission(ctx context.Context, config Config) (*Result, error) {
	sim := NewSimulator(config)
	metrics, err := sim.Run(ctx)

	result := &Result{Success: err == nil}
	if err != nil {
		result.Error = err.Error()
	}
	if metrics != nil {
		result.Metrics = *metrics
	}
	return result, err
}
