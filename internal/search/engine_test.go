package search

import (
	"reflect"
	"testing"

	"github.com/pkg/errors"

	"github.com/Slotov7/inteligencia-artificial-ufs/internal/estuary"
)

func TestAStarOutAndBack(t *testing.T) {
	g := testGrid(4, 4, nil, nil)
	p := mustProblem(t, g, at(0, 0), []estuary.Position{at(2, 0)}, 10)

	res, err := NewAStar(NoWind()).Search(p)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	want := []Action{East, East, Collect, West, West}
	if !reflect.DeepEqual(res.Actions, want) {
		t.Errorf("Actions = %v, want %v", res.Actions, want)
	}
	if res.Cost != 4 {
		t.Errorf("Cost = %d, want 4", res.Cost)
	}
	if res.Expanded <= 0 || res.Generated < res.Expanded {
		t.Errorf("counters look wrong: expanded %d, generated %d", res.Expanded, res.Generated)
	}
}

func TestCollectRightAtHome(t *testing.T) {
	g := testGrid(3, 3, nil, nil)
	p := mustProblem(t, g, at(1, 1), []estuary.Position{at(1, 1)}, 5)

	for _, s := range []Strategy{NewAStar(NoWind()), NewGreedy(AtlanticEasterly()), NewBreadthFirst()} {
		res, err := s.Search(p)
		if err != nil {
			t.Fatalf("%s: %v", s.Name(), err)
		}
		if !reflect.DeepEqual(res.Actions, []Action{Collect}) || res.Cost != 0 {
			t.Errorf("%s: plan = %v cost %d, want [Collect] cost 0", s.Name(), res.Actions, res.Cost)
		}
	}
}

func TestSearchIsDeterministic(t *testing.T) {
	g := testGrid(10, 10,
		[]estuary.Position{at(1, 1), at(2, 1), at(1, 2), at(2, 2)},
		[]estuary.Position{at(5, 4)})
	p := mustProblem(t, g, at(0, 0), []estuary.Position{at(7, 2), at(3, 8)}, 60)

	for _, s := range []Strategy{NewAStar(NoWind()), NewGreedy(AtlanticEasterly()), NewBreadthFirst()} {
		first, err := s.Search(p)
		if err != nil {
			t.Fatalf("%s first run: %v", s.Name(), err)
		}
		second, err := s.Search(p)
		if err != nil {
			t.Fatalf("%s second run: %v", s.Name(), err)
		}
		if !reflect.DeepEqual(first, second) {
			t.Errorf("%s: runs disagree:\n  %+v\n  %+v", s.Name(), first, second)
		}
	}
}

func TestStrategiesOnUrbanDetourMission(t *testing.T) {
	// One site at (7,2) behind an urban patch. The cheapest route slips
	// along the top row and back the same way for 18 battery over 19
	// actions.
	g := testGrid(10, 10,
		[]estuary.Position{at(1, 1), at(2, 1), at(1, 2), at(2, 2)}, nil)
	p := mustProblem(t, g, at(0, 0), []estuary.Position{at(7, 2)}, 60)

	astar, err := NewAStar(NoWind()).Search(p)
	if err != nil {
		t.Fatalf("A*: %v", err)
	}
	greedy, err := NewGreedy(AtlanticEasterly()).Search(p)
	if err != nil {
		t.Fatalf("Greedy: %v", err)
	}
	bfs, err := NewBreadthFirst().Search(p)
	if err != nil {
		t.Fatalf("BFS: %v", err)
	}

	if astar.Cost != 18 {
		t.Errorf("A* cost = %d, want 18", astar.Cost)
	}
	if len(astar.Actions) != 19 {
		t.Errorf("A* plan length = %d, want 19", len(astar.Actions))
	}
	if bfs.Cost < astar.Cost {
		t.Errorf("BFS cost %d beats A* cost %d", bfs.Cost, astar.Cost)
	}
	if greedy.Cost < astar.Cost {
		t.Errorf("Greedy cost %d beats A* cost %d", greedy.Cost, astar.Cost)
	}
	if len(bfs.Actions) > len(astar.Actions) {
		t.Errorf("BFS plan length %d exceeds A* plan length %d", len(bfs.Actions), len(astar.Actions))
	}
}

func TestNoRouteToEnclosedSite(t *testing.T) {
	g := testGrid(5, 5, nil,
		[]estuary.Position{at(2, 1), at(1, 2), at(3, 2), at(2, 3)})
	p := mustProblem(t, g, at(0, 0), []estuary.Position{at(2, 2)}, 50)

	for _, s := range []Strategy{NewAStar(NoWind()), NewGreedy(AtlanticEasterly()), NewBreadthFirst()} {
		res, err := s.Search(p)
		if res != nil {
			t.Fatalf("%s: found a plan into an enclosed site: %+v", s.Name(), res)
		}
		var noPath *NoPathFoundError
		if !errors.As(err, &noPath) {
			t.Fatalf("%s: err = %v, want NoPathFoundError", s.Name(), err)
		}
		if noPath.Strategy != s.Name() || noPath.Expanded <= 0 {
			t.Errorf("%s: NoPathFoundError = %+v", s.Name(), noPath)
		}
	}
}

func TestBatteryFloorBlocksTightRoundTrip(t *testing.T) {
	// The round trip to (5,0) costs 10, and landing with an empty battery
	// does not count as coming back. 11 charge succeeds, 10 does not.
	g := testGrid(6, 1, nil, nil)
	site := []estuary.Position{at(5, 0)}

	short := mustProblem(t, g, at(0, 0), site, 10)
	_, err := NewAStar(NoWind()).Search(short)
	var noPath *NoPathFoundError
	if !errors.As(err, &noPath) {
		t.Fatalf("10 battery: err = %v, want NoPathFoundError", err)
	}

	exact := mustProblem(t, g, at(0, 0), site, 11)
	res, err := NewAStar(NoWind()).Search(exact)
	if err != nil {
		t.Fatalf("11 battery: %v", err)
	}
	if res.Cost != 10 || len(res.Actions) != 11 {
		t.Errorf("11 battery: cost %d over %d actions, want 10 over 11", res.Cost, len(res.Actions))
	}

	// One unit of charge cannot even leave the pad.
	drained := mustProblem(t, g, at(0, 0), site, 1)
	_, err = NewAStar(NoWind()).Search(drained)
	if !errors.As(err, &noPath) {
		t.Errorf("1 battery: err = %v, want NoPathFoundError", err)
	}
}

func TestSearchFromMidFlightStart(t *testing.T) {
	// Replanning away from the pad: the route still has to end at home.
	g := testGrid(6, 1, nil, nil)
	p, err := NewProblem(g, at(0, 0), at(3, 0), []estuary.Position{at(5, 0)}, 9)
	if err != nil {
		t.Fatalf("NewProblem: %v", err)
	}

	res, err := NewAStar(NoWind()).Search(p)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	want := []Action{East, East, Collect, West, West, West, West, West}
	if !reflect.DeepEqual(res.Actions, want) {
		t.Errorf("Actions = %v, want %v", res.Actions, want)
	}
	if res.Cost != 7 {
		t.Errorf("Cost = %d, want 7", res.Cost)
	}
}

func TestByName(t *testing.T) {
	tests := []struct {
		arg  string
		want string
	}{
		{"astar", "A*"},
		{"a*", "A*"},
		{"Greedy", "Greedy"},
		{"BFS", "BFS"},
		{"breadth-first", "BFS"},
	}
	for _, tt := range tests {
		s, err := ByName(tt.arg)
		if err != nil {
			t.Fatalf("ByName(%q): %v", tt.arg, err)
		}
		if s.Name() != tt.want {
			t.Errorf("ByName(%q).Name() = %s, want %s", tt.arg, s.Name(), tt.want)
		}
	}
	if _, err := ByName("dijkstra"); err == nil {
		t.Errorf("ByName(dijkstra) = nil error, want error")
	}
}
