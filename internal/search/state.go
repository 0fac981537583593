package search

import (
	"math/bits"

	"github.com/Slotov7/inteligencia-artificial-ufs/internal/estuary"
)

// Action is one thing the drone can do in a single step.
type Action int

const (
	Collect Action = iota // Sample the survey site under the drone
	North                 // Move one cell up (y-1)
	East                  // Move one cell right (x+1)
	South                 // Move one cell down (y+1)
	West                  // Move one cell left (x-1)
)

func (a Action) String() string {
	return [...]string{"Collect", "North", "East", "South", "West"}[a]
}

// moveOrder is the expansion order for movement actions. Collect, when
// applicable, always comes first.
var moveOrder = [...]Action{North, East, South, West}

// IsMove reports whether the action changes the drone's position.
func (a Action) IsMove() bool {
	return a != Collect
}

// Delta returns the position change of a movement action. Collect returns
// (0, 0).
func (a Action) Delta() (dx, dy int) {
	switch a {
	case North:
		return 0, -1
	case East:
		return 1, 0
	case South:
		return 0, 1
	case West:
		return -1, 0
	default:
		return 0, 0
	}
}

// TargetSet is the set of survey sites still pending, packed as a bitmask
// over the problem's site index table. The packing keeps State comparable so
// it can key visited-set and memo maps.
type TargetSet uint64

// FullSet returns the set containing sites 0..n-1.
func FullSet(n int) TargetSet {
	if n >= 64 {
		return ^TargetSet(0)
	}
	return TargetSet(1)<<n - 1
}

// Has reports whether site i is pending.
func (t TargetSet) Has(i int) bool {
	return t&(1<<i) != 0
}

// With returns the set with site i added.
func (t TargetSet) With(i int) TargetSet {
	return t | 1<<i
}

// Without returns the set with site i removed.
func (t TargetSet) Without(i int) TargetSet {
	return t &^ (1 << i)
}

// Count returns the number of pending sites.
func (t TargetSet) Count() int {
	return bits.OnesCount64(uint64(t))
}

// Empty reports whether no sites are pending.
func (t TargetSet) Empty() bool {
	return t == 0
}

// State is a search node's world snapshot: where the drone is, how much
// battery remains, and which survey sites it still has to visit. States are
// comparable values.
type State struct {
	Pos      estuary.Position
	Resource int
	Pending  TargetSet
}
