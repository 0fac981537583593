package search

import (
	"container/heap"
	"fmt"
)

// NoPathFoundError reports an exhausted search: every reachable state was
// expanded and none completed the mission.
type NoPathFoundError struct {
	Strategy string
	Expanded int
}

func (e *NoPathFoundError) Error() string {
	return fmt.Sprintf("%s: no route found after expanding %d states", e.Strategy, e.Expanded)
}

// Result is a finished search: the action sequence, its battery cost, and
// how much work the search did.
type Result struct {
	Actions   []Action
	Cost      int
	Expanded  int
	Generated int
}

// node is a frontier entry.
type node struct {
	state  State
	act    Action // action that produced this node; unset on the root
	g      int    // cost so far
	f      float64
	depth  int
	seq    uint64 // insertion order, breaks f ties first-in first-out
	parent *node
	index  int // heap index
}

// frontier implements heap.Interface ordered by f, then insertion order.
type frontier []*node

func (h frontier) Len() int { return len(h) }
func (h frontier) Less(i, j int) bool {
	if h[i].f != h[j].f {
		return h[i].f < h[j].f
	}
	return h[i].seq < h[j].seq
}
func (h frontier) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}
func (h *frontier) Push(x any) {
	n := x.(*node)
	n.index = len(*h)
	*h = append(*h, n)
}
func (h *frontier) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	old[n-1] = nil
	*h = old[0 : n-1]
	return x
}

// evalFunc ranks a frontier node from its path cost, heuristic estimate,
// and depth. Lower is expanded sooner.
type evalFunc func(g int, est float64, depth int) float64

// bestFirst runs graph search over p: pop the lowest-ranked frontier node,
// test it for the goal, expand its successors, repeat. States already
// popped are never re-expanded.
func bestFirst(p *Problem, h Heuristic, eval evalFunc, name string) (*Result, error) {
	start := p.Initial()
	open := &frontier{}
	heap.Init(open)
	heap.Push(open, &node{state: start, f: eval(0, h.Estimate(start), 0)})

	closed := make(map[State]bool)
	var seq uint64
	var expanded, generated int

	for open.Len() > 0 {
		n := heap.Pop(open).(*node)
		if closed[n.state] {
			continue
		}
		closed[n.state] = true

		if p.GoalTest(n.state) {
			return &Result{
				Actions:   unwind(n),
				Cost:      n.g,
				Expanded:  expanded,
				Generated: generated,
			}, nil
		}
		expanded++

		for _, a := range p.Actions(n.state) {
			child, err := p.Result(n.state, a)
			if err != nil {
				return nil, err
			}
			if closed[child] {
				continue
			}
			cost, err := p.StepCost(n.state, a)
			if err != nil {
				return nil, err
			}
			g := n.g + cost
			seq++
			generated++
			heap.Push(open, &node{
				state:  child,
				act:    a,
				g:      g,
				f:      eval(g, h.Estimate(child), n.depth+1),
				depth:  n.depth + 1,
				seq:    seq,
				parent: n,
			})
		}
	}

	return nil, &NoPathFoundError{Strategy: name, Expanded: expanded}
}

// unwind walks the parent chain back to the root and returns the actions in
// execution order.
func unwind(n *node) []Action {
	var acts []Action
	for ; n.parent != nil; n = n.parent {
		acts = append(acts, n.act)
	}
	for i, j := 0, len(acts)-1; i < j; i, j = i+1, j-1 {
		acts[i], acts[j] = acts[j], acts[i]
	}
	return acts
}
