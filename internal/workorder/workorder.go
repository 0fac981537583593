// Package workorder tracks ADEMA sampling requests. Orders come from an
// upstream source that is allowed to be flaky; a local snapshot keeps the
// mission going when it is.
package workorder

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/Slotov7/inteligencia-artificial-ufs/internal/estuary"
)

// Status is the lifecycle of a sampling request.
type Status int

const (
	Open       Status = iota // waiting for a drone visit
	InProgress               // a drone is en route
	Closed                   // sample delivered and assessed
)

func (s Status) String() string {
	return [...]string{"Open", "InProgress", "Closed"}[s]
}

// Order is one sampling request: where to sample and why.
type Order struct {
	ID          string
	Title       string
	Description string
	Status      Status
	Site        estuary.Position
	Ecotox      string // assessment attached when the order closes
}

// NotFoundError reports an order ID the store has never seen.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("work order %s not found", e.ID)
}

// Source serves sampling requests. UpdateStatus attaches note to the order
// when it is non-empty.
type Source interface {
	List(ctx context.Context) ([]Order, error)
	Outstanding(ctx context.Context) ([]Order, error)
	UpdateStatus(ctx context.Context, id string, status Status, note string) error
}

// Store is an in-memory order book. It doubles as the local snapshot behind
// FallbackSource and as the sole source for offline runs.
type Store struct {
	mu     sync.Mutex
	orders map[string]Order
}

// NewStore builds a store holding the given orders.
func NewStore(orders ...Order) *Store {
	s := &Store{orders: make(map[string]Order, len(orders))}
	s.Sync(orders)
	return s
}

// List returns every order sorted by ID.
func (s *Store) List(_ context.Context) ([]Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Order, 0, len(s.orders))
	for _, o := range s.orders {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Outstanding returns the orders still waiting on a sample, sorted by ID.
func (s *Store) Outstanding(ctx context.Context) ([]Order, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, o := range all {
		if o.Status != Closed {
			out = append(out, o)
		}
	}
	return out, nil
}

// UpdateStatus moves an order through its lifecycle.
func (s *Store) UpdateStatus(_ context.Context, id string, status Status, note string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return &NotFoundError{ID: id}
	}
	o.Status = status
	if note != "" {
		o.Ecotox = note
	}
	s.orders[id] = o
	return nil
}

// Sync upserts a batch of upstream orders into the snapshot.
func (s *Store) Sync(orders []Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range orders {
		s.orders[o.ID] = o
	}
}

// ForScenario synthesizes one open order per survey site, for scenarios
// that arrive without a standing order book.
func ForScenario(sc *estuary.Scenario) []Order {
	name := strings.ToUpper(sc.Name)
	if name == "" {
		name = "SURVEY"
	}
	orders := make([]Order, 0, len(sc.Targets))
	for i, site := range sc.Targets {
		orders = append(orders, Order{
			ID:     fmt.Sprintf("%s-%03d", name, i+1),
			Title:  fmt.Sprintf("Water sample at %s", site),
			Status: Open,
			Site:   site,
		})
	}
	return orders
}

// PoximOrders returns the standing ADEMA requests for the canonical Rio
// Poxim mission. Sites line up with estuary.Poxim's survey targets.
func PoximOrders() []Order {
	return []Order{
		{
			ID:          "ADEMA-2025-041",
			Title:       "Mercury screening at the Poxim mouth",
			Description: "Quarterly heavy-metal sweep where the river meets the estuary.",
			Status:      Open,
			Site:        estuary.Position{X: 7, Y: 2},
		},
		{
			ID:          "ADEMA-2025-047",
			Title:       "Dissolved oxygen profile off the mangrove edge",
			Description: "Follow-up on last month's low oxygen readings near the crab beds.",
			Status:      Open,
			Site:        estuary.Position{X: 3, Y: 8},
		},
		{
			ID:          "ADEMA-2025-052",
			Title:       "Runoff check downstream of the urban margin",
			Description: "Storm-drain discharge complaint from the riverside district.",
			Status:      Open,
			Site:        estuary.Position{X: 8, Y: 6},
		},
	}
}
