package workorder

import (
	"context"
	"time"

	"github.com/sony/gobreaker"
	"k8s.io/klog/v2"
)

var (
	_ Source = (*Store)(nil)
	_ Source = (*FallbackSource)(nil)
)

// FallbackSource serves orders from an upstream source while it behaves and
// from the local snapshot while it does not. A circuit breaker stops
// hammering an upstream that keeps failing; status updates always land
// locally so the mission can progress offline.
type FallbackSource struct {
	primary Source
	local   *Store
	breaker *gobreaker.CircuitBreaker
}

// NewFallbackSource wraps primary with snapshot fallback into local.
func NewFallbackSource(primary Source, local *Store) *FallbackSource {
	return &FallbackSource{
		primary: primary,
		local:   local,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "workorder-source",
			MaxRequests: 1,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(c gobreaker.Counts) bool {
				return c.ConsecutiveFailures >= 5
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				klog.Warningf("%s breaker: %s -> %s", name, from, to)
			},
		}),
	}
}

// List returns the upstream order book, falling back to the snapshot.
func (f *FallbackSource) List(ctx context.Context) ([]Order, error) {
	out, err := f.breaker.Execute(func() (interface{}, error) {
		return f.primary.List(ctx)
	})
	if err != nil {
		klog.Warningf("work-order source unavailable, serving snapshot: %v", err)
		return f.local.List(ctx)
	}
	orders := out.([]Order)
	f.local.Sync(orders)
	return orders, nil
}

// Outstanding returns the orders still waiting on a sample, falling back to
// the snapshot.
func (f *FallbackSource) Outstanding(ctx context.Context) ([]Order, error) {
	out, err := f.breaker.Execute(func() (interface{}, error) {
		return f.primary.Outstanding(ctx)
	})
	if err != nil {
		klog.Warningf("work-order source unavailable, serving snapshot: %v", err)
		return f.local.Outstanding(ctx)
	}
	orders := out.([]Order)
	f.local.Sync(orders)
	return orders, nil
}

// UpdateStatus applies the change locally first, then best-effort upstream.
func (f *FallbackSource) UpdateStatus(ctx context.Context, id string, status Status, note string) error {
	if err := f.local.UpdateStatus(ctx, id, status, note); err != nil {
		return err
	}
	if _, err := f.breaker.Execute(func() (interface{}, error) {
		return nil, f.primary.UpdateStatus(ctx, id, status, note)
	}); err != nil {
		klog.Warningf("status update for %s not delivered upstream: %v", id, err)
	}
	return nil
}
