package workorder

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/Slotov7/inteligencia-artificial-ufs/internal/estuary"
)

// scriptedSource stands in for the ADEMA API: it fails on demand and counts
// how often it is reached.
type scriptedSource struct {
	orders []Order
	fail   bool
	calls  int
}

func (s *scriptedSource) List(context.Context) ([]Order, error) {
	s.calls++
	if s.fail {
		return nil, errors.New("adema api: 502 bad gateway")
	}
	return append([]Order(nil), s.orders...), nil
}

func (s *scriptedSource) Outstanding(context.Context) ([]Order, error) {
	s.calls++
	if s.fail {
		return nil, errors.New("adema api: 502 bad gateway")
	}
	var out []Order
	for _, o := range s.orders {
		if o.Status != Closed {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *scriptedSource) UpdateStatus(_ context.Context, id string, status Status, note string) error {
	s.calls++
	if s.fail {
		return errors.New("adema api: 502 bad gateway")
	}
	for i := range s.orders {
		if s.orders[i].ID == id {
			s.orders[i].Status = status
			if note != "" {
				s.orders[i].Ecotox = note
			}
			return nil
		}
	}
	return &NotFoundError{ID: id}
}

func TestStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	st := NewStore(PoximOrders()...)

	all, err := st.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "ADEMA-2025-041", all[0].ID, "List must sort by ID")
	require.Equal(t, Open, all[0].Status)

	require.NoError(t, st.UpdateStatus(ctx, "ADEMA-2025-041", InProgress, ""))
	require.NoError(t, st.UpdateStatus(ctx, "ADEMA-2025-041", Closed, "moderate risk of severe contamination"))

	outstanding, err := st.Outstanding(ctx)
	require.NoError(t, err)
	require.Len(t, outstanding, 2)
	for _, o := range outstanding {
		require.NotEqual(t, "ADEMA-2025-041", o.ID)
	}

	all, err = st.List(ctx)
	require.NoError(t, err)
	require.Equal(t, Closed, all[0].Status)
	require.Equal(t, "moderate risk of severe contamination", all[0].Ecotox)

	err = st.UpdateStatus(ctx, "ADEMA-1999-001", Closed, "")
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	require.Equal(t, "ADEMA-1999-001", notFound.ID)
}

func TestPoximOrdersMatchScenarioSites(t *testing.T) {
	sc := estuary.Poxim()
	orders := PoximOrders()
	require.Len(t, orders, len(sc.Targets))

	sites := make(map[estuary.Position]bool, len(orders))
	for _, o := range orders {
		require.Equal(t, Open, o.Status)
		sites[o.Site] = true
	}
	for _, tgt := range sc.Targets {
		require.True(t, sites[tgt], "no order covers survey site %s", tgt)
	}
}

func TestForScenarioCoversEverySite(t *testing.T) {
	sc := &estuary.Scenario{
		Name: "maroim", Width: 6, Height: 6,
		Home: estuary.Position{X: 0, Y: 0}, Capacity: 30,
		Targets: []estuary.Position{{X: 2, Y: 1}, {X: 5, Y: 4}},
	}
	orders := ForScenario(sc)
	require.Len(t, orders, 2)
	require.Equal(t, "MAROIM-001", orders[0].ID)
	require.Equal(t, sc.Targets[0], orders[0].Site)
	require.Equal(t, Open, orders[0].Status)
	require.Equal(t, "MAROIM-002", orders[1].ID)
	require.Equal(t, sc.Targets[1], orders[1].Site)
}

func TestFallbackServesSnapshotWhileUpstreamDown(t *testing.T) {
	ctx := context.Background()
	up := &scriptedSource{fail: true}
	src := NewFallbackSource(up, NewStore(PoximOrders()...))

	got, err := src.List(ctx)
	require.NoError(t, err, "snapshot must absorb the upstream failure")
	require.Len(t, got, 3)
	require.Equal(t, 1, up.calls)

	outstanding, err := src.Outstanding(ctx)
	require.NoError(t, err)
	require.Len(t, outstanding, 3)
}

func TestBreakerStopsHammeringUpstream(t *testing.T) {
	ctx := context.Background()
	up := &scriptedSource{fail: true}
	src := NewFallbackSource(up, NewStore(PoximOrders()...))

	for i := 0; i < 5; i++ {
		_, err := src.List(ctx)
		require.NoError(t, err)
	}
	require.Equal(t, 5, up.calls)

	// Five straight failures trip the breaker; further reads come straight
	// from the snapshot.
	for i := 0; i < 3; i++ {
		_, err := src.List(ctx)
		require.NoError(t, err)
	}
	require.Equal(t, 5, up.calls, "open breaker must not touch the upstream")
}

func TestHealthyUpstreamRefreshesSnapshot(t *testing.T) {
	ctx := context.Background()
	up := &scriptedSource{orders: PoximOrders()}
	up.orders[0].Status = Closed
	up.orders[0].Ecotox = "high risk of severe contamination"
	local := NewStore()
	src := NewFallbackSource(up, local)

	got, err := src.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)

	snap, err := local.List(ctx)
	require.NoError(t, err)
	require.Len(t, snap, 3, "successful reads must refresh the snapshot")
	require.Equal(t, Closed, snap[0].Status)
	require.Equal(t, "high risk of severe contamination", snap[0].Ecotox)
}

func TestUpdateStatusAlwaysLandsLocally(t *testing.T) {
	ctx := context.Background()

	down := &scriptedSource{fail: true}
	local := NewStore(PoximOrders()...)
	src := NewFallbackSource(down, local)
	require.NoError(t, src.UpdateStatus(ctx, "ADEMA-2025-047", InProgress, ""))
	snap, err := local.List(ctx)
	require.NoError(t, err)
	require.Equal(t, InProgress, snap[1].Status)

	up := &scriptedSource{orders: PoximOrders()}
	src = NewFallbackSource(up, NewStore(PoximOrders()...))
	require.NoError(t, src.UpdateStatus(ctx, "ADEMA-2025-047", Closed, "low risk"))
	require.Equal(t, Closed, up.orders[1].Status, "healthy upstream must see the update")
	require.Equal(t, "low risk", up.orders[1].Ecotox)
}

func TestStatusString(t *testing.T) {
	require.Equal(t, "Open", Open.String())
	require.Equal(t, "InProgress", InProgress.String())
	require.Equal(t, "Closed", Closed.String())
}
