package snapshot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coilledger/internal/core/id"
	"coilledger/internal/domain/documents/cut"
	"coilledger/internal/domain/documents/production"
	"coilledger/internal/domain/documents/shipment"
	"coilledger/internal/domain/lots"
	"coilledger/internal/domain/store"
)

func day(n int) time.Time { return time.Date(2025, 1, n, 0, 0, 0, 0, time.UTC) }

// lineHistory: coil received day 1, cut day 5, children consumed by a
// production run day 8, shipped day 9.
func lineHistory() store.Snapshot {
	consumed := day(5)
	childA := lots.ChildLot{
		ID: id.New(), Code: "B2-150", Width: 150,
		Weight: 0, InitialWeight: 1300,
		Status: lots.StatusConsumed, MotherCode: "1000", CreatedAt: day(5),
	}
	childB := lots.ChildLot{
		ID: id.New(), Code: "B2-150", Width: 150,
		Weight: 1300, InitialWeight: 1300,
		Status: lots.StatusStock, MotherCode: "1000", CreatedAt: day(5),
	}
	return store.Snapshot{
		Mothers: []lots.MotherLot{{
			ID: id.New(), Code: "1000", Width: 1200,
			OriginalWeight: 5000, RemainingWeight: 1000,
			Status: lots.StatusStock, EntryDate: day(1), NF: "777",
			ConsumedDate: nil,
		}, {
			ID: id.New(), Code: "2000", Width: 1000,
			OriginalWeight: 3000, RemainingWeight: 0,
			Status: lots.StatusConsumed, EntryDate: day(2),
			ConsumedDate: &consumed,
		}},
		Children: []lots.ChildLot{childA, childB},
		Cuts: []cut.Record{{
			ID: id.New(), MotherCode: "1000", InputWeight: 4000, Scrap: 100,
			OutputCount: 3, Date: day(5),
		}, {
			ID: id.New(), MotherCode: "2000", InputWeight: 3000, Date: day(5),
		}},
		Batches: []production.Batch{{
			ID: id.New(), ProductCode: "TELHA-25", TrackingID: "PROD-20250108-1-01",
			Pieces: 100, PackIndex: 1, ChildIDs: []string{childA.ID.String()}, Date: day(8),
		}},
		Shipments: []shipment.Record{{
			ID: id.New(), ProductCode: "TELHA-25", Quantity: 50, Destination: "Obra Sul", Date: day(9),
		}},
	}
}

func TestReconstruct_BeforeCutRestoresMotherWeight(t *testing.T) {
	snap := lineHistory()
	got := Reconstruct(snap, day(3))

	require.Len(t, got.Mothers, 2)

	// The partially consumed coil regains its pre-cut weight.
	m := got.Mothers[0]
	assert.Equal(t, lots.StatusStock, m.Status)
	assert.Equal(t, 5000.0, m.RemainingWeight)

	// The fully consumed coil flips back to stock with its weight restored.
	m2 := got.Mothers[1]
	assert.Equal(t, lots.StatusStock, m2.Status)
	assert.Equal(t, 3000.0, m2.RemainingWeight)
	assert.Nil(t, m2.ConsumedDate)

	// Children did not exist yet.
	assert.Empty(t, got.Children)
	assert.Empty(t, got.Cuts)
	assert.Empty(t, got.Batches)
	assert.Empty(t, got.Shipments)
}

func TestReconstruct_BetweenCutAndProduction(t *testing.T) {
	snap := lineHistory()
	got := Reconstruct(snap, day(6))

	// The consumed child is back in stock with its initial weight; the
	// batch consuming it happened after the cutoff.
	require.Len(t, got.Children, 2)
	for _, c := range got.Children {
		assert.Equal(t, lots.StatusStock, c.Status)
		assert.Equal(t, 1300.0, c.Weight)
	}

	assert.Len(t, got.Cuts, 2)
	assert.Empty(t, got.Batches)
	assert.Empty(t, got.Shipments)

	// The cut already happened: mother stock stays drawn down.
	assert.Equal(t, 1000.0, got.Mothers[0].RemainingWeight)
}

func TestReconstruct_AtNowIsIdentity(t *testing.T) {
	snap := lineHistory()
	now := time.Now()
	got := Reconstruct(snap, now)

	assert.Equal(t, snap.Mothers, got.Mothers)
	assert.Equal(t, snap.Children, got.Children)
	assert.Equal(t, snap.Cuts, got.Cuts)
	assert.Equal(t, snap.Batches, got.Batches)
	assert.Equal(t, snap.Shipments, got.Shipments)
}

func TestReconstruct_DoesNotMutateSource(t *testing.T) {
	snap := lineHistory()
	before := snap.Clone()

	_ = Reconstruct(snap, day(3))

	assert.Equal(t, before.Mothers, snap.Mothers)
	assert.Equal(t, before.Children, snap.Children)
}

func TestReconstruct_Monotonicity(t *testing.T) {
	snap := lineHistory()

	// A lot shown as consumed at t1 must be backed by a transaction at
	// or before t1. Walk several cutoffs and verify.
	for n := 1; n <= 10; n++ {
		cutoff := day(n)
		got := Reconstruct(snap, cutoff)
		for _, m := range got.Mothers {
			if m.Status != lots.StatusConsumed {
				continue
			}
			latest, ok := latestCutFor(got.Cuts, m.Code)
			assert.True(t, ok, "consumed mother %s at %s has no consuming cut", m.Code, cutoff)
			assert.False(t, latest.After(cutoff))
		}
		for _, c := range got.Children {
			if c.Status != lots.StatusConsumed {
				continue
			}
			latest, ok := latestBatchFor(got.Batches, c.ID.String())
			assert.True(t, ok, "consumed child %s at %s has no consuming batch", c.ID, cutoff)
			assert.False(t, latest.After(cutoff))
		}
	}
}

func TestReconstruct_DropsLotsCreatedAfterCutoff(t *testing.T) {
	snap := lineHistory()
	late := lots.MotherLot{
		ID: id.New(), Code: "9000", Width: 1100,
		OriginalWeight: 2000, RemainingWeight: 2000,
		Status: lots.StatusStock, EntryDate: day(20),
	}
	snap.Mothers = append(snap.Mothers, late)

	got := Reconstruct(snap, day(10))
	for _, m := range got.Mothers {
		assert.NotEqual(t, "9000", m.Code)
	}
}

func TestReconstruct_SharedCodeSkipsWeightAddBack(t *testing.T) {
	// Two coils share a code: cut attribution is ambiguous, so weights
	// are not added back; only the consumed-status override applies.
	snap := store.Snapshot{
		Mothers: []lots.MotherLot{{
			ID: id.New(), Code: "5000", Width: 1200,
			OriginalWeight: 4000, RemainingWeight: 1500,
			Status: lots.StatusStock, EntryDate: day(1),
		}, {
			ID: id.New(), Code: "5000", Width: 1200,
			OriginalWeight: 4000, RemainingWeight: 4000,
			Status: lots.StatusStock, EntryDate: day(1),
		}},
		Cuts: []cut.Record{{
			ID: id.New(), MotherCode: "5000", InputWeight: 2500, Date: day(5),
		}},
	}

	got := Reconstruct(snap, day(3))
	assert.Equal(t, 1500.0, got.Mothers[0].RemainingWeight)
	assert.Equal(t, 4000.0, got.Mothers[1].RemainingWeight)
}
