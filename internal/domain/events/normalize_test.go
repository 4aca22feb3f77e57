package events

import (
	"fmt"
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

func day(n int) time.Time {
	return time.Date(2025, 1, n, 8, 0, 0, 0, time.UTC)
}

func TestLotBase(t *testing.T) {
	assert.Equal(t, "PROD-20250101-7", lotBase("PROD-20250101-7-3"))
	assert.Equal(t, "LOT", lotBase("LOT-1"))
	assert.Equal(t, "PLAIN", lotBase("PLAIN"))
}

func TestNormalize_GroupsProductionPacks(t *testing.T) {
	pieces := []int{100, 100, 100, 100, 86}
	stream := make([]Event, 0, len(pieces))
	for i, p := range pieces {
		stream = append(stream, Event{
			ID:         id.NewString(),
			Type:       TypeProduction,
			Timestamp:  day(10).Add(time.Duration(i) * time.Minute),
			Code:       "TELHA-25",
			Pieces:     p,
			TrackingID: fmt.Sprintf("PROD-20250101-7-%d", i+1),
			PackIndex:  i + 1,
			TargetIDs:  []string{fmt.Sprintf("child-%d", i+1)},
		})
	}

	got := Normalize(PersistedSource{Stream: stream}, store.Snapshot{}, 0)

	require.Len(t, got, 1)
	ev := got[0]
	assert.Equal(t, TypeProduction, ev.Type)
	assert.Equal(t, 486, ev.Pieces)
	assert.Equal(t, 5, ev.Packs)
	assert.Equal(t, "PROD-20250101-7", ev.TrackingID)
	assert.Len(t, ev.TargetIDs, 5)
	// The merged event carries the latest pack's timestamp.
	assert.Equal(t, day(10).Add(4*time.Minute), ev.Timestamp)
}

func TestNormalize_SeparateRunsStaySeparate(t *testing.T) {
	stream := []Event{
		{ID: id.NewString(), Type: TypeProduction, Timestamp: day(10), TrackingID: "PROD-A-1", Pieces: 10},
		{ID: id.NewString(), Type: TypeProduction, Timestamp: day(11), TrackingID: "PROD-B-1", Pieces: 20},
	}
	got := Normalize(PersistedSource{Stream: stream}, store.Snapshot{}, 0)
	assert.Len(t, got, 2)
}

func TestNormalize_Dedup(t *testing.T) {
	ev := Event{ID: "E-1", Type: TypeShipment, Timestamp: day(3), Code: "TELHA-25", Pieces: 40}
	// Unpersisted events fall back to the tracking-based identity.
	raw := Event{Type: TypeCut, Timestamp: day(4), TrackingID: "CUT-9", Pieces: 0, Code: "1000"}

	got := Normalize(PersistedSource{Stream: []Event{ev, ev, raw, raw}}, store.Snapshot{}, 0)
	assert.Len(t, got, 2)
}

func TestNormalize_DedupRunsBeforeGrouping(t *testing.T) {
	pack := Event{
		ID:         "E-77",
		Type:       TypeProduction,
		Timestamp:  day(6),
		Code:       "TELHA-25",
		Pieces:     100,
		TrackingID: "PROD-20250106-2-1",
		PackIndex:  1,
		TargetIDs:  []string{"child-1"},
	}

	// A replayed pack must vanish before the lot-base merge would fold
	// it into the group and double the count.
	got := Normalize(PersistedSource{Stream: []Event{pack, pack}}, store.Snapshot{}, 0)

	require.Len(t, got, 1)
	assert.Equal(t, 100, got[0].Pieces)
	assert.Equal(t, 1, got[0].Packs)
	assert.Equal(t, "PROD-20250106-2", got[0].TrackingID)
}

func TestNormalize_DedupUnpersistedPackByTrackingKey(t *testing.T) {
	pack := Event{
		Type:       TypeProduction,
		Timestamp:  day(7),
		Pieces:     50,
		TrackingID: "PROD-20250107-1-1",
		PackIndex:  1,
	}
	other := pack
	other.PackIndex = 2
	other.TrackingID = "PROD-20250107-1-2"

	got := Normalize(PersistedSource{Stream: []Event{pack, pack, other}}, store.Snapshot{}, 0)

	require.Len(t, got, 1)
	assert.Equal(t, 100, got[0].Pieces)
	assert.Equal(t, 2, got[0].Packs)
}

func TestNormalize_SortsNewestFirstAndCaps(t *testing.T) {
	stream := make([]Event, 0, 10)
	for i := 1; i <= 10; i++ {
		stream = append(stream, Event{
			ID:        id.NewString(),
			Type:      TypeShipment,
			Timestamp: day(i),
			Pieces:    i,
		})
	}

	got := Normalize(PersistedSource{Stream: stream}, store.Snapshot{}, 3)

	require.Len(t, got, 3)
	assert.Equal(t, day(10), got[0].Timestamp)
	assert.Equal(t, day(9), got[1].Timestamp)
	assert.Equal(t, day(8), got[2].Timestamp)
}

func TestNormalize_EnrichesProductionWeightFromTargets(t *testing.T) {
	c1 := lots.ChildLot{ID: id.New(), Code: "B2-1000", Weight: 1250, Status: lots.StatusConsumed}
	c2 := lots.ChildLot{ID: id.New(), Code: "B2-1000", Weight: 0, InitialWeight: 1300, Status: lots.StatusConsumed}
	snap := store.Snapshot{Children: []lots.ChildLot{c1, c2}}

	stream := []Event{{
		ID:         id.NewString(),
		Type:       TypeProduction,
		Timestamp:  day(5),
		TrackingID: "PROD-X-1",
		Pieces:     100,
		TargetIDs:  []string{c1.ID.String(), c2.ID.String()},
	}}

	got := Normalize(PersistedSource{Stream: stream}, snap, 0)

	require.Len(t, got, 1)
	assert.Equal(t, 2550.0, got[0].Weight)
}

func TestFetchLimit(t *testing.T) {
	assert.Equal(t, 24, FetchLimit(3))
	assert.Equal(t, DefaultFeedLimit*packFetchMargin, FetchLimit(0))
	assert.Equal(t, DefaultFeedLimit*packFetchMargin, FetchLimit(-5))
}

func TestNormalize_CapAppliesAfterGrouping(t *testing.T) {
	// Five packs of one run plus two shipments. With the cap at 3 the
	// run must appear once with all five packs counted, not sliced at
	// the cap boundary.
	stream := make([]Event, 0, 7)
	for i := 1; i <= 5; i++ {
		stream = append(stream, Event{
			ID:         id.NewString(),
			Type:       TypeProduction,
			Timestamp:  day(20).Add(time.Duration(i) * time.Minute),
			Pieces:     100,
			TrackingID: fmt.Sprintf("PROD-20250120-1-%d", i),
			PackIndex:  i,
		})
	}
	stream = append(stream,
		Event{ID: id.NewString(), Type: TypeShipment, Timestamp: day(21), Pieces: 40},
		Event{ID: id.NewString(), Type: TypeShipment, Timestamp: day(22), Pieces: 60},
	)

	got := Normalize(PersistedSource{Stream: stream}, store.Snapshot{}, 3)

	require.Len(t, got, 3)
	var run *Event
	for i := range got {
		if got[i].Type == TypeProduction {
			run = &got[i]
		}
	}
	require.NotNil(t, run)
	assert.Equal(t, 500, run.Pieces)
	assert.Equal(t, 5, run.Packs)
}

func TestSynthesizedSource(t *testing.T) {
	mother := lots.MotherLot{ID: id.New(), Code: "1000", Width: 1200, Status: lots.StatusConsumed}
	child := lots.ChildLot{ID: id.New(), Code: "B2-1000", MotherCode: "1000", Weight: 900, Status: lots.StatusStock}
	cutRec := cut.Record{ID: id.New(), MotherCode: "1000", Width: 1200, InputWeight: 5000, Date: day(2)}
	batch := production.Batch{
		ID: id.New(), ProductCode: "TELHA-25", TrackingID: "PROD-20250101-7-1",
		Pieces: 100, PackIndex: 1, ChildIDs: []string{child.ID.String()}, Date: day(3),
	}
	ship := shipment.Record{ID: id.New(), ProductCode: "TELHA-25", Quantity: 40, Destination: "Obra Sul", Date: day(4)}

	snap := store.Snapshot{
		Mothers:   []lots.MotherLot{mother},
		Children:  []lots.ChildLot{child},
		Cuts:      []cut.Record{cutRec},
		Batches:   []production.Batch{batch},
		Shipments: []shipment.Record{ship},
	}

	got := Normalize(SynthesizedSource{Snap: snap}, snap, 0)

	require.Len(t, got, 3)
	// Newest first: shipment, production, cut.
	assert.Equal(t, TypeShipment, got[0].Type)
	assert.Equal(t, 40, got[0].Pieces)
	assert.Equal(t, "Obra Sul", got[0].Details)

	assert.Equal(t, TypeProduction, got[1].Type)
	assert.Equal(t, "PROD-20250101-7", got[1].TrackingID)
	assert.Equal(t, 900.0, got[1].Weight)

	assert.Equal(t, TypeCut, got[2].Type)
	assert.Equal(t, "1000", got[2].Code)
	assert.Equal(t, 5000.0, got[2].Weight)
	assert.Equal(t, []string{child.ID.String()}, got[2].TargetIDs)
}
