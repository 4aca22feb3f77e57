package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coilledger/internal/core/id"
	"coilledger/internal/domain/catalogs/material"
	"coilledger/internal/domain/documents/production"
	"coilledger/internal/domain/documents/shipment"
	"coilledger/internal/domain/lots"
	"coilledger/internal/domain/store"
)

func testResolver() *material.Resolver {
	return material.NewResolver([]material.Entry{
		{Code: "1000", Description: "Bobina ZN 0.50", Thickness: decimal.NewFromFloat(0.5), Type: material.TypeGalvanized},
	})
}

func TestAggregate_GroupsMothersByCodeAndWidth(t *testing.T) {
	snap := store.Snapshot{
		Mothers: []lots.MotherLot{
			mother("1000", 1200, 5000, 3000, lots.StatusStock),
			mother("1000", 1200, 4000, 4000, lots.StatusStock),
			mother("1000", 1000, 2000, 2000, lots.StatusStock),
			mother("1000", 1000, 2000, 0, lots.StatusConsumed), // excluded
		},
	}

	rows := Aggregate(snap, testResolver())
	require.Len(t, rows, 2)

	// Deterministic order: code, then width.
	assert.Equal(t, Key{Code: "1000", Width: 1000}, rows[0].Key)
	assert.Equal(t, 2000.0, rows[0].Weight)
	assert.Equal(t, 1, rows[0].Count)

	assert.Equal(t, Key{Code: "1000", Width: 1200}, rows[1].Key)
	assert.Equal(t, 7000.0, rows[1].Weight)
	assert.Equal(t, 2, rows[1].Count)
	assert.Equal(t, "Bobina ZN 0.50", rows[1].Description)
}

func TestAggregate_CatalogFallbackToLotDescription(t *testing.T) {
	m := mother("7777", 1100, 1000, 1000, lots.StatusStock)
	m.Description = "recorded on intake"
	snap := store.Snapshot{Mothers: []lots.MotherLot{m}}

	rows := Aggregate(snap, testResolver())
	require.Len(t, rows, 1)
	assert.Equal(t, "recorded on intake", rows[0].Description)
}

func TestAggregate_ChildrenGroupByCode(t *testing.T) {
	snap := store.Snapshot{
		Children: []lots.ChildLot{
			{ID: id.New(), Code: "B2-150", Width: 150, Weight: 1300, InitialWeight: 1300, Status: lots.StatusStock},
			{ID: id.New(), Code: "B2-150", Width: 150, Weight: 1250, InitialWeight: 1250, Status: lots.StatusStock},
			{ID: id.New(), Code: "B2-150", Width: 150, Weight: 0, InitialWeight: 1300, Status: lots.StatusConsumed},
		},
	}

	rows := Aggregate(snap, testResolver())
	require.Len(t, rows, 1)
	assert.Equal(t, Key{Code: "B2-150", Width: 150}, rows[0].Key)
	assert.Equal(t, KindChild, rows[0].Kind)
	assert.Equal(t, 2550.0, rows[0].Weight)
	assert.Equal(t, 2, rows[0].Count)
}

func TestAggregate_ChildWidthDegradesWhenMixed(t *testing.T) {
	snap := store.Snapshot{
		Children: []lots.ChildLot{
			{ID: id.New(), Code: "B2-X", Width: 150, Weight: 100, Status: lots.StatusStock},
			{ID: id.New(), Code: "B2-X", Width: 200, Weight: 100, Status: lots.StatusStock},
		},
	}

	rows := Aggregate(snap, testResolver())
	require.Len(t, rows, 1)
	assert.Equal(t, 0.0, rows[0].Key.Width)
}

func TestAggregate_EmptySnapshot(t *testing.T) {
	assert.Empty(t, Aggregate(store.Snapshot{}, testResolver()))
}

func TestAggregate_TracksOldestEntry(t *testing.T) {
	day := func(n int) time.Time { return time.Date(2025, 1, n, 0, 0, 0, 0, time.UTC) }

	oldest := mother("1000", 1200, 5000, 5000, lots.StatusStock)
	oldest.EntryDate = day(3)
	newer := mother("1000", 1200, 4000, 4000, lots.StatusStock)
	newer.EntryDate = day(10)

	snap := store.Snapshot{Mothers: []lots.MotherLot{newer, oldest}}
	rows := Aggregate(snap, testResolver())
	require.Len(t, rows, 1)
	assert.Equal(t, day(3), rows[0].OldestEntry)
}

func TestAggregateFinished(t *testing.T) {
	day := func(n int) time.Time { return time.Date(2025, 2, n, 0, 0, 0, 0, time.UTC) }
	snap := store.Snapshot{
		Batches: []production.Batch{
			{ID: id.New(), ProductCode: "TELHA-25", Pieces: 100, Date: day(1)},
			{ID: id.New(), ProductCode: "TELHA-25", Pieces: 50, Date: day(2)},
			{ID: id.New(), ProductCode: "CALHA-10", Pieces: 30, Date: day(3)},
		},
		Shipments: []shipment.Record{
			{ID: id.New(), ProductCode: "TELHA-25", Quantity: 120, Date: day(5)},
			{ID: id.New(), ProductCode: "CALHA-10", Quantity: 30, Date: day(6)},
		},
	}

	rows := AggregateFinished(snap)
	require.Len(t, rows, 1) // CALHA-10 netted to zero and dropped
	assert.Equal(t, "TELHA-25", rows[0].Key.Code)
	assert.Equal(t, KindFinished, rows[0].Kind)
	assert.Equal(t, 30, rows[0].Count)
	assert.Equal(t, day(1), rows[0].OldestEntry)
}
