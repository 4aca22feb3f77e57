package kardex

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coilledger/internal/core/id"
	"coilledger/internal/domain/catalogs/material"
	"coilledger/internal/domain/documents/cut"
	"coilledger/internal/domain/ledger"
	"coilledger/internal/domain/lots"
	"coilledger/internal/domain/store"
)

func day(n int) time.Time { return time.Date(2025, 1, n, 0, 0, 0, 0, time.UTC) }

func testResolver() *material.Resolver {
	return material.NewResolver([]material.Entry{
		{Code: "1000", Description: "Bobina ZN 0.50", Thickness: decimal.NewFromFloat(0.5), Type: material.TypeGalvanized},
	})
}

// cutScenario is the canonical line flow: one coil received, one cut.
func cutScenario() store.Snapshot {
	m := lots.MotherLot{
		ID:              id.New(),
		Code:            "1000",
		Width:           1200,
		OriginalWeight:  5000,
		RemainingWeight: 1000,
		Status:          lots.StatusStock,
		EntryDate:       day(1),
		NF:              "12345",
	}
	return store.Snapshot{
		Mothers: []lots.MotherLot{m},
		Cuts: []cut.Record{{
			ID:          id.New(),
			MotherCode:  "1000",
			InputWeight: 4000,
			Scrap:       100,
			OutputCount: 3,
			Date:        day(5),
		}},
	}
}

func TestBuild_BalancesAndMovements(t *testing.T) {
	snap := cutScenario()
	rows := ledger.Aggregate(snap, testResolver())
	report := Build(snap, rows, testResolver(), day(1), day(6))

	require.Len(t, report.Rows, 1)
	row := report.Rows[0]

	assert.Equal(t, ledger.Key{Code: "1000", Width: 1200}, row.Key)
	assert.Equal(t, 5000.0, row.PeriodIn)
	assert.Equal(t, 4000.0, row.PeriodOut)
	assert.Equal(t, 1000.0, row.FinalBalance)
	assert.Equal(t, 0.0, row.InitialBalance)
	assert.Equal(t, "Bobina ZN 0.50", row.Description)

	require.Len(t, row.Movements, 2)
	assert.Equal(t, MovementIn, row.Movements[0].Kind)
	assert.Equal(t, 5000.0, row.Movements[0].Balance)
	assert.Contains(t, row.Movements[0].Detail, "NF 12345")
	assert.Equal(t, MovementOut, row.Movements[1].Kind)
	assert.Equal(t, 1000.0, row.Movements[1].Balance)
}

func TestBuild_ReconciliationIdentity(t *testing.T) {
	snap := cutScenario()

	// Add noise: a second material with movements partly outside the
	// window and an ambiguous legacy cut.
	other := lots.MotherLot{
		ID: id.New(), Code: "2000", Width: 1000,
		OriginalWeight: 7000, RemainingWeight: 6500,
		Status: lots.StatusStock, EntryDate: day(2),
	}
	ghost := lots.MotherLot{
		ID: id.New(), Code: "2000", Width: 1250,
		OriginalWeight: 3000, RemainingWeight: 3000,
		Status: lots.StatusStock, EntryDate: day(20),
	}
	snap.Mothers = append(snap.Mothers, other, ghost)
	snap.Cuts = append(snap.Cuts, cut.Record{
		ID: id.New(), MotherCode: "2000", InputWeight: 500, Date: day(4),
	})

	rows := ledger.Aggregate(snap, testResolver())
	report := Build(snap, rows, testResolver(), day(1), day(10))

	require.NotEmpty(t, report.Rows)
	for _, row := range report.Rows {
		got := row.InitialBalance + row.PeriodIn - row.PeriodOut
		assert.InDelta(t, row.FinalBalance, got, 1e-6, "identity broken for %s", row.Key)

		if len(row.Movements) > 0 {
			last := row.Movements[len(row.Movements)-1].Balance
			assert.InDelta(t, row.FinalBalance, last, 1e-6, "running balance drifted for %s", row.Key)
		}
	}
}

func TestBuild_AmbiguousCutReported(t *testing.T) {
	snap := store.Snapshot{
		Mothers: []lots.MotherLot{
			{ID: id.New(), Code: "3000", Width: 1000, OriginalWeight: 2000, RemainingWeight: 2000, Status: lots.StatusStock, EntryDate: day(1)},
			{ID: id.New(), Code: "3000", Width: 1200, OriginalWeight: 2000, RemainingWeight: 2000, Status: lots.StatusStock, EntryDate: day(1)},
		},
		Cuts: []cut.Record{{
			ID: id.New(), MotherCode: "3000", InputWeight: 700, Date: day(3),
		}},
	}
	rows := ledger.Aggregate(snap, testResolver())
	report := Build(snap, rows, testResolver(), day(1), day(10))

	require.Len(t, report.Diagnostics, 1)
	assert.Equal(t, "3000", report.Diagnostics[0].MotherCode)

	// The ambiguous cut still reconciles, under width zero.
	var zeroRow *Row
	for i := range report.Rows {
		if report.Rows[i].Key == (ledger.Key{Code: "3000", Width: 0}) {
			zeroRow = &report.Rows[i]
		}
	}
	require.NotNil(t, zeroRow)
	assert.Equal(t, 700.0, zeroRow.PeriodOut)
	assert.InDelta(t, zeroRow.FinalBalance, zeroRow.InitialBalance+zeroRow.PeriodIn-zeroRow.PeriodOut, 1e-6)
}

func TestBuild_InvalidDatesExcluded(t *testing.T) {
	snap := cutScenario()
	snap.Cuts = append(snap.Cuts, cut.Record{
		ID: id.New(), MotherCode: "1000", InputWeight: 999, // zero Date
	})

	rows := ledger.Aggregate(snap, testResolver())
	report := Build(snap, rows, testResolver(), day(1), day(6))

	require.Len(t, report.Rows, 1)
	assert.Equal(t, 4000.0, report.Rows[0].PeriodOut)
}

func TestBuild_MovementsOutsideWindowShiftOpening(t *testing.T) {
	snap := cutScenario()

	// Window starts after the intake: only the cut is inside, so the
	// opening balance absorbs the intake.
	rows := ledger.Aggregate(snap, testResolver())
	report := Build(snap, rows, testResolver(), day(4), day(6))

	require.Len(t, report.Rows, 1)
	row := report.Rows[0]
	assert.Equal(t, 0.0, row.PeriodIn)
	assert.Equal(t, 4000.0, row.PeriodOut)
	assert.Equal(t, 1000.0, row.FinalBalance)
	assert.Equal(t, 5000.0, row.InitialBalance)
	assert.False(t, math.Signbit(row.InitialBalance))
}
