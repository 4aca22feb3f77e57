package commands

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coilledger/internal/core/apperror"
	"coilledger/internal/core/id"
	"coilledger/internal/domain/documents/production"
	"coilledger/internal/domain/lots"
	"coilledger/internal/domain/store"
)

var cutDay = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func motherSnap(remaining float64) store.Snapshot {
	return store.Snapshot{
		Mothers: []lots.MotherLot{{
			ID:              id.New(),
			Code:            "1000",
			Width:           1200,
			Thickness:       0.5,
			OriginalWeight:  9000,
			RemainingWeight: remaining,
			Status:          lots.StatusStock,
			EntryDate:       cutDay.AddDate(0, 0, -5),
		}},
	}
}

func TestApplyCut(t *testing.T) {
	cmd := ApplyCut{
		MotherCode:  "1000",
		InputWeight: 4000,
		Scrap:       100,
		Children: []NewChild{
			{Code: "B2-1000", Name: "Slit 300", Width: 300, Weight: 1950},
			{Code: "B2-1000", Name: "Slit 300", Width: 300, Weight: 1950},
		},
		Date: cutDay,
	}

	next, rec, err := cmd.Execute(motherSnap(9000))
	require.NoError(t, err)
	require.NotNil(t, rec)

	assert.Equal(t, 5000.0, next.Mothers[0].RemainingWeight)
	assert.Equal(t, lots.StatusStock, next.Mothers[0].Status)
	require.Len(t, next.Children, 2)
	assert.Equal(t, "1000", next.Children[0].MotherCode)
	assert.Equal(t, 1950.0, next.Children[0].InitialWeight)
	require.Len(t, next.Cuts, 1)
	assert.Equal(t, 1200.0, next.Cuts[0].Width)
	assert.Equal(t, 2, next.Cuts[0].OutputCount)
}

func TestApplyCut_ExhaustsMother(t *testing.T) {
	cmd := ApplyCut{
		MotherCode:  "1000",
		InputWeight: 1000,
		Scrap:       100,
		Children:    []NewChild{{Code: "B2-1000", Width: 300, Weight: 900}},
		Date:        cutDay,
	}

	next, _, err := cmd.Execute(motherSnap(1000))
	require.NoError(t, err)

	m := next.Mothers[0]
	assert.Equal(t, 0.0, m.RemainingWeight)
	assert.Equal(t, lots.StatusConsumed, m.Status)
	require.NotNil(t, m.ConsumedDate)
	assert.Equal(t, cutDay, *m.ConsumedDate)
}

func TestApplyCut_WeightMismatch(t *testing.T) {
	cmd := ApplyCut{
		MotherCode:  "1000",
		InputWeight: 4000,
		Scrap:       100,
		Children:    []NewChild{{Code: "B2-1000", Width: 300, Weight: 1950}},
		Date:        cutDay,
	}

	_, _, err := cmd.Execute(motherSnap(9000))
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeWeightMismatch, appErr.Code)
}

func TestApplyCut_WithinTolerancePasses(t *testing.T) {
	cmd := ApplyCut{
		MotherCode:  "1000",
		InputWeight: 4000,
		Scrap:       100,
		Children:    []NewChild{{Code: "B2-1000", Width: 300, Weight: 3900.4}},
		Date:        cutDay,
	}

	_, _, err := cmd.Execute(motherSnap(9000))
	assert.NoError(t, err)
}

func TestApplyCut_InsufficientRemaining(t *testing.T) {
	cmd := ApplyCut{
		MotherCode:  "1000",
		InputWeight: 4000,
		Scrap:       100,
		Children:    []NewChild{{Code: "B2-1000", Width: 300, Weight: 3900}},
		Date:        cutDay,
	}

	_, _, err := cmd.Execute(motherSnap(2000))
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInsufficientLot, appErr.Code)
}

func TestApplyCut_UnknownMother(t *testing.T) {
	cmd := ApplyCut{
		MotherCode:  "9999",
		InputWeight: 100,
		Children:    []NewChild{{Code: "B2", Width: 300, Weight: 100}},
		Date:        cutDay,
	}

	_, _, err := cmd.Execute(motherSnap(9000))
	assert.True(t, apperror.IsNotFound(err))
}

func TestApplyCut_WidthSelectsMother(t *testing.T) {
	snap := motherSnap(9000)
	narrow := lots.MotherLot{
		ID: id.New(), Code: "1000", Width: 1000,
		OriginalWeight: 3000, RemainingWeight: 3000,
		Status: lots.StatusStock,
	}
	snap.Mothers = append(snap.Mothers, narrow)

	cmd := ApplyCut{
		MotherCode:  "1000",
		Width:       1000,
		InputWeight: 1000,
		Children:    []NewChild{{Code: "B2", Width: 250, Weight: 1000}},
		Date:        cutDay,
	}

	next, rec, err := cmd.Execute(snap)
	require.NoError(t, err)
	assert.Equal(t, 1000.0, rec.Width)
	assert.Equal(t, 9000.0, next.Mothers[0].RemainingWeight)
	assert.Equal(t, 2000.0, next.Mothers[1].RemainingWeight)
}

func TestApplyProduction(t *testing.T) {
	child := lots.ChildLot{
		ID: id.New(), Code: "B2-1000", Weight: 1950, InitialWeight: 1950,
		Status: lots.StatusStock, MotherCode: "1000",
	}
	snap := store.Snapshot{Children: []lots.ChildLot{child}}

	cmd := ApplyProduction{
		ProductCode: "TELHA-25",
		TrackingID:  "PROD-20250310-1-1",
		Pieces:      100,
		PackIndex:   1,
		ChildIDs:    []string{child.ID.String()},
		Date:        cutDay,
	}

	next, batch, err := cmd.Execute(snap)
	require.NoError(t, err)
	require.NotNil(t, batch)

	assert.Equal(t, lots.StatusConsumed, next.Children[0].Status)
	assert.Equal(t, 0.0, next.Children[0].Weight)
	assert.Equal(t, 1950.0, next.Children[0].InitialWeight)
	require.Len(t, next.Batches, 1)
	assert.Equal(t, 100, next.Batches[0].Pieces)
}

func TestApplyProduction_ConsumedChildRejected(t *testing.T) {
	child := lots.ChildLot{
		ID: id.New(), Code: "B2-1000", Status: lots.StatusConsumed,
	}
	snap := store.Snapshot{Children: []lots.ChildLot{child}}

	cmd := ApplyProduction{
		ProductCode: "TELHA-25", Pieces: 100,
		ChildIDs: []string{child.ID.String()}, Date: cutDay,
	}

	_, _, err := cmd.Execute(snap)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeLotConsumed, appErr.Code)
}

func TestApplyProduction_UnknownChild(t *testing.T) {
	cmd := ApplyProduction{
		ProductCode: "TELHA-25", Pieces: 100,
		ChildIDs: []string{id.NewString()}, Date: cutDay,
	}
	_, _, err := cmd.Execute(store.Snapshot{})
	assert.True(t, apperror.IsNotFound(err))
}

func TestApplyShipment(t *testing.T) {
	snap := store.Snapshot{
		Batches: []production.Batch{{
			ID: id.New(), ProductCode: "TELHA-25", Pieces: 100, Date: cutDay,
		}},
	}

	next, rec, err := ApplyShipment{
		ProductCode: "TELHA-25", Quantity: 60, Destination: "Obra Sul", Date: cutDay,
	}.Execute(snap)
	require.NoError(t, err)
	require.NotNil(t, rec)
	require.Len(t, next.Shipments, 1)

	// 40 pieces remain; the next 60 must be refused.
	_, _, err = ApplyShipment{
		ProductCode: "TELHA-25", Quantity: 60, Date: cutDay,
	}.Execute(next)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInsufficientLot, appErr.Code)
}

func TestApplyAdjustment(t *testing.T) {
	snap := motherSnap(5000)

	next, m, err := ApplyAdjustment{
		MotherID:     snap.Mothers[0].ID,
		NewRemaining: 4200,
		Reason:       "scale recount",
		Date:         cutDay,
	}.Execute(snap)
	require.NoError(t, err)
	assert.Equal(t, 4200.0, m.RemainingWeight)
	assert.Equal(t, lots.StatusStock, next.Mothers[0].Status)
}

func TestApplyAdjustment_Close(t *testing.T) {
	snap := motherSnap(5000)

	next, _, err := ApplyAdjustment{
		MotherID:     snap.Mothers[0].ID,
		NewRemaining: 300,
		Close:        true,
		Date:         cutDay,
	}.Execute(snap)
	require.NoError(t, err)

	m := next.Mothers[0]
	assert.Equal(t, lots.StatusConsumed, m.Status)
	require.NotNil(t, m.ConsumedDate)
}

func TestApplyAdjustment_Bounds(t *testing.T) {
	snap := motherSnap(5000)

	_, _, err := ApplyAdjustment{
		MotherID: snap.Mothers[0].ID, NewRemaining: -1, Date: cutDay,
	}.Execute(snap)
	assert.Error(t, err)

	_, _, err = ApplyAdjustment{
		MotherID: snap.Mothers[0].ID, NewRemaining: 10000, Date: cutDay,
	}.Execute(snap)
	assert.Error(t, err)
}
