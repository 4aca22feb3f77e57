// Package cut provides the cut record document: one slitting pass that
// consumes weight from a mother coil and produces child coils plus
// scrap.
package cut

import (
	"time"

	"coilledger/internal/core/id"
	"coilledger/internal/core/types"
)

// Record is a single slitting transformation.
type Record struct {
	ID id.ID `db:"id" json:"id"`

	// MotherCode references the consumed coil's material code.
	MotherCode string `db:"mother_code" json:"motherCode"`

	// Width of the consumed coil when the operator recorded it; zero on
	// legacy rows, which forces the ledger-key resolution cascade.
	Width float64 `db:"width" json:"width,omitempty"`

	// InputWeight is the weight drawn from the mother coil.
	InputWeight float64 `db:"input_weight" json:"inputWeight"`

	// Scrap is edge trim and setup loss.
	Scrap float64 `db:"scrap" json:"scrap"`

	// OutputCount is the number of child coils produced.
	OutputCount int `db:"output_count" json:"outputCount"`

	// GeneratedItems is the operator's textual manifest of produced coils.
	GeneratedItems string `db:"generated_items" json:"generatedItems,omitempty"`

	Date time.Time `db:"date" json:"date"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// ConservationHolds checks that the consumed weight reconciles with the
// produced child weights plus scrap within the shear-scale tolerance.
func (r *Record) ConservationHolds(childWeights []float64) bool {
	return types.ConservationHolds(r.InputWeight, childWeights, r.Scrap)
}
