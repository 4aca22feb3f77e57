// Package lots provides the coil lot entities: mother coils received
// from the mill and the child coils slit from them. Mother and child
// are independent top-level records linked only by soft code
// references; neither owns the other.
package lots

import (
	"time"

	"coilledger/internal/core/id"
)

// Status of a lot on the floor.
type Status string

const (
	StatusStock    Status = "stock"
	StatusConsumed Status = "consumed"
)

// MotherLot is a raw-material coil as received. RemainingWeight is
// drawn down by cut records; the status flips to consumed when the coil
// is exhausted or explicitly closed out.
type MotherLot struct {
	ID id.ID `db:"id" json:"id"`

	// Code is the mill material code (e.g. "1000").
	Code string `db:"code" json:"code"`

	// Width of the coil in millimeters.
	Width float64 `db:"width" json:"width"`

	// Thickness in millimeters as recorded on intake.
	Thickness float64 `db:"thickness" json:"thickness"`

	// MaterialType as recorded on intake (catalog overrides on display).
	MaterialType string `db:"material_type" json:"materialType"`

	// Description as recorded on intake, fallback when the code is not
	// in the catalog.
	Description string `db:"description" json:"description,omitempty"`

	OriginalWeight  float64 `db:"original_weight" json:"originalWeight"`
	RemainingWeight float64 `db:"remaining_weight" json:"remainingWeight"`

	Status Status `db:"status" json:"status"`

	EntryDate    time.Time  `db:"entry_date" json:"entryDate"`
	ConsumedDate *time.Time `db:"consumed_date" json:"consumedDate,omitempty"`

	// NF is the fiscal document the coil arrived under.
	NF string `db:"nf" json:"nf,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// InStock reports whether the coil still carries weight on the floor.
func (m *MotherLot) InStock() bool {
	return m.Status == StatusStock
}

// CanConsume reports whether weight kg can still be drawn from the coil.
func (m *MotherLot) CanConsume(weight float64) bool {
	return m.Status == StatusStock && weight > 0 && weight <= m.RemainingWeight+exhaustionSlack
}

// Exhausted reports whether the remaining weight is close enough to
// zero for the coil to be closed.
func (m *MotherLot) Exhausted() bool {
	return m.RemainingWeight <= exhaustionSlack
}

// exhaustionSlack absorbs scale drift when deciding a coil is spent.
const exhaustionSlack = 0.5
