package lots

import (
	"time"

	"coilledger/internal/core/id"
)

// ChildLot is a slit coil: either produced by a cut record from a
// mother coil, or bought pre-slit. MotherCode is a soft back-reference;
// a purchased child has none.
type ChildLot struct {
	ID id.ID `db:"id" json:"id"`

	// Code is the slit-material (B2) code used for ledger grouping.
	Code string `db:"code" json:"code"`

	// Name is the display name printed on the coil tag.
	Name string `db:"name" json:"name"`

	Width     float64 `db:"width" json:"width"`
	Thickness float64 `db:"thickness" json:"thickness"`

	// Weight is the current weight; zeroed when consumed by production.
	Weight float64 `db:"weight" json:"weight"`

	// InitialWeight is the weight at creation, the restore value when a
	// consumption is rolled back in a historical snapshot.
	InitialWeight float64 `db:"initial_weight" json:"initialWeight"`

	Status Status `db:"status" json:"status"`

	// MotherCode links back to the coil this lot was slit from.
	MotherCode string `db:"mother_code" json:"motherCode,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// InStock reports whether the slit coil is still on the floor.
func (c *ChildLot) InStock() bool {
	return c.Status == StatusStock
}

// EffectiveWeight returns the weight to aggregate: current when
// positive, initial otherwise (consumed rows keep their history).
func (c *ChildLot) EffectiveWeight() float64 {
	if c.Weight > 0 {
		return c.Weight
	}
	return c.InitialWeight
}
