// Package shipment provides the outbound shipment record for finished
// product.
package shipment

import (
	"time"

	"coilledger/internal/core/id"
)

// Record is one outbound movement of finished product.
type Record struct {
	ID id.ID `db:"id" json:"id"`

	ProductCode string `db:"product_code" json:"productCode"`

	// Quantity in pieces.
	Quantity int `db:"quantity" json:"quantity"`

	Destination string `db:"destination" json:"destination"`

	Date time.Time `db:"date" json:"date"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
