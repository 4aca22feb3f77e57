// Package production provides the production batch document: one packed
// unit of finished product. Several batches share a logical lot,
// identified by the tracking id minus its trailing pack suffix.
package production

import (
	"strings"
	"time"

	"coilledger/internal/core/id"
)

// Batch is one packed unit of a production run.
type Batch struct {
	ID id.ID `db:"id" json:"id"`

	// ProductCode identifies the finished product.
	ProductCode string `db:"product_code" json:"productCode"`

	// TrackingID is the full pack tracking id, e.g. "PROD-20250101-7-03".
	TrackingID string `db:"tracking_id" json:"trackingId"`

	// Pieces packed in this unit.
	Pieces int `db:"pieces" json:"pieces"`

	// PackIndex is the 1-based position of this pack inside the lot.
	PackIndex int `db:"pack_index" json:"packIndex"`

	// Scrap produced while packing, in kg.
	Scrap float64 `db:"scrap" json:"scrap"`

	// ChildIDs are the consumed child lots, soft references.
	ChildIDs []string `db:"child_ids" json:"childIds"`

	Date time.Time `db:"date" json:"date"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// LotBase returns the shared lot identifier: the tracking id with its
// trailing pack suffix removed. "PROD-20250101-7-03" → "PROD-20250101-7".
// Ids without a separator are their own base.
func (b *Batch) LotBase() string {
	if b.TrackingID == "" {
		return ""
	}
	if i := strings.LastIndex(b.TrackingID, "-"); i > 0 {
		return b.TrackingID[:i]
	}
	return b.TrackingID
}

// ConsumesChild reports whether childID was consumed by this batch.
func (b *Batch) ConsumesChild(childID string) bool {
	for _, cid := range b.ChildIDs {
		if cid == childID {
			return true
		}
	}
	return false
}
