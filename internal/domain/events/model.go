// Package events produces the normalized movement feed: every cut,
// production run and shipment as one displayable record. Events come
// either from a persisted stream or are synthesized from the
// transaction collections when no stream exists; both paths converge on
// the same Event shape.
package events

import (
	"fmt"
	"time"
)

// Type of a domain event.
type Type string

const (
	TypeCut        Type = "cut"
	TypeProduction Type = "production"
	TypeShipment   Type = "shipment"
	TypeAdjustment Type = "adjustment"
)

// Event is one normalized movement-feed record. Raw fields come from
// the source; display fields are backfilled by enrichment against the
// live collections.
type Event struct {
	ID        string    `json:"id,omitempty"`
	Type      Type      `json:"type"`
	SourceID  string    `json:"sourceId"`
	TargetIDs []string  `json:"targetIds,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Details   string    `json:"details,omitempty"`

	// Display fields, possibly stale on persisted events and refreshed
	// during enrichment.
	Code       string  `json:"code,omitempty"`
	Weight     float64 `json:"weight,omitempty"`
	Pieces     int     `json:"pieces,omitempty"`
	Packs      int     `json:"packs,omitempty"`
	TrackingID string  `json:"trackingId,omitempty"`
	PackIndex  int     `json:"packIndex,omitempty"`
}

// dedupKey identifies an event when no id was persisted.
func (e Event) dedupKey() string {
	if e.ID != "" {
		return e.ID
	}
	return fmt.Sprintf("%s|%d|%d|%d", e.TrackingID, e.PackIndex, e.Timestamp.Unix(), e.Pieces)
}

// lotBase strips the trailing pack suffix off a tracking id so packs of
// one production run group together.
func lotBase(trackingID string) string {
	for i := len(trackingID) - 1; i > 0; i-- {
		if trackingID[i] == '-' {
			return trackingID[:i]
		}
	}
	return trackingID
}
