// Package store holds the in-memory mirror of the raw collections the
// reconciliation engine computes over. The engine packages take an
// explicit Snapshot value; nothing in the engine reaches for ambient
// state.
package store

import (
	"coilledger/internal/domain/documents/cut"
	"coilledger/internal/domain/documents/production"
	"coilledger/internal/domain/documents/shipment"
	"coilledger/internal/domain/lots"
)

// Snapshot bundles the five raw collections at one instant. It is a
// plain value: copying the struct copies the slice headers, Clone
// copies the elements. Engine functions treat snapshots as read-only.
type Snapshot struct {
	Mothers   []lots.MotherLot   `json:"mothers"`
	Children  []lots.ChildLot    `json:"children"`
	Cuts      []cut.Record       `json:"cuts"`
	Batches   []production.Batch `json:"batches"`
	Shipments []shipment.Record  `json:"shipments"`
}

// Clone returns a deep-enough copy: every slice is reallocated and every
// element copied by value. Pointer fields (consumed dates) are shared
// but never written through; overrides replace the field instead.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Mothers:   make([]lots.MotherLot, len(s.Mothers)),
		Children:  make([]lots.ChildLot, len(s.Children)),
		Cuts:      make([]cut.Record, len(s.Cuts)),
		Batches:   make([]production.Batch, len(s.Batches)),
		Shipments: make([]shipment.Record, len(s.Shipments)),
	}
	copy(out.Mothers, s.Mothers)
	copy(out.Children, s.Children)
	copy(out.Cuts, s.Cuts)
	copy(out.Batches, s.Batches)
	copy(out.Shipments, s.Shipments)
	for i := range out.Batches {
		ids := make([]string, len(s.Batches[i].ChildIDs))
		copy(ids, s.Batches[i].ChildIDs)
		out.Batches[i].ChildIDs = ids
	}
	return out
}

// MotherByCode returns the first in-stock mother lot with code, or nil.
func (s Snapshot) MotherByCode(code string) *lots.MotherLot {
	for i := range s.Mothers {
		if s.Mothers[i].Code == code && s.Mothers[i].InStock() {
			return &s.Mothers[i]
		}
	}
	return nil
}

// ChildByID returns the child lot with the given id string, or nil.
func (s Snapshot) ChildByID(idStr string) *lots.ChildLot {
	for i := range s.Children {
		if s.Children[i].ID.String() == idStr {
			return &s.Children[i]
		}
	}
	return nil
}
