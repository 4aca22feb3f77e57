package events

import (
	"coilledger/internal/domain/store"
)

// Source yields the raw event stream. Two implementations exist and
// the choice is made at composition time: PersistedSource when the
// application stores events directly, SynthesizedSource when they must
// be derived from the per-transaction logs.
type Source interface {
	Events() []Event
}

// PersistedSource serves an already-loaded event collection.
type PersistedSource struct {
	Stream []Event
}

func (s PersistedSource) Events() []Event {
	out := make([]Event, len(s.Stream))
	copy(out, s.Stream)
	return out
}

// SynthesizedSource derives events from the cut, production and
// shipment collections, the fallback path for legacy data.
type SynthesizedSource struct {
	Snap store.Snapshot
}

func (s SynthesizedSource) Events() []Event {
	snap := s.Snap
	out := make([]Event, 0, len(snap.Cuts)+len(snap.Batches)+len(snap.Shipments))

	for i := range snap.Cuts {
		rec := snap.Cuts[i]
		ev := Event{
			ID:        rec.ID.String(),
			Type:      TypeCut,
			SourceID:  rec.MotherCode,
			Timestamp: rec.Date,
			Code:      rec.MotherCode,
			Weight:    rec.InputWeight,
			Details:   rec.GeneratedItems,
		}
		for j := range snap.Children {
			if snap.Children[j].MotherCode == rec.MotherCode {
				ev.TargetIDs = append(ev.TargetIDs, snap.Children[j].ID.String())
			}
		}
		out = append(out, ev)
	}

	for i := range snap.Batches {
		b := snap.Batches[i]
		out = append(out, Event{
			ID:         b.ID.String(),
			Type:       TypeProduction,
			SourceID:   b.ID.String(),
			TargetIDs:  append([]string(nil), b.ChildIDs...),
			Timestamp:  b.Date,
			Code:       b.ProductCode,
			Pieces:     b.Pieces,
			TrackingID: b.TrackingID,
			PackIndex:  b.PackIndex,
		})
	}

	for i := range snap.Shipments {
		rec := snap.Shipments[i]
		out = append(out, Event{
			ID:        rec.ID.String(),
			Type:      TypeShipment,
			SourceID:  rec.ID.String(),
			Timestamp: rec.Date,
			Code:      rec.ProductCode,
			Pieces:    rec.Quantity,
			Details:   rec.Destination,
		})
	}

	return out
}
