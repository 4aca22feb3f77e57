// Package snapshot reconstructs the stock state as of an arbitrary
// past instant from the append-only transaction history. The pass is a
// pure filter plus status override: persisted status fields are
// distrusted whenever the transaction that produced them postdates the
// cutoff.
package snapshot

import (
	"time"

	"coilledger/internal/domain/documents/cut"
	"coilledger/internal/domain/documents/production"
	"coilledger/internal/domain/documents/shipment"
	"coilledger/internal/domain/lots"
	"coilledger/internal/domain/store"
)

// Reconstruct returns the collections as they stood at cutoff. The
// source snapshot is never mutated; the result has the same shape and
// feeds the aggregator, kardex and classifier unmodified. With cutoff
// equal to the present instant the output is behaviorally identical to
// the input.
func Reconstruct(snap store.Snapshot, cutoff time.Time) store.Snapshot {
	out := store.Snapshot{}

	codeCount := make(map[string]int, len(snap.Mothers))
	for i := range snap.Mothers {
		codeCount[snap.Mothers[i].Code]++
	}

	for i := range snap.Mothers {
		m := snap.Mothers[i]
		if created(m.EntryDate, m.CreatedAt).After(cutoff) {
			continue
		}

		// When the code maps to a single coil, cuts after the cutoff can
		// be attributed to it and their weight added back. With several
		// coils under one code the attribution is ambiguous and only the
		// status override below applies.
		if codeCount[m.Code] == 1 {
			var addBack float64
			for j := range snap.Cuts {
				rec := &snap.Cuts[j]
				if rec.MotherCode == m.Code && !rec.Date.IsZero() && rec.Date.After(cutoff) {
					addBack += rec.InputWeight
				}
			}
			if addBack > 0 {
				m.RemainingWeight += addBack
				if m.RemainingWeight > m.OriginalWeight {
					m.RemainingWeight = m.OriginalWeight
				}
				m.Status = lots.StatusStock
				m.ConsumedDate = nil
			}
		}

		if m.Status == lots.StatusConsumed {
			if t, ok := latestCutFor(snap.Cuts, m.Code); ok && t.After(cutoff) {
				m.Status = lots.StatusStock
				m.ConsumedDate = nil
				if m.RemainingWeight <= 0 {
					m.RemainingWeight = m.OriginalWeight
				}
			}
		}
		out.Mothers = append(out.Mothers, m)
	}

	for i := range snap.Children {
		c := snap.Children[i]
		if c.CreatedAt.After(cutoff) {
			continue
		}
		if c.Status == lots.StatusConsumed {
			if t, ok := latestBatchFor(snap.Batches, c.ID.String()); ok && t.After(cutoff) {
				c.Status = lots.StatusStock
				if c.Weight <= 0 {
					c.Weight = c.InitialWeight
				}
			}
		}
		out.Children = append(out.Children, c)
	}

	out.Cuts = filterCuts(snap.Cuts, cutoff)
	out.Batches = filterBatches(snap.Batches, cutoff)
	out.Shipments = filterShipments(snap.Shipments, cutoff)
	return out
}

// created prefers the business entry date over the row timestamp.
func created(entry, rowCreated time.Time) time.Time {
	if !entry.IsZero() {
		return entry
	}
	return rowCreated
}

// latestCutFor finds the most recent cut consuming the given mother code.
func latestCutFor(cuts []cut.Record, motherCode string) (time.Time, bool) {
	var latest time.Time
	found := false
	for i := range cuts {
		if cuts[i].MotherCode != motherCode || cuts[i].Date.IsZero() {
			continue
		}
		if !found || cuts[i].Date.After(latest) {
			latest = cuts[i].Date
			found = true
		}
	}
	return latest, found
}

// latestBatchFor finds the most recent batch consuming the given child lot.
func latestBatchFor(batches []production.Batch, childID string) (time.Time, bool) {
	var latest time.Time
	found := false
	for i := range batches {
		if batches[i].Date.IsZero() || !batches[i].ConsumesChild(childID) {
			continue
		}
		if !found || batches[i].Date.After(latest) {
			latest = batches[i].Date
			found = true
		}
	}
	return latest, found
}

func filterCuts(in []cut.Record, cutoff time.Time) []cut.Record {
	out := make([]cut.Record, 0, len(in))
	for i := range in {
		if !in[i].Date.After(cutoff) {
			out = append(out, in[i])
		}
	}
	return out
}

func filterBatches(in []production.Batch, cutoff time.Time) []production.Batch {
	out := make([]production.Batch, 0, len(in))
	for i := range in {
		if !in[i].Date.After(cutoff) {
			out = append(out, in[i])
		}
	}
	return out
}

func filterShipments(in []shipment.Record, cutoff time.Time) []shipment.Record {
	out := make([]shipment.Record, 0, len(in))
	for i := range in {
		if !in[i].Date.After(cutoff) {
			out = append(out, in[i])
		}
	}
	return out
}
