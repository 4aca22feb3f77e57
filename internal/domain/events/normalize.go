package events

import (
	"sort"

	"coilledger/internal/domain/store"
)

// DefaultFeedLimit caps the movement feed for display.
const DefaultFeedLimit = 100

// packFetchMargin over-fetches the raw stream so that a production run
// whose packs straddle the display cap still groups whole. Runs with
// more packs than this are not seen in practice.
const packFetchMargin = 8

// FetchLimit returns how many raw events a persisted source should
// load for a display cap of limit grouped events.
func FetchLimit(limit int) int {
	if limit <= 0 {
		limit = DefaultFeedLimit
	}
	return limit * packFetchMargin
}

// Normalize turns the raw stream into the display feed: enrich against
// the live collections, drop duplicates, merge production packs of one
// run into a single logical event, newest first, capped to limit.
func Normalize(src Source, snap store.Snapshot, limit int) []Event {
	if limit <= 0 {
		limit = DefaultFeedLimit
	}

	// Duplicates must be dropped before grouping: once packs merge into
	// a lot-base group the pack index is gone and the dedup key can no
	// longer tell a replayed pack from a genuine one.
	raw := src.Events()
	seen := make(map[string]struct{}, len(raw))
	enriched := make([]Event, 0, len(raw))
	for _, ev := range raw {
		ev = enrich(ev, snap)
		k := ev.dedupKey()
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		enriched = append(enriched, ev)
	}

	out := groupProduction(enriched)

	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// enrich backfills display fields that may be stale or missing on the
// raw event from the current collections.
func enrich(ev Event, snap store.Snapshot) Event {
	switch ev.Type {
	case TypeCut:
		if ev.Code == "" {
			ev.Code = ev.SourceID
		}
		if ev.Weight == 0 {
			for i := range snap.Cuts {
				if snap.Cuts[i].ID.String() == ev.ID {
					ev.Weight = snap.Cuts[i].InputWeight
					break
				}
			}
		}

	case TypeProduction:
		var weight float64
		for _, tid := range ev.TargetIDs {
			if c := snap.ChildByID(tid); c != nil {
				weight += c.EffectiveWeight()
			}
		}
		if weight > 0 {
			ev.Weight = weight
		}
		if ev.Code == "" {
			for i := range snap.Batches {
				if snap.Batches[i].ID.String() == ev.ID {
					ev.Code = snap.Batches[i].ProductCode
					break
				}
			}
		}

	case TypeShipment, TypeAdjustment:
		// Shipments and adjustments are already self-contained.
	}
	return ev
}

// groupProduction merges production events sharing a lot base into one
// logical event: pieces summed, pack count tallied, target ids unioned.
// Non-production events pass through untouched.
func groupProduction(in []Event) []Event {
	groups := make(map[string]*Event)
	order := make([]string, 0)
	out := make([]Event, 0, len(in))

	for _, ev := range in {
		if ev.Type != TypeProduction || ev.TrackingID == "" {
			out = append(out, ev)
			continue
		}
		base := lotBase(ev.TrackingID)
		g, ok := groups[base]
		if !ok {
			merged := ev
			merged.TrackingID = base
			merged.PackIndex = 0
			merged.Packs = 1
			groups[base] = &merged
			order = append(order, base)
			continue
		}
		g.Pieces += ev.Pieces
		g.Packs++
		g.TargetIDs = unionIDs(g.TargetIDs, ev.TargetIDs)
		if ev.Timestamp.After(g.Timestamp) {
			g.Timestamp = ev.Timestamp
		}
		if g.Weight > 0 || ev.Weight > 0 {
			g.Weight += ev.Weight
		}
	}

	for _, base := range order {
		out = append(out, *groups[base])
	}
	return out
}

func unionIDs(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, s := range a {
		if _, ok := seen[s]; !ok {
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	for _, s := range b {
		if _, ok := seen[s]; !ok {
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	return out
}
