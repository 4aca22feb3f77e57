package ledger

import (
	"sort"
	"time"

	"coilledger/internal/domain/catalogs/material"
	"coilledger/internal/domain/store"
)

// RowKind tells which collection a stock row was aggregated from.
type RowKind string

const (
	KindMother   RowKind = "mother"
	KindChild    RowKind = "child"
	KindFinished RowKind = "finished"
)

// StockRow is one aggregated present-day stock position.
type StockRow struct {
	Key  Key     `json:"key"`
	Kind RowKind `json:"kind"`

	Description  string  `json:"description"`
	Thickness    float64 `json:"thickness"`
	MaterialType string  `json:"materialType,omitempty"`

	// Weight is the summed kilograms on the floor under this key.
	Weight float64 `json:"weight"`

	// Count is the number of lots (or pieces, for finished goods).
	Count int `json:"count"`

	// OldestEntry is the entry date of the oldest stocked lot.
	OldestEntry time.Time `json:"oldestEntry"`
}

// Aggregate folds the in-stock mother and child lots into per-key
// rows. Mothers group by code+width; children group by their slit
// material code, keeping the width only while it is uniform. Output is
// deterministic: sorted by code, then width. Keys that sum to nothing
// are dropped.
func Aggregate(snap store.Snapshot, res *material.Resolver) []StockRow {
	acc := make(map[Key]*StockRow)

	for i := range snap.Mothers {
		m := &snap.Mothers[i]
		if !m.InStock() {
			continue
		}
		k := Key{Code: m.Code, Width: m.Width}
		row, ok := acc[k]
		if !ok {
			row = &StockRow{
				Key:          k,
				Kind:         KindMother,
				Description:  res.Description(m.Code, m.Description),
				Thickness:    res.Thickness(m.Code, m.Thickness),
				MaterialType: string(res.MaterialType(m.Code, material.Type(m.MaterialType))),
			}
			acc[k] = row
		}
		w := m.RemainingWeight
		if w <= 0 {
			w = m.OriginalWeight
		}
		row.Weight += w
		row.Count++
		if row.OldestEntry.IsZero() || (!m.EntryDate.IsZero() && m.EntryDate.Before(row.OldestEntry)) {
			row.OldestEntry = m.EntryDate
		}
	}

	// Children group by code alone; width survives only when every lot
	// under the code agrees on it.
	childWidth := make(map[string]float64)
	childSeen := make(map[string]bool)
	for i := range snap.Children {
		c := &snap.Children[i]
		if !c.InStock() {
			continue
		}
		if !childSeen[c.Code] {
			childSeen[c.Code] = true
			childWidth[c.Code] = c.Width
		} else if childWidth[c.Code] != c.Width {
			childWidth[c.Code] = 0
		}
	}
	childRows := make(map[string]*StockRow)
	for i := range snap.Children {
		c := &snap.Children[i]
		if !c.InStock() {
			continue
		}
		row, ok := childRows[c.Code]
		if !ok {
			row = &StockRow{
				Kind:        KindChild,
				Description: res.Description(c.Code, c.Name),
				Thickness:   res.Thickness(c.Code, c.Thickness),
			}
			childRows[c.Code] = row
		}
		row.Weight += c.EffectiveWeight()
		row.Count++
		if row.OldestEntry.IsZero() || (!c.CreatedAt.IsZero() && c.CreatedAt.Before(row.OldestEntry)) {
			row.OldestEntry = c.CreatedAt
		}
	}
	for code, row := range childRows {
		row.Key = Key{Code: code, Width: childWidth[code]}
		acc[row.Key] = row
	}

	out := make([]StockRow, 0, len(acc))
	for _, row := range acc {
		if row.Weight == 0 && row.Count == 0 {
			continue
		}
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key.Less(out[j].Key) })
	return out
}

// AggregateFinished derives finished-goods positions: pieces produced
// minus pieces shipped, per product code. Oldest entry is the earliest
// batch still contributing stock.
func AggregateFinished(snap store.Snapshot) []StockRow {
	produced := make(map[string]int)
	oldest := make(map[string]time.Time)
	for i := range snap.Batches {
		b := &snap.Batches[i]
		produced[b.ProductCode] += b.Pieces
		if t, ok := oldest[b.ProductCode]; !ok || (!b.Date.IsZero() && b.Date.Before(t)) {
			oldest[b.ProductCode] = b.Date
		}
	}
	for i := range snap.Shipments {
		produced[snap.Shipments[i].ProductCode] -= snap.Shipments[i].Quantity
	}

	out := make([]StockRow, 0, len(produced))
	for code, pieces := range produced {
		if pieces == 0 {
			continue
		}
		out = append(out, StockRow{
			Key:         Key{Code: code},
			Kind:        KindFinished,
			Count:       pieces,
			OldestEntry: oldest[code],
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key.Less(out[j].Key) })
	return out
}
