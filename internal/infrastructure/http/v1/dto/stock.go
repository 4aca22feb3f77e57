package dto

import (
	"sort"
	"time"

	"coilledger/internal/domain/ledger"
	"coilledger/internal/domain/opstatus"
	"coilledger/internal/domain/store"
)

// StockListResponse wraps the aggregated stock rows.
type StockListResponse struct {
	Items      []ledger.StockRow `json:"items"`
	TotalCount int               `json:"totalCount"`
}

// StatusRowResponse flattens one classified key for JSON transport.
type StatusRowResponse struct {
	Key    string          `json:"key"`
	Code   string          `json:"code"`
	Width  float64         `json:"width"`
	Kind   ledger.RowKind  `json:"kind"`
	Result opstatus.Result `json:"result"`
}

// StatusListResponse is the classified stock position, ordered by key.
type StatusListResponse struct {
	Items      []StatusRowResponse `json:"items"`
	TotalCount int                 `json:"totalCount"`
}

// FromStatusMap renders the classification map as a stable list.
func FromStatusMap(rows []ledger.StockRow, results map[ledger.Key]opstatus.Result) StatusListResponse {
	items := make([]StatusRowResponse, 0, len(results))
	for _, row := range rows {
		res, ok := results[row.Key]
		if !ok {
			continue
		}
		items = append(items, StatusRowResponse{
			Key:    row.Key.String(),
			Code:   row.Key.Code,
			Width:  row.Key.Width,
			Kind:   row.Kind,
			Result: res,
		})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Key < items[j].Key })
	return StatusListResponse{Items: items, TotalCount: len(items)}
}

// SnapshotResponse is the point-in-time reconstruction bundle: the
// collections as of the cutoff plus the stock rows aggregated from
// them.
type SnapshotResponse struct {
	At       time.Time         `json:"at"`
	Snapshot store.Snapshot    `json:"snapshot"`
	Stock    []ledger.StockRow `json:"stock"`
}
