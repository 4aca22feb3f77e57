// Package opstatus classifies each ledger position's operational
// health from recent demand, movement recency and lot age. The rules
// are ordered; the first match wins.
package opstatus

import (
	"time"

	"coilledger/internal/core/dates"
	"coilledger/internal/domain/ledger"
	"coilledger/internal/domain/store"
)

// Status is the operational state of one ledger key.
type Status string

const (
	// StatusCritico: recent demand exceeds what is on the floor.
	StatusCritico Status = "CRITICO"
	// StatusSemGiro: no movement inside the no-turnover threshold.
	StatusSemGiro Status = "SEM_GIRO"
	// StatusUsar: an aging lot under a key that still moves; consume it first.
	StatusUsar Status = "USAR"
	// StatusOK: nothing to flag.
	StatusOK Status = "OK"
)

// Config holds the classification thresholds, all in days.
type Config struct {
	DemandWindowDays int
	NoTurnoverDays   int
	AgingDays        int

	// Rules are optional operator overrides, evaluated before the
	// built-in cascade. See rules.go.
	Rules []Rule
}

// DefaultConfig mirrors the thresholds the planning board runs with.
func DefaultConfig() Config {
	return Config{
		DemandWindowDays: 30,
		NoTurnoverDays:   30,
		AgingDays:        90,
	}
}

// Result carries the classification and the figures it was derived from.
type Result struct {
	Status Status `json:"status"`

	// Demand is consumption inside the window, kg for coils and pieces
	// for finished goods.
	Demand float64 `json:"demand"`

	// Stock is the present position, same unit as Demand.
	Stock float64 `json:"stock"`

	// LastMoveDays is days since the last relevant movement; nil when
	// the key never moved.
	LastMoveDays *int `json:"lastMoveDays"`

	// OldestDays is the age of the oldest stocked lot.
	OldestDays int `json:"oldestDays"`
}

// Classify evaluates every row against the threshold cascade. It is a
// pure function: same snapshot, rows and clock in, same map out.
func Classify(snap store.Snapshot, rows []ledger.StockRow, cfg Config, now time.Time) map[ledger.Key]Result {
	windowStart := now.AddDate(0, 0, -cfg.DemandWindowDays)
	out := make(map[ledger.Key]Result, len(rows))

	for _, row := range rows {
		demand := demandFor(snap, row, windowStart, now)
		lastMove := lastMovementFor(snap, row)
		oldestDays := dates.DaysSince(row.OldestEntry, now)
		if oldestDays < 0 {
			oldestDays = 0
		}

		var lastMoveDays *int
		if !lastMove.IsZero() {
			d := dates.DaysSince(lastMove, now)
			lastMoveDays = &d
		}

		stock := row.Weight
		if row.Kind == ledger.KindFinished {
			stock = float64(row.Count)
		}

		res := Result{
			Demand:       demand,
			Stock:        stock,
			LastMoveDays: lastMoveDays,
			OldestDays:   oldestDays,
		}
		res.Status = classify(res, cfg)

		for _, rule := range cfg.Rules {
			if forced, ok := rule.Apply(row, res); ok {
				res.Status = forced
				break
			}
		}

		out[row.Key] = res
	}
	return out
}

// classify applies the built-in cascade. Order is load-bearing: a
// critical shortage outranks recency, recency outranks age.
func classify(r Result, cfg Config) Status {
	if r.Demand > 0 && r.Stock < r.Demand {
		return StatusCritico
	}
	if r.LastMoveDays == nil || *r.LastMoveDays >= cfg.NoTurnoverDays {
		return StatusSemGiro
	}
	if r.OldestDays >= cfg.AgingDays && *r.LastMoveDays < cfg.NoTurnoverDays {
		return StatusUsar
	}
	return StatusOK
}

// demandFor sums the key's consumption inside [windowStart, now]:
// cut weight for mother coils, production-consumed child weight for
// slit material, shipped pieces for finished goods.
func demandFor(snap store.Snapshot, row ledger.StockRow, windowStart, now time.Time) float64 {
	switch row.Kind {
	case ledger.KindMother:
		var total float64
		for i := range snap.Cuts {
			rec := snap.Cuts[i]
			if !dates.InRange(rec.Date, windowStart, now) {
				continue
			}
			if ledger.ResolveCutKey(snap, rec) == row.Key {
				total += rec.InputWeight
			}
		}
		return total

	case ledger.KindChild:
		var total float64
		for i := range snap.Batches {
			b := &snap.Batches[i]
			if !dates.InRange(b.Date, windowStart, now) {
				continue
			}
			for _, cid := range b.ChildIDs {
				if c := snap.ChildByID(cid); c != nil && c.Code == row.Key.Code {
					total += c.EffectiveWeight()
				}
			}
		}
		return total

	case ledger.KindFinished:
		var total float64
		for i := range snap.Shipments {
			s := &snap.Shipments[i]
			if s.ProductCode == row.Key.Code && dates.InRange(s.Date, windowStart, now) {
				total += float64(s.Quantity)
			}
		}
		return total
	}
	return 0
}

// lastMovementFor finds the most recent entry or consumption touching
// the key. Zero means the key never moved.
func lastMovementFor(snap store.Snapshot, row ledger.StockRow) time.Time {
	var last time.Time
	touch := func(t time.Time) {
		if !t.IsZero() && t.After(last) {
			last = t
		}
	}

	switch row.Kind {
	case ledger.KindMother:
		for i := range snap.Mothers {
			m := &snap.Mothers[i]
			if m.Code == row.Key.Code && m.Width == row.Key.Width {
				touch(m.EntryDate)
			}
		}
		for i := range snap.Cuts {
			rec := snap.Cuts[i]
			if ledger.ResolveCutKey(snap, rec) == row.Key {
				touch(rec.Date)
			}
		}

	case ledger.KindChild:
		for i := range snap.Children {
			c := &snap.Children[i]
			if c.Code == row.Key.Code {
				touch(c.CreatedAt)
			}
		}
		for i := range snap.Batches {
			b := &snap.Batches[i]
			for _, cid := range b.ChildIDs {
				if c := snap.ChildByID(cid); c != nil && c.Code == row.Key.Code {
					touch(b.Date)
				}
			}
		}

	case ledger.KindFinished:
		for i := range snap.Batches {
			if snap.Batches[i].ProductCode == row.Key.Code {
				touch(snap.Batches[i].Date)
			}
		}
		for i := range snap.Shipments {
			if snap.Shipments[i].ProductCode == row.Key.Code {
				touch(snap.Shipments[i].Date)
			}
		}
	}
	return last
}
