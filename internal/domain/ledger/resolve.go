package ledger

import (
	"coilledger/internal/domain/documents/cut"
	"coilledger/internal/domain/store"
)

// ResolveCutKey assigns a cut record to a ledger key. Legacy cut sheets
// often lack the coil width, so resolution cascades:
//
//  1. the recorded width, when at least one mother lot with that
//     code+width exists;
//  2. the width of the single mother lot whose original or remaining
//     weight equals the cut's consumed weight exactly;
//  3. the code's only width, when all its lots agree on one;
//  4. width zero: ambiguous, reported but never dropped.
//
// The cascade is deliberately fuzzy inherited behavior; its output is
// pinned by tests and must not be "improved" without plant sign-off.
func ResolveCutKey(snap store.Snapshot, rec cut.Record) Key {
	if rec.Width != 0 {
		for i := range snap.Mothers {
			m := &snap.Mothers[i]
			if m.Code == rec.MotherCode && m.Width == rec.Width {
				return Key{Code: rec.MotherCode, Width: rec.Width}
			}
		}
	}

	// Exact consumed-weight match, accepted only when unambiguous.
	matchWidth := 0.0
	matches := 0
	for i := range snap.Mothers {
		m := &snap.Mothers[i]
		if m.Code != rec.MotherCode {
			continue
		}
		if m.OriginalWeight == rec.InputWeight || m.RemainingWeight == rec.InputWeight {
			matches++
			matchWidth = m.Width
		}
	}
	if matches == 1 {
		return Key{Code: rec.MotherCode, Width: matchWidth}
	}

	// Single known width across every lot of the code.
	widths := make(map[float64]struct{})
	var only float64
	for i := range snap.Mothers {
		m := &snap.Mothers[i]
		if m.Code == rec.MotherCode {
			widths[m.Width] = struct{}{}
			only = m.Width
		}
	}
	if len(widths) == 1 {
		return Key{Code: rec.MotherCode, Width: only}
	}

	return Key{Code: rec.MotherCode, Width: 0}
}
