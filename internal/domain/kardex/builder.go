package kardex

import (
	"fmt"
	"sort"
	"time"

	"coilledger/internal/core/dates"
	"coilledger/internal/domain/catalogs/material"
	"coilledger/internal/domain/ledger"
	"coilledger/internal/domain/store"
)

// Build computes the kardex over [from, to]. Present stock (the rows
// from ledger.Aggregate) is ground truth for the closing balance; the
// opening balance is what remains after subtracting the period's
// movements from it. Records with an invalid date never enter the
// window.
func Build(snap store.Snapshot, rows []ledger.StockRow, res *material.Resolver, from, to time.Time) Report {
	present := make(map[ledger.Key]float64)
	descriptions := make(map[ledger.Key]string)
	for _, row := range rows {
		if row.Kind != ledger.KindMother {
			continue
		}
		present[row.Key] = row.Weight
		descriptions[row.Key] = row.Description
	}

	periodIn := make(map[ledger.Key]float64)
	periodOut := make(map[ledger.Key]float64)
	movements := make(map[ledger.Key][]Movement)
	var diags []Diagnostic

	for i := range snap.Mothers {
		m := &snap.Mothers[i]
		if !dates.InRange(m.EntryDate, from, to) {
			continue
		}
		k := ledger.Key{Code: m.Code, Width: m.Width}
		periodIn[k] += m.OriginalWeight
		detail := "intake"
		if m.NF != "" {
			detail = "intake NF " + m.NF
		}
		movements[k] = append(movements[k], Movement{
			Date:   m.EntryDate,
			Kind:   MovementIn,
			Weight: m.OriginalWeight,
			Detail: detail,
		})
	}

	for i := range snap.Cuts {
		rec := snap.Cuts[i]
		if !dates.InRange(rec.Date, from, to) {
			continue
		}
		k := ledger.ResolveCutKey(snap, rec)
		if k.Ambiguous() {
			diags = append(diags, Diagnostic{
				CutID:      rec.ID.String(),
				MotherCode: rec.MotherCode,
				Weight:     rec.InputWeight,
				Reason:     "width unresolved, aggregated under width 0",
			})
		}
		periodOut[k] += rec.InputWeight
		movements[k] = append(movements[k], Movement{
			Date:   rec.Date,
			Kind:   MovementOut,
			Weight: -rec.InputWeight,
			Detail: fmt.Sprintf("cut %d coils, scrap %.1f kg", rec.OutputCount, rec.Scrap),
		})
	}

	keys := make(map[ledger.Key]struct{})
	for k := range present {
		keys[k] = struct{}{}
	}
	for k := range periodIn {
		keys[k] = struct{}{}
	}
	for k := range periodOut {
		keys[k] = struct{}{}
	}

	report := Report{From: from, To: to, Diagnostics: diags}
	for k := range keys {
		final := present[k]
		in := periodIn[k]
		out := periodOut[k]
		// Reconciliation identity: the opening balance is back-derived,
		// never measured.
		initial := final - in + out

		moves := movements[k]
		sort.SliceStable(moves, func(i, j int) bool {
			if !moves[i].Date.Equal(moves[j].Date) {
				return moves[i].Date.Before(moves[j].Date)
			}
			return moves[i].Kind == MovementIn && moves[j].Kind == MovementOut
		})
		balance := initial
		for i := range moves {
			balance += moves[i].Weight
			moves[i].Balance = balance
		}

		desc := descriptions[k]
		if desc == "" {
			desc = res.Description(k.Code, fallbackDescription(snap, k.Code))
		}

		report.Rows = append(report.Rows, Row{
			Key:            k,
			Description:    desc,
			InitialBalance: initial,
			PeriodIn:       in,
			PeriodOut:      out,
			FinalBalance:   final,
			Movements:      moves,
		})
	}

	sort.Slice(report.Rows, func(i, j int) bool { return report.Rows[i].Key.Less(report.Rows[j].Key) })
	return report
}

// fallbackDescription scans the lot collection for a recorded
// description when the catalog has none.
func fallbackDescription(snap store.Snapshot, code string) string {
	for i := range snap.Mothers {
		if snap.Mothers[i].Code == code && snap.Mothers[i].Description != "" {
			return snap.Mothers[i].Description
		}
	}
	return ""
}
