// Package kardex builds the running-balance movement report for raw
// material, one row per ledger key, over a requested date window. The
// closing balance is read from present stock; the opening balance is
// back-derived, so the reconciliation identity
//
//	final == initial + periodIn - periodOut
//
// holds by construction.
package kardex

import (
	"time"

	"coilledger/internal/domain/ledger"
)

// MovementKind separates entries from exits.
type MovementKind string

const (
	MovementIn  MovementKind = "in"
	MovementOut MovementKind = "out"
)

// Movement is one dated kardex line with its running balance.
type Movement struct {
	Date time.Time    `json:"date"`
	Kind MovementKind `json:"kind"`

	// Weight is positive for entries, negative for exits.
	Weight float64 `json:"weight"`

	// Detail carries the NF reference for intakes, scrap note for cuts.
	Detail string `json:"detail,omitempty"`

	// Balance after applying this movement.
	Balance float64 `json:"balance"`
}

// Row is the kardex for one ledger key.
type Row struct {
	Key            ledger.Key `json:"key"`
	Description    string     `json:"description"`
	InitialBalance float64    `json:"initialBalance"`
	PeriodIn       float64    `json:"periodIn"`
	PeriodOut      float64    `json:"periodOut"`
	FinalBalance   float64    `json:"finalBalance"`
	Movements      []Movement `json:"movements"`
}

// Diagnostic reports a cut whose ledger key could not be fully
// resolved. Such cuts still reconcile, under width zero; the row is
// surfaced so the ambiguity is visible instead of silently folded.
type Diagnostic struct {
	CutID      string  `json:"cutId"`
	MotherCode string  `json:"motherCode"`
	Weight     float64 `json:"weight"`
	Reason     string  `json:"reason"`
}

// Report is the full kardex result for a period.
type Report struct {
	From        time.Time    `json:"from"`
	To          time.Time    `json:"to"`
	Rows        []Row        `json:"rows"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
}
