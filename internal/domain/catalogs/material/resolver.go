package material

import (
	"github.com/shopspring/decimal"
)

// Resolver answers code → canonical entry lookups with per-record
// fallback. It is built once from the loaded reference table and is
// safe for concurrent reads.
type Resolver struct {
	entries map[string]Entry
}

// NewResolver indexes the reference table by material code.
func NewResolver(entries []Entry) *Resolver {
	idx := make(map[string]Entry, len(entries))
	for _, e := range entries {
		idx[e.Code] = e
	}
	return &Resolver{entries: idx}
}

// Resolve returns the catalog entry for code.
func (r *Resolver) Resolve(code string) (Entry, bool) {
	e, ok := r.entries[code]
	return e, ok
}

// Description returns the canonical description for code, or fallback
// when the code is not in the catalog.
func (r *Resolver) Description(code, fallback string) string {
	if e, ok := r.entries[code]; ok && e.Description != "" {
		return e.Description
	}
	return fallback
}

// Thickness returns the canonical thickness for code, or fallback.
func (r *Resolver) Thickness(code string, fallback float64) float64 {
	if e, ok := r.entries[code]; ok && !e.Thickness.IsZero() {
		f, _ := e.Thickness.Float64()
		return f
	}
	return fallback
}

// MaterialType returns the steel type for code, or fallback.
func (r *Resolver) MaterialType(code string, fallback Type) Type {
	if e, ok := r.entries[code]; ok && e.Type != "" {
		return e.Type
	}
	return fallback
}

// Len reports the number of indexed entries.
func (r *Resolver) Len() int {
	return len(r.entries)
}

// MustThickness is a decimal variant of Thickness for validation paths.
func (r *Resolver) MustThickness(code string) decimal.Decimal {
	if e, ok := r.entries[code]; ok {
		return e.Thickness
	}
	return decimal.Zero
}
