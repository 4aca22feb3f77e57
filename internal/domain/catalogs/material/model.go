// Package material provides the static material reference catalog.
// Entries map a material code to its canonical commercial description,
// thickness and steel type; lots recorded before the catalog existed
// fall back to whatever the transaction itself captured.
package material

import (
	"github.com/shopspring/decimal"
)

// Type classifies the base steel of a material code.
type Type string

const (
	TypeGalvanized Type = "galvanized"
	TypeGalvalume  Type = "galvalume"
	TypeColdRolled Type = "cold_rolled"
	TypeHotRolled  Type = "hot_rolled"
	TypePrePainted Type = "pre_painted"
)

// Entry is one row of the reference table. Read-only; the engine never
// mutates catalog entries.
type Entry struct {
	Code        string          `db:"code" json:"code"`
	Description string          `db:"description" json:"description"`
	Thickness   decimal.Decimal `db:"thickness" json:"thickness"`
	Type        Type            `db:"type" json:"type"`
}
