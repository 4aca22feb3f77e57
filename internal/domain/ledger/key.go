// Package ledger derives present-day stock rows from the raw lot
// collections. Everything downstream (kardex, status classification)
// is keyed by the composite ledger key this package produces.
package ledger

import (
	"fmt"
	"strconv"
)

// Key identifies one ledger position: a material code plus coil width.
// Width zero means unknown or ambiguous; such rows still aggregate,
// they just cannot be split by width.
type Key struct {
	Code  string
	Width float64
}

// String renders the key in its journal form, "1000|1200".
func (k Key) String() string {
	return fmt.Sprintf("%s|%s", k.Code, strconv.FormatFloat(k.Width, 'f', -1, 64))
}

// Less orders keys by code, then width.
func (k Key) Less(other Key) bool {
	if k.Code != other.Code {
		return k.Code < other.Code
	}
	return k.Width < other.Width
}

// Ambiguous reports whether the key lost its width during resolution.
func (k Key) Ambiguous() bool {
	return k.Width == 0
}
