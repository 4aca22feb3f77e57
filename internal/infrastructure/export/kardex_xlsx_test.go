package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"coilledger/internal/domain/kardex"
	"coilledger/internal/domain/ledger"
)

func TestKardexXLSX(t *testing.T) {
	report := kardex.Report{
		From: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
		Rows: []kardex.Row{
			{
				Key:            ledger.Key{Code: "1000", Width: 1200},
				Description:    "Cold rolled coil",
				InitialBalance: 5000,
				PeriodIn:       4000,
				PeriodOut:      3000,
				FinalBalance:   6000,
				Movements: []kardex.Movement{
					{
						Date:    time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
						Kind:    kardex.MovementIn,
						Weight:  4000,
						Detail:  "NF 4512",
						Balance: 9000,
					},
					{
						Date:    time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC),
						Kind:    kardex.MovementOut,
						Weight:  -3000,
						Balance: 6000,
					},
				},
			},
		},
		Diagnostics: []kardex.Diagnostic{
			{CutID: "c-1", MotherCode: "2000", Weight: 120, Reason: "no mother lot matched"},
		},
	}

	data, err := KardexXLSX(report)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	code, err := f.GetCellValue("Kardex", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Code", code)

	// Row 2 is the opening line, rows 3-4 the movements, row 5 closing.
	kind, err := f.GetCellValue("Kardex", "E3")
	require.NoError(t, err)
	assert.Equal(t, "in", kind)

	balance, err := f.GetCellValue("Kardex", "H5")
	require.NoError(t, err)
	assert.Equal(t, "6000", balance)

	reason, err := f.GetCellValue("Diagnostics", "D2")
	require.NoError(t, err)
	assert.Equal(t, "no mother lot matched", reason)
}
