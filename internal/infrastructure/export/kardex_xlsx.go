// Package export renders domain reports into downloadable office
// formats.
package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"coilledger/internal/domain/kardex"
)

const dateLayout = "02/01/2006"

// KardexXLSX renders a kardex report as a spreadsheet: one summary row
// per ledger key followed by its dated movements, plus a separate sheet
// for resolution diagnostics when any exist.
func KardexXLSX(report kardex.Report) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if err := f.SetSheetName(sheet, "Kardex"); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	sheet = "Kardex"

	header := []interface{}{
		"Code", "Width", "Description", "Date", "Kind", "Weight (kg)", "Detail", "Balance (kg)",
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	row := 2
	for _, r := range report.Rows {
		opening := []interface{}{
			r.Key.Code, r.Key.Width, r.Description,
			report.From.Format(dateLayout), "opening", "", "", r.InitialBalance,
		}
		if err := writeRow(f, sheet, row, opening); err != nil {
			return nil, err
		}
		row++

		for _, m := range r.Movements {
			line := []interface{}{
				r.Key.Code, r.Key.Width, r.Description,
				m.Date.Format(dateLayout), string(m.Kind), m.Weight, m.Detail, m.Balance,
			}
			if err := writeRow(f, sheet, row, line); err != nil {
				return nil, err
			}
			row++
		}

		closing := []interface{}{
			r.Key.Code, r.Key.Width, r.Description,
			report.To.Format(dateLayout), "closing", "", "", r.FinalBalance,
		}
		if err := writeRow(f, sheet, row, closing); err != nil {
			return nil, err
		}
		row++
	}

	if len(report.Diagnostics) > 0 {
		if err := writeDiagnostics(f, report.Diagnostics); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeDiagnostics(f *excelize.File, diags []kardex.Diagnostic) error {
	const sheet = "Diagnostics"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("create diagnostics sheet: %w", err)
	}

	header := []interface{}{"Cut ID", "Mother Code", "Weight (kg)", "Reason"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write diagnostics header: %w", err)
	}
	for i, d := range diags {
		line := []interface{}{d.CutID, d.MotherCode, d.Weight, d.Reason}
		if err := writeRow(f, sheet, i+2, line); err != nil {
			return err
		}
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("cell name for row %d: %w", row, err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write row %d: %w", row, err)
	}
	return nil
}
