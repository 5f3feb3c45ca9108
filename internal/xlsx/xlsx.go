package xlsx

import (
	"bytes"
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/magicjohnson/Invoice-extractor/internal/invoice"
)

const sheetName = "Invoices"

// maxColWidth caps auto-fit column widths so a long description does not
// blow the sheet out.
const maxColWidth = 50

// Write renders records into an XLSX workbook: one header row styled bold on
// a grey fill, one row per record, columns auto-fit. fields sets the column
// order; nil means invoice.Fields.
func Write(records []invoice.Record, fields []string) ([]byte, error) {
	if fields == nil {
		fields = invoice.Fields
	}

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("xlsx sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"D3D3D3"}},
	})
	if err != nil {
		return nil, fmt.Errorf("xlsx style: %w", err)
	}

	widths := make([]int, len(fields))
	for col, h := range fields {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return nil, fmt.Errorf("xlsx header: %w", err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			return nil, fmt.Errorf("xlsx header style: %w", err)
		}
		widths[col] = len(h)
	}

	for row, r := range records {
		for col, h := range fields {
			v := r.Field(h)
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return nil, fmt.Errorf("xlsx cell: %w", err)
			}
			if len(v) > widths[col] {
				widths[col] = len(v)
			}
		}
	}

	for col, w := range widths {
		w += 2
		if w > maxColWidth {
			w = maxColWidth
		}
		name, _ := excelize.ColumnNumberToName(col + 1)
		if err := f.SetColWidth(sheetName, name, name, float64(w)); err != nil {
			return nil, fmt.Errorf("xlsx col width: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile writes the workbook to path.
func WriteFile(path string, records []invoice.Record, fields []string) error {
	b, err := Write(records, fields)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
