package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	billing "illuminator-billing/internal/billing/domain"
)

// ParseXLSX reads the same rectangular schema from an XLSX workbook.
// Rows come from the first sheet; the report-title row is discarded
// like the CSV reader does.
func ParseXLSX(r io.Reader) ([]billing.UsageEvent, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("report: unable to read XLSX data: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, ErrEmptyReport
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("report: read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyReport
	}
	return parseRows(rows[1:])
}
