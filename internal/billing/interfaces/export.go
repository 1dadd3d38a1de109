// Package interfaces renders billing results for downstream
// collaborators: the booking-system import CSV plus XLSX and PDF
// renditions for staff and dispute resolution.
package interfaces

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	billing "illuminator-billing/internal/billing/domain"
)

const dayLayout = "2006-01-02"

var summaryColumns = []string{
	"Date",
	"Club",
	"Area",
	"Start Time",
	"End Time",
	"Duration (minutes)",
	"Detailed Summary",
	"Short Summary",
	"Total Cost",
}

// BuildSummariesCSV renders the billing import CSV.
func BuildSummariesCSV(summaries []billing.DailySummary) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(summaryColumns); err != nil {
		return nil, err
	}
	for _, summary := range summaries {
		record := []string{
			summary.Day.Format(dayLayout),
			summary.Club,
			summary.Area,
			summary.StartTime,
			summary.EndTime,
			strconv.Itoa(summary.DurationMinutes),
			summary.DetailedSummary,
			summary.ShortSummary,
			fmt.Sprintf("%.2f", summary.TotalCost),
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildSummariesXLSX renders the summaries as a single-sheet workbook.
func BuildSummariesXLSX(summaries []billing.DailySummary) ([]byte, error) {
	f := excelize.NewFile()
	sheet := "summaries"
	f.SetSheetName("Sheet1", sheet)

	for col, name := range summaryColumns {
		cellRef, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		_ = f.SetCellValue(sheet, cellRef, name)
	}
	for i, summary := range summaries {
		row := i + 2
		values := []any{
			summary.Day.Format(dayLayout),
			summary.Club,
			summary.Area,
			summary.StartTime,
			summary.EndTime,
			summary.DurationMinutes,
			summary.DetailedSummary,
			summary.ShortSummary,
			summary.TotalCost,
		}
		for col, value := range values {
			cellRef, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, err
			}
			_ = f.SetCellValue(sheet, cellRef, value)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildSummariesPDF renders a compact per-summary PDF for staff.
func BuildSummariesPDF(summaries []billing.DailySummary) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Lighting Billing Summaries")
	pdf.Ln(10)

	var total float64
	for _, summary := range summaries {
		total += summary.TotalCost

		pdf.SetFont("Arial", "B", 10)
		pdf.Cell(0, 6, fmt.Sprintf("%s | %s | %s", summary.Day.Format(dayLayout), summary.Club, summary.Area))
		pdf.Ln(5)
		pdf.SetFont("Arial", "", 9)
		pdf.Cell(0, 5, fmt.Sprintf("Session: %s-%s | %d min | $%.2f",
			summary.StartTime, summary.EndTime, summary.DurationMinutes, summary.TotalCost))
		pdf.Ln(5)
		pdf.MultiCell(0, 4, summary.DetailedSummary, "", "L", false)
		pdf.Ln(3)
	}

	pdf.SetFont("Arial", "B", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Total Billed: $%.2f", total))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
