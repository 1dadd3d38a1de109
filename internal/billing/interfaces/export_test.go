package interfaces

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	billing "illuminator-billing/internal/billing/domain"
)

func sampleSummaries() []billing.DailySummary {
	return []billing.DailySummary{
		{
			Day:             time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
			Club:            "Riverside",
			Area:            "Field 1",
			StartTime:       "09:00",
			EndTime:         "10:00",
			DurationMinutes: 60,
			DetailedSummary: "Admiral Park | Field 1 | Date: 2026-03-05 (Thu) | Club: Riverside\nSession: 09:00-10:00 | Total Duration: 60 min | Total Cost: $0.38\nNorth 50 lux: 09:00-10:00 | 30 min | $0.16 (30 min in North 100 lux)",
			ShortSummary:    "North 50 lux: 09:00-10:00 (30min) | Total: $0.38",
			TotalCost:       0.38,
		},
	}
}

func TestBuildSummariesCSV(t *testing.T) {
	data, err := BuildSummariesCSV(sampleSummaries())
	if err != nil {
		t.Fatalf("build csv: %v", err)
	}

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("reparse csv: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected header plus one record, got %d rows", len(records))
	}
	if records[0][0] != "Date" || records[0][8] != "Total Cost" {
		t.Fatalf("unexpected header %v", records[0])
	}
	row := records[1]
	if row[0] != "2026-03-05" || row[1] != "Riverside" || row[8] != "0.38" {
		t.Fatalf("unexpected record %v", row)
	}
	if !strings.Contains(row[6], "North 50 lux") {
		t.Fatalf("detailed summary must survive the round trip: %q", row[6])
	}
}

func TestBuildSummariesXLSXAndPDFProduceData(t *testing.T) {
	xlsx, err := BuildSummariesXLSX(sampleSummaries())
	if err != nil {
		t.Fatalf("build xlsx: %v", err)
	}
	if len(xlsx) == 0 {
		t.Fatalf("empty xlsx output")
	}

	pdf, err := BuildSummariesPDF(sampleSummaries())
	if err != nil {
		t.Fatalf("build pdf: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatalf("pdf output missing magic header")
	}
}
