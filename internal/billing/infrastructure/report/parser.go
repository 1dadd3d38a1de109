// Package report parses Illuminator Central usage exports into clean
// usage events. One fixed schema is supported: a report-title line,
// then a header row, then one row per lighting session. Subtotal rows
// emitted by the controller are filtered out here so the billing core
// never sees them.
package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	billing "illuminator-billing/internal/billing/domain"
)

// TimeLayout is the fixed timestamp format of the export,
// DD/MM/YYYY HH:MM:SS.
const TimeLayout = "02/01/2006 15:04:05"

const timeLayoutHint = "format DD/MM/YYYY HH:MM:SS"

const (
	columnClub     = "Club"
	columnFacility = "Facility"
	columnLighting = "Lighting"
	columnTurnOn   = "Turn on"
	columnTurnOff  = "Turn off"
	columnPower    = "Rated power (kW)"
	columnRate     = "Cost/kWh"
)

var requiredColumns = []string{
	columnClub,
	columnFacility,
	columnLighting,
	columnTurnOn,
	columnTurnOff,
	columnPower,
}

// parseRows validates and normalizes raw table rows. rows[0] must be
// the header row; the report-title line is stripped by the readers.
func parseRows(rows [][]string) ([]billing.UsageEvent, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyReport
	}

	header := rows[0]
	index := make(map[string]int, len(header))
	found := make([]string, 0, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		found = append(found, name)
		if _, ok := index[name]; !ok {
			index[name] = i
		}
	}

	var missing []string
	for _, name := range requiredColumns {
		if _, ok := index[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Missing: missing, Found: found}
	}

	if len(rows) == 1 {
		return nil, ErrEmptyReport
	}

	_, hasRate := index[columnRate]

	var events []billing.UsageEvent
	for i, row := range rows[1:] {
		rowNum := i + 2 // 1-based, counting the header

		club := cell(row, index[columnClub])
		if club == "" || strings.Contains(club, "Total") {
			continue
		}
		turnOnRaw := cell(row, index[columnTurnOn])
		if turnOnRaw == "" {
			continue
		}

		turnOn, err := time.Parse(TimeLayout, turnOnRaw)
		if err != nil {
			return nil, &FormatError{Row: rowNum, Column: columnTurnOn, Value: turnOnRaw, Expected: timeLayoutHint}
		}
		turnOffRaw := cell(row, index[columnTurnOff])
		turnOff, err := time.Parse(TimeLayout, turnOffRaw)
		if err != nil {
			return nil, &FormatError{Row: rowNum, Column: columnTurnOff, Value: turnOffRaw, Expected: timeLayoutHint}
		}
		if !turnOff.After(turnOn) {
			return nil, fmt.Errorf("row %d (%s %s): %w", rowNum, club, turnOnRaw, ErrSessionOrder)
		}

		powerRaw := cell(row, index[columnPower])
		power, err := strconv.ParseFloat(powerRaw, 64)
		if err != nil || power < 0 {
			return nil, &FormatError{Row: rowNum, Column: columnPower, Value: powerRaw, Expected: "a non-negative number"}
		}

		event := billing.UsageEvent{
			Club:         club,
			Facility:     cell(row, index[columnFacility]),
			Lighting:     cell(row, index[columnLighting]),
			TurnOn:       turnOn,
			TurnOff:      turnOff,
			RatedPowerKW: power,
		}
		if hasRate {
			event.CostPerKWh = parseRate(cell(row, index[columnRate]))
		}
		events = append(events, event)
	}

	if len(events) == 0 {
		return nil, ErrNoUsableRows
	}
	return events, nil
}

// parseRate coerces a per-row rate, tolerating a leading currency
// symbol. Unparseable values become rate-unknown (nil), resolved later
// by the three-tier rate fallback, never a hard failure.
func parseRate(raw string) *float64 {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, "$", ""))
	if raw == "" {
		return nil
	}
	rate, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &rate
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
