package report

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	billing "illuminator-billing/internal/billing/domain"
)

// ParseCSV reads an Illuminator Central CSV export. The first line is
// the report title and is discarded before the header row is read.
func ParseCSV(r io.Reader) ([]billing.UsageEvent, error) {
	buffered := bufio.NewReader(r)
	if _, err := buffered.ReadString('\n'); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyReport
		}
		return nil, fmt.Errorf("report: read title line: %w", err)
	}

	reader := csv.NewReader(buffered)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("report: unable to read CSV data: %w", err)
	}
	return parseRows(rows)
}
