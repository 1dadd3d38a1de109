package report

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyReport is returned when the export holds no data rows at all.
	ErrEmptyReport = errors.New("report: the export contains no usage data")
	// ErrNoUsableRows is returned when filtering removed every row.
	ErrNoUsableRows = errors.New("report: no valid usage data left after filtering")
	// ErrSessionOrder is returned when a session ends at or before its start.
	ErrSessionOrder = errors.New("report: turn off must be after turn on")
)

// SchemaError reports required columns missing from the export header.
// The message enumerates what is missing and echoes what was found so
// an operator can tell a wrong file from a broken one.
type SchemaError struct {
	Missing []string
	Found   []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf(
		"report: not a valid Illuminator Central export, missing required columns: %s (expected: %s; found: %s)",
		strings.Join(e.Missing, ", "),
		strings.Join(requiredColumns, ", "),
		strings.Join(e.Found, ", "),
	)
}

// FormatError reports a cell value that does not parse under the fixed
// export format.
type FormatError struct {
	Row      int
	Column   string
	Value    string
	Expected string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("report: row %d: invalid %s value %q, expected %s", e.Row, e.Column, e.Value, e.Expected)
}
