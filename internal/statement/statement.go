// Package statement parses raw bank-statement CSV exports into normalized
// rows. It is a pure function of the input text: no persistence, no account
// resolution. Banks disagree on column names, date formats, and how they
// express direction, so parsing runs in stages: header discovery, column
// alias normalization, format classification, then row extraction.
package statement

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"ledgerbook/internal/models"
)

// ErrUnrecognizedFormat is returned when no known column schema matches the
// first headerScanLimit non-empty lines.
var ErrUnrecognizedFormat = errors.New("statement: unrecognized format")

// headerScanLimit bounds how many non-empty lines are examined for a header.
const headerScanLimit = 20

// Format identifies how a statement expresses transaction direction.
type Format string

const (
	// FormatTyped carries an explicit Type column resolved via mappings.
	FormatTyped Format = "TYPED"
	// FormatSigned carries one signed Amount column.
	FormatSigned Format = "SIGNED"
	// FormatSplit carries separate Credit and Debit columns.
	FormatSplit Format = "SPLIT"
)

// Row is one normalized statement line. Amount is always non-negative.
// For FormatTyped rows, CSVType holds the raw type token and Direction/
// InternalType are left for the caller to resolve via mappings; for the
// other formats they are already determined.
type Row struct {
	Line            int
	Date            time.Time
	Description     string
	ReferenceNumber string
	CSVType         string
	Direction       models.Direction
	InternalType    models.TransactionType
	Amount          decimal.Decimal
}

// RowError is a non-fatal, row-local parsing failure.
type RowError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// Statement is the result of parsing one CSV export.
type Statement struct {
	Format  Format
	Rows    []Row
	Skipped int
	Errors  []RowError
}

// columnAliases maps known alternative column names onto the canonical
// ones, case-insensitively, before schema matching.
var columnAliases = map[string]string{
	"date":            "posting date",
	"running bal.":    "balance",
	"running bal":     "balance",
	"running balance": "balance",
}

// Required column sets per format, checked in priority order: typed, then
// signed, then split. A header matches a format when its normalized column
// set is a superset, so a signed Amount column wins over Credit/Debit
// columns when a header carries both.
var (
	typedColumns  = []string{"details", "posting date", "description", "amount", "type", "balance"}
	signedColumns = []string{"posting date", "description", "amount", "balance"}
	splitColumns  = []string{"posting date", "description", "credit", "debit", "balance"}
)

// Parse reads a statement CSV and returns its normalized rows. Row-level
// problems go into Statement.Errors; only a missing header is fatal.
func Parse(r io.Reader) (*Statement, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var records [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("statement: reading csv: %w", err)
		}
		records = append(records, record)
	}

	headerIdx, format, columns := discoverHeader(records)
	if headerIdx < 0 {
		return nil, ErrUnrecognizedFormat
	}

	stmt := &Statement{Format: format}
	for i := headerIdx + 1; i < len(records); i++ {
		record := records[i]
		if isEmptyRecord(record) {
			continue
		}
		parseRow(stmt, record, columns, i+1)
	}
	return stmt, nil
}

// discoverHeader scans the first headerScanLimit non-empty records for a
// line matching one of the known schemas. Returns the record index, the
// classified format, and the canonical-name → field-index map.
func discoverHeader(records [][]string) (int, Format, map[string]int) {
	scanned := 0
	for i, record := range records {
		if isEmptyRecord(record) {
			continue
		}
		scanned++
		if scanned > headerScanLimit {
			break
		}

		columns := make(map[string]int, len(record))
		for idx, cell := range record {
			name := strings.ToLower(strings.TrimSpace(cell))
			if canonical, ok := columnAliases[name]; ok {
				name = canonical
			}
			if _, exists := columns[name]; !exists && name != "" {
				columns[name] = idx
			}
		}

		switch {
		case hasColumns(columns, typedColumns):
			return i, FormatTyped, columns
		case hasColumns(columns, signedColumns):
			return i, FormatSigned, columns
		case hasColumns(columns, splitColumns):
			return i, FormatSplit, columns
		}
	}
	return -1, "", nil
}

func hasColumns(columns map[string]int, required []string) bool {
	for _, name := range required {
		if _, ok := columns[name]; !ok {
			return false
		}
	}
	return true
}

func isEmptyRecord(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func parseRow(stmt *Statement, record []string, columns map[string]int, line int) {
	cell := func(name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	date, err := ParseDate(cell("posting date"))
	if err != nil {
		stmt.Errors = append(stmt.Errors, RowError{Line: line, Message: err.Error()})
		return
	}

	row := Row{
		Line:            line,
		Date:            date,
		Description:     cell("description"),
		ReferenceNumber: cell("check or slip #"),
	}

	switch stmt.Format {
	case FormatTyped:
		amount, err := ParseAmount(cell("amount"))
		if err != nil {
			stmt.Errors = append(stmt.Errors, RowError{Line: line, Message: err.Error()})
			return
		}
		if amount.IsZero() {
			stmt.Skipped++
			return
		}
		row.CSVType = strings.ToUpper(cell("type"))
		row.Amount = amount.Abs()

	case FormatSigned:
		amount, err := ParseAmount(cell("amount"))
		if err != nil {
			stmt.Errors = append(stmt.Errors, RowError{Line: line, Message: err.Error()})
			return
		}
		if amount.IsZero() {
			stmt.Skipped++
			return
		}
		if amount.IsNegative() {
			row.Direction = models.DirectionDebit
			row.InternalType = models.TransactionWithdrawal
		} else {
			row.Direction = models.DirectionCredit
			row.InternalType = models.TransactionDeposit
		}
		row.Amount = amount.Abs()

	case FormatSplit:
		credit, err := ParseAmount(cell("credit"))
		if err != nil {
			stmt.Errors = append(stmt.Errors, RowError{Line: line, Message: err.Error()})
			return
		}
		debit, err := ParseAmount(cell("debit"))
		if err != nil {
			stmt.Errors = append(stmt.Errors, RowError{Line: line, Message: err.Error()})
			return
		}
		switch {
		case credit.IsZero() && debit.IsZero():
			stmt.Skipped++
			return
		case !credit.IsZero() && !debit.IsZero():
			stmt.Errors = append(stmt.Errors, RowError{Line: line, Message: "ambiguous line: both credit and debit are set"})
			return
		case !credit.IsZero():
			row.Direction = models.DirectionCredit
			row.InternalType = models.TransactionDeposit
			row.Amount = credit.Abs()
		default:
			row.Direction = models.DirectionDebit
			row.InternalType = models.TransactionWithdrawal
			row.Amount = debit.Abs()
		}
	}

	stmt.Rows = append(stmt.Rows, row)
}

// dateLayouts are tried in order. The two-digit-year layouts come first so
// that e.g. 1/2/24 is not misread by a four-digit layout.
var dateLayouts = []struct {
	layout   string
	twoDigit bool
}{
	{"1/2/06", true},
	{"1/2/2006", false},
	{"2006-01-02", false},
	{"1-2-2006", false},
	{"2/1/2006", false},
	{"2/1/06", true},
}

// ParseDate parses a statement date, trying known layouts in order.
// Two-digit years below 50 map to the 2000s, 50 and above to the 1900s.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("missing date")
	}
	for _, dl := range dateLayouts {
		t, err := time.Parse(dl.layout, s)
		if err != nil {
			continue
		}
		// Go pivots two-digit years at 69; re-pivot to 50.
		if dl.twoDigit && t.Year() >= 2050 {
			t = t.AddDate(-100, 0, 0)
		}
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}

// ParseAmount parses a money amount, stripping currency symbols and
// thousands separators. Empty input parses as zero.
func ParseAmount(s string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.ReplaceAll(cleaned, "$", "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	if cleaned == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("unparseable amount %q", s)
	}
	return d, nil
}
