package statement

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"ledgerbook/internal/models"
)

func TestParse_TypedFormat(t *testing.T) {
	csv := strings.Join([]string{
		"Details,Posting Date,Description,Amount,Type,Balance,Check or Slip #",
		"DEBIT,1/2/24,Coffee Shop,-4.50,DEBIT_CARD,995.50,",
		"CREDIT,1/3/24,Payroll,\"2,500.00\",ACH_CREDIT,\"3,495.50\",",
		"DEBIT,1/4/24,Check to landlord,-1200.00,CHECK_PAID,2295.50,1042",
	}, "\n")

	stmt, err := Parse(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stmt.Format != FormatTyped {
		t.Fatalf("expected typed format, got %s", stmt.Format)
	}
	if len(stmt.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(stmt.Rows))
	}

	first := stmt.Rows[0]
	if !first.Date.Equal(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected date: %v", first.Date)
	}
	if first.Description != "Coffee Shop" {
		t.Errorf("unexpected description: %q", first.Description)
	}
	if first.CSVType != "DEBIT_CARD" {
		t.Errorf("unexpected csv type: %q", first.CSVType)
	}
	if !first.Amount.Equal(decimal.NewFromFloat(4.50)) {
		t.Errorf("expected absolute amount 4.50, got %s", first.Amount)
	}

	if !stmt.Rows[1].Amount.Equal(decimal.NewFromFloat(2500.00)) {
		t.Errorf("expected comma-stripped amount 2500.00, got %s", stmt.Rows[1].Amount)
	}
	if stmt.Rows[2].ReferenceNumber != "1042" {
		t.Errorf("expected check number 1042, got %q", stmt.Rows[2].ReferenceNumber)
	}
}

func TestParse_SignedFormat(t *testing.T) {
	csv := strings.Join([]string{
		"Posting Date,Description,Amount,Balance",
		"2024-01-02,Coffee Shop,-4.50,995.50",
		"2024-01-03,Payroll,2500.00,3495.50",
		"2024-01-04,Void,0.00,3495.50",
	}, "\n")

	stmt, err := Parse(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stmt.Format != FormatSigned {
		t.Fatalf("expected signed format, got %s", stmt.Format)
	}
	if len(stmt.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(stmt.Rows))
	}
	if stmt.Skipped != 1 {
		t.Errorf("expected 1 skipped zero-amount row, got %d", stmt.Skipped)
	}

	if stmt.Rows[0].Direction != models.DirectionDebit || stmt.Rows[0].InternalType != models.TransactionWithdrawal {
		t.Errorf("negative amount should be a debit withdrawal, got %s/%s",
			stmt.Rows[0].Direction, stmt.Rows[0].InternalType)
	}
	if stmt.Rows[0].Amount.IsNegative() {
		t.Errorf("row amount must be non-negative, got %s", stmt.Rows[0].Amount)
	}
	if stmt.Rows[1].Direction != models.DirectionCredit || stmt.Rows[1].InternalType != models.TransactionDeposit {
		t.Errorf("positive amount should be a credit deposit, got %s/%s",
			stmt.Rows[1].Direction, stmt.Rows[1].InternalType)
	}
}

func TestParse_SplitFormat(t *testing.T) {
	csv := strings.Join([]string{
		"Posting Date,Description,Credit,Debit,Balance",
		"1/2/2024,Deposit,$100.00,,1100.00",
		"1/3/2024,Groceries,,45.00,1055.00",
		"1/4/2024,Nothing,,,1055.00",
		"1/5/2024,Broken,50.00,50.00,1055.00",
	}, "\n")

	stmt, err := Parse(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stmt.Format != FormatSplit {
		t.Fatalf("expected split format, got %s", stmt.Format)
	}
	if len(stmt.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(stmt.Rows))
	}
	if stmt.Skipped != 1 {
		t.Errorf("expected 1 skipped empty row, got %d", stmt.Skipped)
	}
	if len(stmt.Errors) != 1 {
		t.Fatalf("expected 1 ambiguous-line error, got %d", len(stmt.Errors))
	}
	if stmt.Errors[0].Line != 5 {
		t.Errorf("expected error on line 5, got %d", stmt.Errors[0].Line)
	}

	if stmt.Rows[0].Direction != models.DirectionCredit {
		t.Errorf("credit column row should be a credit, got %s", stmt.Rows[0].Direction)
	}
	if !stmt.Rows[0].Amount.Equal(decimal.NewFromFloat(100.00)) {
		t.Errorf("expected dollar-stripped amount 100.00, got %s", stmt.Rows[0].Amount)
	}
	if stmt.Rows[1].Direction != models.DirectionDebit {
		t.Errorf("debit column row should be a debit, got %s", stmt.Rows[1].Direction)
	}
}

func TestParse_SignedWinsOverSplitColumns(t *testing.T) {
	csv := strings.Join([]string{
		"Posting Date,Description,Amount,Credit,Debit,Balance",
		"1/2/2024,Refund reversal,-4.50,4.50,,995.50",
	}, "\n")

	stmt, err := Parse(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stmt.Format != FormatSigned {
		t.Fatalf("header with both schemas must classify as signed, got %s", stmt.Format)
	}
	if len(stmt.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(stmt.Rows))
	}
	if stmt.Rows[0].Direction != models.DirectionDebit {
		t.Errorf("negative signed amount should post as a debit, got %s", stmt.Rows[0].Direction)
	}
	if !stmt.Rows[0].Amount.Equal(decimal.NewFromFloat(4.50)) {
		t.Errorf("expected absolute amount 4.50, got %s", stmt.Rows[0].Amount)
	}
}

func TestParse_HeaderAfterPreamble(t *testing.T) {
	csv := strings.Join([]string{
		"First Example Bank",
		"Statement period: Jan 2024",
		"",
		"Account,XXXX-1234",
		"Date,Description,Amount,Running Bal.",
		"1/2/2024,Coffee Shop,-4.50,995.50",
	}, "\n")

	stmt, err := Parse(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stmt.Format != FormatSigned {
		t.Fatalf("expected signed format via aliases, got %s", stmt.Format)
	}
	if len(stmt.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(stmt.Rows))
	}
}

func TestParse_UnrecognizedFormat(t *testing.T) {
	csv := strings.Join([]string{
		"Some,Random,Columns",
		"1,2,3",
	}, "\n")

	_, err := Parse(strings.NewReader(csv))
	if err != ErrUnrecognizedFormat {
		t.Fatalf("expected ErrUnrecognizedFormat, got %v", err)
	}
}

func TestParse_BadDateIsRowError(t *testing.T) {
	csv := strings.Join([]string{
		"Posting Date,Description,Amount,Balance",
		"not-a-date,Coffee Shop,-4.50,995.50",
		"2024-01-03,Payroll,2500.00,3495.50",
	}, "\n")

	stmt, err := Parse(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stmt.Rows) != 1 {
		t.Errorf("expected the good row to survive, got %d rows", len(stmt.Rows))
	}
	if len(stmt.Errors) != 1 {
		t.Fatalf("expected 1 row error, got %d", len(stmt.Errors))
	}
	if stmt.Errors[0].Line != 2 {
		t.Errorf("expected error on line 2, got %d", stmt.Errors[0].Line)
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"two_digit_year", "1/2/24", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
		{"four_digit_year", "1/2/2024", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
		{"iso", "2024-01-02", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
		{"dashes", "1-2-2024", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
		{"two_digit_pivot_to_1900s", "1/2/55", time.Date(1955, 1, 2, 0, 0, 0, 0, time.UTC)},
		{"two_digit_stays_2000s", "1/2/49", time.Date(2049, 1, 2, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}

	t.Run("empty", func(t *testing.T) {
		if _, err := ParseDate(""); err == nil {
			t.Error("expected error for empty date")
		}
	})
	t.Run("garbage", func(t *testing.T) {
		if _, err := ParseDate("soon"); err == nil {
			t.Error("expected error for unparseable date")
		}
	})
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "4.50", "4.5"},
		{"negative", "-4.50", "-4.5"},
		{"dollar_sign", "$100.00", "100"},
		{"thousands", "2,500.00", "2500"},
		{"dollar_and_thousands", "$1,234.56", "1234.56"},
		{"empty_is_zero", "", "0"},
		{"whitespace_is_zero", "   ", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			want, _ := decimal.NewFromString(tt.want)
			if !got.Equal(want) {
				t.Errorf("ParseAmount(%q) = %s, want %s", tt.input, got, want)
			}
		})
	}

	t.Run("garbage", func(t *testing.T) {
		if _, err := ParseAmount("12.34.56"); err == nil {
			t.Error("expected error for unparseable amount")
		}
	})
}
