package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidateSymbol(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"uppercases and trims", "  esm4 ", "ESM4", false},
		{"already clean", "NQ", "NQ", false},
		{"empty", "", "", true},
		{"whitespace only", "   ", "", true},
		{"too long", "ABCDEFGHIJK", "", true},
		{"exactly max length", "ABCDEFGHIJ", "ABCDEFGHIJ", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ValidateSymbol(tc.input)
			if tc.wantErr {
				if !errors.Is(err, ErrValidationFailed) {
					t.Fatalf("got err %v, want ErrValidationFailed", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestValidateSide(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"buy lowercase", "buy", "BUY", false},
		{"sell mixed case", "Sell", "SELL", false},
		{"padded", " BUY ", "BUY", false},
		{"empty", "", "", true},
		{"unknown", "HOLD", "", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ValidateSide(tc.input)
			if tc.wantErr {
				if !errors.Is(err, ErrValidationFailed) {
					t.Fatalf("got err %v, want ErrValidationFailed", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestValidateTradeDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"plain date", "2024-03-05", "2024-03-05", false},
		{"rfc3339 reduced to day", "2024-03-05T14:30:00Z", "2024-03-05", false},
		{"rfc3339 with offset", "2024-03-05T23:30:00-05:00", "2024-03-05", false},
		{"empty", "", "", true},
		{"nonsense", "yesterday", "", true},
		{"impossible day", "2024-02-30", "", true},
		{"wrong separators", "05/03/2024", "", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ValidateTradeDate(tc.input)
			if tc.wantErr {
				if !errors.Is(err, ErrValidationFailed) {
					t.Fatalf("got err %v, want ErrValidationFailed", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestValidateProfitLoss(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"positive", "125.50", "125.5", false},
		{"negative", "-40", "-40", false},
		{"zero", "0", "0", false},
		{"exact decimal", "0.1", "0.1", false},
		{"empty", "", "", true},
		{"not a number", "lots", "", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ValidateProfitLoss(tc.input)
			if tc.wantErr {
				if !errors.Is(err, ErrValidationFailed) {
					t.Fatalf("got err %v, want ErrValidationFailed", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(decimal.RequireFromString(tc.want)) {
				t.Errorf("got %s, want %s", got, tc.want)
			}
		})
	}
}

func TestValidateNote(t *testing.T) {
	t.Run("strips markup", func(t *testing.T) {
		got, err := ValidateNote(`<script>alert(1)</script>held too long`)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Contains(got, "<") || strings.Contains(got, "script") {
			t.Errorf("markup survived sanitization: %q", got)
		}
		if !strings.Contains(got, "held too long") {
			t.Errorf("text content lost: %q", got)
		}
	})

	t.Run("empty is valid", func(t *testing.T) {
		got, err := ValidateNote("")
		if err != nil || got != "" {
			t.Errorf("got (%q, %v), want empty and nil", got, err)
		}
	})

	t.Run("too long", func(t *testing.T) {
		_, err := ValidateNote(strings.Repeat("a", MaxNoteLength+1))
		if !errors.Is(err, ErrValidationFailed) {
			t.Fatalf("got err %v, want ErrValidationFailed", err)
		}
	})
}

func TestValidateTradeInput(t *testing.T) {
	t.Run("normalizes full payload", func(t *testing.T) {
		got, err := ValidateTradeInput(TradeInput{
			Symbol:     "esm4",
			Side:       "buy",
			TradeDate:  "2024-03-05T14:30:00Z",
			ProfitLoss: "125.50",
			Note:       " scaled out early ",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Symbol != "ESM4" || got.Side != "BUY" || got.TradeDate != "2024-03-05" {
			t.Errorf("normalization wrong: %+v", got)
		}
		if !got.ProfitLoss.Equal(decimal.RequireFromString("125.5")) {
			t.Errorf("profit/loss = %s, want 125.5", got.ProfitLoss)
		}
		if got.Note != "scaled out early" {
			t.Errorf("note = %q", got.Note)
		}
	})

	t.Run("first failing field wins", func(t *testing.T) {
		_, err := ValidateTradeInput(TradeInput{
			Symbol:     "",
			Side:       "HOLD",
			TradeDate:  "bad",
			ProfitLoss: "bad",
		})
		if !errors.Is(err, ErrValidationFailed) {
			t.Fatalf("got err %v, want ErrValidationFailed", err)
		}
	})
}
