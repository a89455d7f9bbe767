package validation

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/username/tradejournal/backend/src/models"
)

// ErrValidationFailed is the sentinel all field errors wrap.
var ErrValidationFailed = fmt.Errorf("validation failed")

const (
	MaxSymbolLength = 10
	MaxNoteLength   = 2048
)

// TradeInput is the raw, owner-supplied trade payload before
// normalization.
type TradeInput struct {
	Symbol     string
	Side       string
	TradeDate  string
	ProfitLoss string
	Note       string
}

// ValidatedTrade is the normalized result: symbol uppercased, date
// reduced to its calendar day, profit/loss parsed exactly.
type ValidatedTrade struct {
	Symbol     string
	Side       string
	TradeDate  string // YYYY-MM-DD
	ProfitLoss decimal.Decimal
	Note       string
}

// ValidateTradeInput checks and normalizes a full trade payload.
func ValidateTradeInput(in TradeInput) (*ValidatedTrade, error) {
	symbol, err := ValidateSymbol(in.Symbol)
	if err != nil {
		return nil, err
	}
	side, err := ValidateSide(in.Side)
	if err != nil {
		return nil, err
	}
	date, err := ValidateTradeDate(in.TradeDate)
	if err != nil {
		return nil, err
	}
	pl, err := ValidateProfitLoss(in.ProfitLoss)
	if err != nil {
		return nil, err
	}
	note, err := ValidateNote(in.Note)
	if err != nil {
		return nil, err
	}

	return &ValidatedTrade{
		Symbol:     symbol,
		Side:       side,
		TradeDate:  date,
		ProfitLoss: pl,
		Note:       note,
	}, nil
}

// ValidateSymbol trims, uppercases and bounds the ticker symbol.
func ValidateSymbol(symbol string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if s == "" {
		return "", fmt.Errorf("%w: symbol is required", ErrValidationFailed)
	}
	if utf8.RuneCountInString(s) > MaxSymbolLength {
		return "", fmt.Errorf("%w: symbol must be at most %d characters", ErrValidationFailed, MaxSymbolLength)
	}
	return s, nil
}

// ValidateSide accepts BUY or SELL, case-insensitively.
func ValidateSide(side string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(side))
	if s != models.SideBuy && s != models.SideSell {
		return "", fmt.Errorf("%w: side must be either BUY or SELL", ErrValidationFailed)
	}
	return s, nil
}

// ValidateTradeDate accepts a YYYY-MM-DD date or an RFC3339 timestamp
// and normalizes it to the calendar day.
func ValidateTradeDate(date string) (string, error) {
	s := strings.TrimSpace(date)
	if s == "" {
		return "", fmt.Errorf("%w: trade date is required", ErrValidationFailed)
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.Format("2006-01-02"), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Format("2006-01-02"), nil
	}
	return "", fmt.Errorf("%w: trade date %q is not a valid date (expected YYYY-MM-DD)", ErrValidationFailed, s)
}

// ValidateProfitLoss parses the signed decimal amount.
func ValidateProfitLoss(amount string) (decimal.Decimal, error) {
	s := strings.TrimSpace(amount)
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: profit/loss is required", ErrValidationFailed)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: profit/loss must be a number", ErrValidationFailed)
	}
	return d, nil
}

// ValidateNote sanitizes the optional free-text note and bounds its
// length. An empty note is valid.
func ValidateNote(note string) (string, error) {
	s := SanitizeText(strings.TrimSpace(note))
	if utf8.RuneCountInString(s) > MaxNoteLength {
		return "", fmt.Errorf("%w: note exceeds maximum length of %d characters", ErrValidationFailed, MaxNoteLength)
	}
	return s, nil
}
